// Package mocks provides database test doubles.
package mocks

import (
	"context"
)

// MockTxManager is a TxManager test double that runs the callback without a
// real transaction, so repository mocks see the same context the test built.
type MockTxManager struct {
	// Err, when set, is returned instead of running the callback.
	Err error
}

// NewMockTxManager creates a passthrough MockTxManager.
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}
