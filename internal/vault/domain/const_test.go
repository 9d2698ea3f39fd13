package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSensitiveFields(t *testing.T) {
	t.Run("every known type has a schema", func(t *testing.T) {
		for _, et := range EntityTypes() {
			fields, ok := SensitiveFields(et)
			assert.True(t, ok, "missing schema for %s", et)
			assert.NotEmpty(t, fields)
		}
	})

	t.Run("account schema is ordered", func(t *testing.T) {
		fields, ok := SensitiveFields(EntityTypeAccount)
		assert.True(t, ok)
		assert.Equal(t, []FieldSpec{
			{Name: "name", Kind: FieldText},
			{Name: "institution", Kind: FieldText},
			{Name: "balance", Kind: FieldNumeric},
		}, fields)
	})

	t.Run("unknown type has no schema", func(t *testing.T) {
		_, ok := SensitiveFields(EntityType("budget"))
		assert.False(t, ok)
	})
}

func TestParseEntityType(t *testing.T) {
	et, ok := ParseEntityType("transaction")
	assert.True(t, ok)
	assert.Equal(t, EntityTypeTransaction, et)

	_, ok = ParseEntityType("transactions")
	assert.False(t, ok)

	_, ok = ParseEntityType("")
	assert.False(t, ok)
}
