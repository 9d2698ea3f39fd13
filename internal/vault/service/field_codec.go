package service

import (
	"fmt"
	"strconv"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// SchemaFieldCodec implements FieldCodec against the static sensitive-field
// schema. It never mutates its input map.
type SchemaFieldCodec struct{}

// NewFieldCodec creates a new field codec.
func NewFieldCodec() *SchemaFieldCodec {
	return &SchemaFieldCodec{}
}

// Encrypt replaces each schema field present in data with its encrypted
// triple. Null values and empty strings pass through; fields outside the
// schema (and "id") are untouched. An entity type without a schema returns
// the data unchanged: that is the documented graceful fallback, not an error.
func (c *SchemaFieldCodec) Encrypt(
	entityType vaultDomain.EntityType,
	data map[string]any,
	dek []byte,
) (map[string]any, error) {
	schema, ok := vaultDomain.SensitiveFields(entityType)
	if !ok {
		return data, nil
	}

	cipher, err := NewAESGCM(dek)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	for _, field := range schema {
		value, present := data[field.Name]
		if !present || value == nil {
			continue
		}

		plaintext := stringifyFieldValue(value)
		if plaintext == "" {
			continue
		}

		ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt field %q: %w", field.Name, err)
		}

		encoded, err := vaultDomain.EncodeEncryptedField(ciphertext, nonce)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", field.Name, err)
		}

		out[field.Name] = encoded
	}

	return out, nil
}

// Decrypt is the inverse of Encrypt and is total: a wrong key, tampered
// ciphertext, or malformed stored value substitutes "" for text fields and 0
// for numeric fields instead of failing. A locked-out or corrupted record
// therefore renders as blank data, never as an error.
func (c *SchemaFieldCodec) Decrypt(
	entityType vaultDomain.EntityType,
	data map[string]any,
	dek []byte,
) map[string]any {
	schema, ok := vaultDomain.SensitiveFields(entityType)
	if !ok {
		return data
	}

	cipher, err := NewAESGCM(dek)
	if err != nil {
		return substituteAll(schema, data)
	}

	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	for _, field := range schema {
		value, present := data[field.Name]
		if !present || value == nil {
			continue
		}

		stored, isString := value.(string)
		if isString && stored == "" {
			continue
		}
		if !isString {
			out[field.Name] = blankValue(field.Kind)
			continue
		}

		ciphertext, nonce, err := vaultDomain.DecodeEncryptedField(stored)
		if err != nil {
			out[field.Name] = blankValue(field.Kind)
			continue
		}

		plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
		if err != nil {
			out[field.Name] = blankValue(field.Kind)
			continue
		}

		out[field.Name] = parseFieldValue(field.Kind, string(plaintext))
	}

	return out
}

// stringifyFieldValue serializes a field value for encryption. Numbers are
// stringified in plain decimal notation.
func stringifyFieldValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// parseFieldValue converts decrypted plaintext back to the field's kind.
// Unparseable numerics degrade to 0 like every other decrypt failure.
func parseFieldValue(kind vaultDomain.FieldKind, plaintext string) any {
	if kind == vaultDomain.FieldNumeric {
		n, err := strconv.ParseFloat(plaintext, 64)
		if err != nil {
			return float64(0)
		}
		return n
	}
	return plaintext
}

// blankValue is the degrade substitute for a failed field decryption.
func blankValue(kind vaultDomain.FieldKind) any {
	if kind == vaultDomain.FieldNumeric {
		return float64(0)
	}
	return ""
}

// substituteAll blanks every present schema field; used when the DEK itself
// is unusable.
func substituteAll(schema []vaultDomain.FieldSpec, data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	for _, field := range schema {
		if value, present := data[field.Name]; present && value != nil {
			if s, ok := value.(string); ok && s == "" {
				continue
			}
			out[field.Name] = blankValue(field.Kind)
		}
	}
	return out
}
