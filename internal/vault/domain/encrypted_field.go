// Package domain defines the cryptographic domain models for per-entity field
// encryption: the sensitive-field schema, the encrypted field wire format, the
// per-entity Data Encryption Key record, and per-user key pairs.
//
// The key hierarchy is: user password → sealed RSA private key → wrapped DEK →
// entity fields. Each protected entity gets its own 32-byte DEK, wrapped under
// the owner's public key and additionally under each share recipient's public key.
package domain

import (
	"encoding/base64"
	"encoding/json"
)

// EncryptedField is the on-disk representation of one encrypted sensitive
// field. Each member is base64; the triple is serialized as a compact JSON
// string and must be preserved byte-for-byte by any persistence layer.
type EncryptedField struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	AuthTag    string `json:"authTag"`
}

// AES-GCM wire parameters of the stored triple.
const (
	tagSize   = 16
	nonceSize = 12
)

// EncodeEncryptedField serializes the AEAD output as the stored field value.
// The GCM ciphertext carries the 16-byte auth tag appended; it is split out so
// the stored triple stays self-describing.
func EncodeEncryptedField(ciphertextWithTag, nonce []byte) (string, error) {
	if len(ciphertextWithTag) < tagSize {
		return "", ErrMalformedField
	}
	split := len(ciphertextWithTag) - tagSize

	f := EncryptedField{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertextWithTag[:split]),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(ciphertextWithTag[split:]),
	}

	raw, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeEncryptedField parses a stored field value back into AEAD inputs.
// Returns ErrMalformedField for anything that is not a well-formed triple
// (including plaintext values that were never encrypted).
func DecodeEncryptedField(stored string) (ciphertextWithTag, nonce []byte, err error) {
	var f EncryptedField
	if err := json.Unmarshal([]byte(stored), &f); err != nil {
		return nil, nil, ErrMalformedField
	}
	if f.Ciphertext == "" && f.AuthTag == "" {
		return nil, nil, ErrMalformedField
	}

	ciphertext, err := base64.StdEncoding.DecodeString(f.Ciphertext)
	if err != nil {
		return nil, nil, ErrMalformedField
	}
	tag, err := base64.StdEncoding.DecodeString(f.AuthTag)
	if err != nil {
		return nil, nil, ErrMalformedField
	}
	nonce, err = base64.StdEncoding.DecodeString(f.IV)
	if err != nil {
		return nil, nil, ErrMalformedField
	}
	if len(nonce) != nonceSize {
		return nil, nil, ErrMalformedField
	}

	return append(ciphertext, tag...), nonce, nil
}
