package vault

import (
	jsoniter "github.com/json-iterator/go"
)

// EncryptedKey is the mapping key used when an encrypted value is serialized
// without being decrypted.
const EncryptedKey = "__ansible_vault"

// EncryptedString is an inline vault value (YAML `!vault`) that was not
// decrypted because no password was supplied.
type EncryptedString struct {
	Ciphertext string
}

// String never reveals anything beyond the fact that the value is encrypted.
func (e EncryptedString) String() string {
	return "<vault encrypted>"
}

// MarshalJSON renders {"__ansible_vault": "<ciphertext>"}.
func (e EncryptedString) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]string{EncryptedKey: e.Ciphertext})
}

// MarshalYAML renders the same mapping as MarshalJSON.
func (e EncryptedString) MarshalYAML() (interface{}, error) {
	return map[string]string{EncryptedKey: e.Ciphertext}, nil
}
