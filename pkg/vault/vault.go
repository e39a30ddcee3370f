// Package vault reads and writes the Ansible vault envelope
// (`$ANSIBLE_VAULT;1.1;AES256` and `$ANSIBLE_VAULT;1.2;AES256;<id>`).
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/perf"
)

const (
	HeaderPrefix   = "$ANSIBLE_VAULT"
	CipherAES256   = "AES256"
	Version11      = "1.1"
	Version12      = "1.2"
	DefaultVaultID = "default"

	kdfIterations = 10000
	keyLength     = 32
	ivLength      = aes.BlockSize
	saltLength    = 32
	lineWidth     = 80
)

// Secret is a vault password.
type Secret struct {
	password []byte
}

// NewSecret wraps a password. The slice is copied.
func NewSecret(password []byte) *Secret {
	return &Secret{password: append([]byte(nil), password...)}
}

// Bytes returns the raw password.
func (s *Secret) Bytes() []byte {
	return s.password
}

// Envelope is a parsed vault payload.
type Envelope struct {
	Version string
	Cipher  string
	VaultID string
	Salt    []byte
	HMAC    []byte
	Data    []byte
}

// IsEncrypted reports whether data starts with the vault header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(HeaderPrefix+";"))
}

// Parse splits the vault text into its header fields and decoded body.
func Parse(vaulttext []byte) (*Envelope, error) {
	text := strings.TrimSpace(string(vaulttext))
	lines := strings.Split(text, "\n")

	header := strings.Split(strings.TrimSpace(lines[0]), ";")
	if len(header) < 3 || header[0] != HeaderPrefix {
		return nil, errUtils.Build(errUtils.ErrVaultFormat).
			WithExplanation("missing or malformed $ANSIBLE_VAULT header").
			Err()
	}

	env := &Envelope{
		Version: strings.TrimSpace(header[1]),
		Cipher:  strings.TrimSpace(header[2]),
		VaultID: DefaultVaultID,
	}
	switch env.Version {
	case Version11:
	case Version12:
		if len(header) < 4 || strings.TrimSpace(header[3]) == "" {
			return nil, errUtils.Build(errUtils.ErrVaultFormat).
				WithExplanation("vault format 1.2 requires a vault id").
				Err()
		}
		env.VaultID = strings.TrimSpace(header[3])
	default:
		return nil, errUtils.Build(errUtils.ErrVaultUnsupported).
			WithContext("version", env.Version).
			Err()
	}
	if env.Cipher != CipherAES256 {
		return nil, errUtils.Build(errUtils.ErrVaultUnsupported).
			WithContext("cipher", env.Cipher).
			Err()
	}

	var body strings.Builder
	for _, line := range lines[1:] {
		body.WriteString(strings.TrimSpace(line))
	}
	outer, err := hex.DecodeString(body.String())
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrVaultFormat).WithCause(err).Err()
	}

	parts := bytes.Split(outer, []byte("\n"))
	if len(parts) != 3 {
		return nil, errUtils.Build(errUtils.ErrVaultFormat).
			WithExplanation("expected salt, hmac and ciphertext").
			Err()
	}
	fields := make([][]byte, 3)
	for i, part := range parts {
		if fields[i], err = hex.DecodeString(string(part)); err != nil {
			return nil, errUtils.Build(errUtils.ErrVaultFormat).WithCause(err).Err()
		}
	}
	env.Salt, env.HMAC, env.Data = fields[0], fields[1], fields[2]

	return env, nil
}

// Decrypt verifies and decrypts vault text.
func Decrypt(vaulttext []byte, secret *Secret) ([]byte, error) {
	defer perf.Track("vault.Decrypt")()

	if secret == nil || len(secret.password) == 0 {
		return nil, errUtils.Build(errUtils.ErrVaultNoSecret).
			WithHint("pass --vault-password-file or --ask-vault-pass").
			Err()
	}

	env, err := Parse(vaulttext)
	if err != nil {
		return nil, err
	}

	aesKey, hmacKey, iv := deriveKeys(secret.password, env.Salt)

	mac := hmac.New(sha256.New, hmacKey)
	mac.Write(env.Data)
	if !hmac.Equal(mac.Sum(nil), env.HMAC) {
		return nil, errUtils.Build(errUtils.ErrVaultHMAC).
			WithContext("vault_id", env.VaultID).
			WithHint("check that the vault password is correct").
			Err()
	}

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrVaultFormat).WithCause(err).Err()
	}
	plaintext := make([]byte, len(env.Data))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, env.Data)

	return pkcs7Unpad(plaintext)
}

// Encrypt produces vault text for plaintext. A vaultID other than "" or
// "default" selects format 1.2.
func Encrypt(plaintext []byte, secret *Secret, vaultID string) ([]byte, error) {
	if secret == nil || len(secret.password) == 0 {
		return nil, errUtils.Build(errUtils.ErrVaultNoSecret).Err()
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errUtils.Build(errUtils.ErrUnexpected).WithCause(err).Err()
	}
	return encryptWithSalt(plaintext, secret, vaultID, salt)
}

func encryptWithSalt(plaintext []byte, secret *Secret, vaultID string, salt []byte) ([]byte, error) {
	aesKey, hmacKey, iv := deriveKeys(secret.password, salt)

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrUnexpected).WithCause(err).Err()
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, padded)

	mac := hmac.New(sha256.New, hmacKey)
	mac.Write(ciphertext)

	inner := strings.Join([]string{
		hex.EncodeToString(salt),
		hex.EncodeToString(mac.Sum(nil)),
		hex.EncodeToString(ciphertext),
	}, "\n")
	body := hex.EncodeToString([]byte(inner))

	var out strings.Builder
	if vaultID != "" && vaultID != DefaultVaultID {
		out.WriteString(strings.Join([]string{HeaderPrefix, Version12, CipherAES256, vaultID}, ";"))
	} else {
		out.WriteString(strings.Join([]string{HeaderPrefix, Version11, CipherAES256}, ";"))
	}
	for i := 0; i < len(body); i += lineWidth {
		end := min(i+lineWidth, len(body))
		out.WriteByte('\n')
		out.WriteString(body[i:end])
	}
	out.WriteByte('\n')

	return []byte(out.String()), nil
}

func deriveKeys(password, salt []byte) (aesKey, hmacKey, iv []byte) {
	derived := pbkdf2.Key(password, salt, kdfIterations, 2*keyLength+ivLength, sha256.New)
	return derived[:keyLength], derived[keyLength : 2*keyLength], derived[2*keyLength:]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte(nil), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, errUtils.Build(errUtils.ErrVaultPadding).Err()
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, errUtils.Build(errUtils.ErrVaultPadding).Err()
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errUtils.Build(errUtils.ErrVaultPadding).Err()
		}
	}
	return data[:len(data)-n], nil
}
