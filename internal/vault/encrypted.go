package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/scrypt"

	"github.com/shanilnc/night-mind/internal/apperr"
)

// scrypt parameters, interactive-login strength.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
	keyLen  = 32
	saltLen = 16
)

// EncryptedStore wraps another Store with scrypt-derived AES-GCM
// encryption. The passphrase comes from configuration at startup, never
// from the binary. A blob that fails to decrypt is reported as missing
// rather than as an error, so corrupted or foreign state reads as a
// fresh start.
type EncryptedStore struct {
	inner      Store
	passphrase []byte
}

func NewEncryptedStore(inner Store, passphrase string) (*EncryptedStore, error) {
	if passphrase == "" {
		return nil, apperr.Validation("passphrase", "must not be empty")
	}
	return &EncryptedStore{inner: inner, passphrase: []byte(passphrase)}, nil
}

func (s *EncryptedStore) Get(key string) ([]byte, error) {
	blob, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.decrypt(blob)
	if err != nil {
		return nil, ErrNotFound
	}
	return plaintext, nil
}

func (s *EncryptedStore) Set(key string, value []byte) error {
	blob, err := s.encrypt(value)
	if err != nil {
		return apperr.Persistence("encrypt", err)
	}
	return s.inner.Set(key, blob)
}

func (s *EncryptedStore) Remove(key string) error {
	return s.inner.Remove(key)
}

// encrypt produces salt || nonce || ciphertext.
func (s *EncryptedStore) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (s *EncryptedStore) decrypt(blob []byte) ([]byte, error) {
	if len(blob) < saltLen {
		return nil, apperr.Persistence("decrypt", io.ErrUnexpectedEOF)
	}
	salt, rest := blob[:saltLen], blob[saltLen:]

	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, apperr.Persistence("decrypt", io.ErrUnexpectedEOF)
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, apperr.Persistence("decrypt", err)
	}
	return plaintext, nil
}

func (s *EncryptedStore) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
