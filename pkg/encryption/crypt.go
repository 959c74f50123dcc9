package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/benmeehan/freebox-agent/pkg/file"
)

const (
	keySize   = 32
	nonceSize = 12
)

// EncryptionManagerInterface defines encryption and decryption methods.
type EncryptionManagerInterface interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// EncryptionManager seals data at rest with AES-256-GCM. The nonce is prepended to the ciphertext.
type EncryptionManager struct {
	fileClient file.FileOperations
	aesgcm     cipher.AEAD
}

// NewEncryptionManager creates a new EncryptionManager instance.
func NewEncryptionManager(fileClient file.FileOperations) *EncryptionManager {
	return &EncryptionManager{fileClient: fileClient}
}

// Initialize loads the raw 32 byte key stored at keyPath and caches the cipher.
func (a *EncryptionManager) Initialize(keyPath string) error {
	key, err := a.fileClient.ReadFileRaw(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read AES key: %w", err)
	}
	return a.setKey(key)
}

// InitializeWithKey caches the cipher for an in-memory key.
func (a *EncryptionManager) InitializeWithKey(key []byte) error {
	return a.setKey(key)
}

func (a *EncryptionManager) setKey(key []byte) error {
	if len(key) != keySize {
		return fmt.Errorf("invalid AES key size: got %d bytes, want %d bytes", len(key), keySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create AES cipher block: %w", err)
	}

	a.aesgcm, err = cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create AES-GCM: %w", err)
	}
	return nil
}

// Encrypt encrypts plaintext using AES-GCM.
func (a *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	if a.aesgcm == nil {
		return nil, errors.New("encryption manager not initialized")
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return a.aesgcm.Seal(nonce[:], nonce[:], plaintext, nil), nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (a *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	if a.aesgcm == nil {
		return nil, errors.New("encryption manager not initialized")
	}
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short: must include nonce and encrypted data")
	}

	plaintext, err := a.aesgcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}
