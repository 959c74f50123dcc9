package identity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/benmeehan/freebox-agent/pkg/encryption"
	"github.com/benmeehan/freebox-agent/pkg/file"
)

// Credentials is the content of the token file: the descriptor used during pairing
// together with the application token the Freebox issued for it.
type Credentials struct {
	AppDescriptor
	AppToken string `json:"app_token"`
	TrackID  int    `json:"track_id"`
}

// TokenStoreInterface persists the application token between runs.
type TokenStoreInterface interface {
	Load() (*Credentials, error)
	Save(creds Credentials) error
	Path() string
}

// TokenStore keeps Credentials in a JSON file, optionally sealed with an EncryptionManager.
type TokenStore struct {
	TokenFile  string
	fileOps    file.FileOperations
	encryption encryption.EncryptionManagerInterface
}

// NewTokenStore creates a TokenStore. A nil encryption manager stores plain JSON.
func NewTokenStore(tokenFile string, fileOps file.FileOperations, enc encryption.EncryptionManagerInterface) *TokenStore {
	return &TokenStore{
		TokenFile:  tokenFile,
		fileOps:    fileOps,
		encryption: enc,
	}
}

// Path returns the location of the token file.
func (s *TokenStore) Path() string {
	return s.TokenFile
}

// Load reads the token file. A missing file is not an error: it returns nil credentials.
func (s *TokenStore) Load() (*Credentials, error) {
	var creds Credentials

	if s.encryption == nil {
		if err := s.fileOps.ReadJsonFile(s.TokenFile, &creds); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read token file %s: %w", s.TokenFile, err)
		}
		return &creds, nil
	}

	data, err := s.fileOps.ReadFileRaw(s.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.TokenFile, err)
	}

	plain, err := s.encryption.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token file %s: %w", s.TokenFile, err)
	}
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", s.TokenFile, err)
	}
	return &creds, nil
}

// Save replaces the token file with creds.
func (s *TokenStore) Save(creds Credentials) error {
	if s.encryption == nil {
		return s.fileOps.WriteJsonFile(s.TokenFile, creds)
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	sealed, err := s.encryption.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}
	return s.fileOps.WriteFileRaw(s.TokenFile, sealed)
}
