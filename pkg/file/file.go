package file

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileOperations defines the file access used for configuration, credentials and downloads.
type FileOperations interface {
	IsFileExists(filePath string) (bool, error)
	ReadFileRaw(filePath string) ([]byte, error)
	ReadJsonFile(filePath string, v any) error
	ReadYamlFile(filePath string, v any) error
	WriteFileRaw(filePath string, data []byte) error
	WriteJsonFile(filePath string, data any) error
	WriteStream(filePath string, r io.Reader) (int64, error)
}

// FileService implements FileOperations on the local filesystem.
type FileService struct{}

// NewFileService creates a new instance of FileService.
func NewFileService() *FileService {
	return &FileService{}
}

// IsFileExists reports whether filePath exists. Permission errors are returned as is.
func (fs *FileService) IsFileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// ReadFileRaw returns the contents of filePath.
func (fs *FileService) ReadFileRaw(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// ReadJsonFile decodes the JSON document stored in filePath into v.
func (fs *FileService) ReadJsonFile(filePath string, v any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(v)
}

// ReadYamlFile decodes the YAML document stored in filePath into v.
func (fs *FileService) ReadYamlFile(filePath string, v any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return yaml.NewDecoder(f).Decode(v)
}

// WriteFileRaw atomically replaces filePath with data.
func (fs *FileService) WriteFileRaw(filePath string, data []byte) error {
	return atomicWrite(filePath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteJsonFile atomically replaces filePath with the indented JSON encoding of data.
func (fs *FileService) WriteJsonFile(filePath string, data any) error {
	return atomicWrite(filePath, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	})
}

// WriteStream copies r into filePath, creating parent directories, and returns the byte count.
func (fs *FileService) WriteStream(filePath string, r io.Reader) (int64, error) {
	var n int64
	err := atomicWrite(filePath, func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, r)
		return err
	})
	return n, err
}

// atomicWrite writes through a temp file in the destination directory and renames it into place.
// Files are created 0600 since they usually hold credentials.
func atomicWrite(filePath string, write func(w io.Writer) error) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile := filePath + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}
