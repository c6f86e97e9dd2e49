// Package upload stores request attachments on disk and hands back opaque
// relative paths for the attachment columns.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxFileSize caps a single attachment at 10 MiB.
const maxFileSize = 10 << 20

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes one multipart file under the upload directory and returns its
// relative path. The stored name is random; the original name only
// contributes its extension.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxFileSize {
		return "", fmt.Errorf("file %s exceeds size limit", header.Filename)
	}

	name, err := randomName(header.Filename)
	if err != nil {
		return "", err
	}

	subdir := time.Now().UTC().Format("2006/01")
	if err := os.MkdirAll(filepath.Join(s.dir, subdir), 0755); err != nil {
		return "", fmt.Errorf("create upload subdirectory: %w", err)
	}

	rel := filepath.Join(subdir, name)
	dst, err := os.Create(filepath.Join(s.dir, rel))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxFileSize)); err != nil {
		os.Remove(filepath.Join(s.dir, rel))
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return filepath.ToSlash(rel), nil
}

// Open resolves a stored relative path for serving. Paths escaping the
// upload directory are rejected.
func (s *Store) Open(rel string) (*os.File, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid attachment path %q", rel)
	}
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return f, nil
}

// Remove deletes a stored attachment; a missing file is not an error.
func (s *Store) Remove(rel string) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid attachment path %q", rel)
	}
	err := os.Remove(filepath.Join(s.dir, clean))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}

func randomName(original string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(original))
	return hex.EncodeToString(buf) + ext, nil
}
