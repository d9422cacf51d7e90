// Package storage keeps uploaded report files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	ErrExtension = errors.New("file extension not allowed")
	ErrTooLarge  = errors.New("file exceeds the size limit")
	ErrEmpty     = errors.New("file is empty")
	ErrOutside   = errors.New("path outside the storage directory")
)

// AllowedExtensions are compared case-insensitively, without the dot.
var AllowedExtensions = []string{"pdf", "doc", "docx"}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Stored describes a file written by Save.
type Stored struct {
	Path         string
	OriginalName string
	Extension    string
	Size         int64
}

// FileStore writes files under a single directory.
type FileStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: abs, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) MaxBytes() int64 { return s.maxBytes }

// Validate checks the name and declared size before anything is written.
func (s *FileStore) Validate(name string, size int64) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	allowed := false
	for _, a := range AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", ErrExtension
	}
	if size == 0 {
		return "", ErrEmpty
	}
	if size > s.maxBytes {
		return "", ErrTooLarge
	}
	return ext, nil
}

// Save validates and writes r to a new file named
// {actorID}_{timestamp}_{sanitized name}. The file is synced before Save
// returns. On any error nothing is left on disk.
func (s *FileStore) Save(actorID uint, originalName string, size int64, r io.Reader) (*Stored, error) {
	ext, err := s.Validate(originalName, size)
	if err != nil {
		return nil, err
	}

	stamp := s.now().Format("20060102_150405.000000")
	name := fmt.Sprintf("%d_%s_%s", actorID, strings.Replace(stamp, ".", "_", 1), Sanitize(originalName))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil && written == 0 {
		err = ErrEmpty
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &Stored{Path: path, OriginalName: filepath.Base(originalName), Extension: ext, Size: written}, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *FileStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := s.contains(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Open returns a reader over a stored file.
func (s *FileStore) Open(path string) (*os.File, error) {
	if err := s.contains(path); err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *FileStore) contains(path string) error {
	rel, err := filepath.Rel(s.dir, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ErrOutside
	}
	return nil
}

// Sanitize reduces a client file name to a safe base name.
func Sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if len(base) > 120 {
		ext := filepath.Ext(base)
		base = base[:120-len(ext)] + ext
	}
	if base == "" {
		return "fichier"
	}
	return base
}
