package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1 << 20

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), 16*mib)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 2, 10, 30, 0, 123456000, time.UTC) }
	return s
}

func files(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestSaveNamesFileWithActorAndTimestamp(t *testing.T) {
	s := newStore(t)
	stored, err := s.Save(42, "Rapport semaine 9.PDF", 5, strings.NewReader("%PDF-"))
	require.NoError(t, err)

	assert.Equal(t, "pdf", stored.Extension)
	assert.EqualValues(t, 5, stored.Size)
	assert.Equal(t, "Rapport semaine 9.PDF", stored.OriginalName)
	assert.Equal(t, "42_20260302_103000_123456_Rapport_semaine_9.PDF", filepath.Base(stored.Path))
	assert.Equal(t, []string{filepath.Base(stored.Path)}, files(t, s.Dir()))
}

func TestSaveRejectsExtensionBeforeWriting(t *testing.T) {
	s := newStore(t)
	_, err := s.Save(1, "virus.exe", 10, strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrExtension)
	assert.Empty(t, files(t, s.Dir()))
}

func TestSaveRejectsDeclaredOversize(t *testing.T) {
	s := newStore(t)
	_, err := s.Save(1, "big.pdf", 20*mib, bytes.NewReader(make([]byte, 10)))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, files(t, s.Dir()))
}

func TestSaveRejectsStreamedOversize(t *testing.T) {
	s := newStore(t)
	// declared size lies; the stream is 20 MiB
	_, err := s.Save(1, "big.pdf", 1, bytes.NewReader(make([]byte, 20*mib)))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, files(t, s.Dir()))
}

func TestValidateExtensions(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"a.pdf", "b.doc", "c.DOCX"} {
		_, err := s.Validate(name, 1)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"a.exe", "b", "c.pdf.exe", "d.txt"} {
		_, err := s.Validate(name, 1)
		assert.ErrorIs(t, err, ErrExtension, name)
	}
	_, err := s.Validate("e.pdf", 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	stored, err := s.Save(1, "a.pdf", 3, strings.NewReader("abc"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(stored.Path))
	assert.Empty(t, files(t, s.Dir()))
	assert.NoError(t, s.Remove(stored.Path), "removing twice is fine")
	assert.ErrorIs(t, s.Remove("/etc/passwd"), ErrOutside)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "rapport.pdf", Sanitize("../../rapport.pdf"))
	assert.Equal(t, "mon_rapport_final_.docx", Sanitize("mon rapport (final).docx"))
	assert.Equal(t, "x.pdf", Sanitize(`C:\Users\me\x.pdf`))
	assert.Equal(t, "fichier", Sanitize("..."))
}
