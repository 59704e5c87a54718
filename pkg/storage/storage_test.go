package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func TestOutputName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://acme.example", "acme_example-generateEmail-2026-10-16.txt"},
		{"https://acme.example/products/pump.html", "acme_example-products-pump_html-generateEmail-2026-10-16.txt"},
		{"http://localhost:8080/", "localhost_8080-generateEmail-2026-10-16.txt"},
		{"", "page-generateEmail-2026-10-16.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputName(tt.url, "generateEmail", ".txt", day), tt.url)
	}
}

func TestSaveAndReadFile(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "nested", "dir", "email.txt")

	require.NoError(t, s.SaveFile(path, []byte("Subject: Hi")))
	data, err := s.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Subject: Hi", string(data))

	_, err = s.ReadFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestResolveOutputPath(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()

	got := s.ResolveOutputPath(dir, "https://acme.example", "generateArticle", "md", day)
	assert.Equal(t, filepath.Join(dir, "acme_example-generateArticle-2026-10-16.md"), got)

	newDir := filepath.Join(dir, "out") + "/"
	got = s.ResolveOutputPath(newDir, "https://acme.example", "generateArticle", "md", day)
	assert.Equal(t, filepath.Join(dir, "out", "acme_example-generateArticle-2026-10-16.md"), got)

	file := filepath.Join(dir, "article.md")
	assert.Equal(t, file, s.ResolveOutputPath(file, "https://acme.example", "generateArticle", "md", day))

	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.False(t, s.IsDir(file))
	assert.True(t, s.IsDir(dir))
}
