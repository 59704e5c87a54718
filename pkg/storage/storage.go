// Package storage writes generated outputs (emails, articles, snapshots) to
// disk and reads local HTML input.
package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Storage struct{}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// IsDir reports whether path names an existing directory.
func (s *Storage) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ResolveOutputPath turns an --out value into a file path. A directory
// (existing, or written with a trailing separator) gets a generated name.
func (s *Storage) ResolveOutputPath(out, rawURL, kind, ext string, now time.Time) string {
	if strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator)) || s.IsDir(out) {
		return filepath.Join(out, OutputName(rawURL, kind, ext, now))
	}
	return out
}

// OutputName builds a filesystem friendly name from a page URL, the task kind
// and the date, e.g. "acme_example-products-pump-generateEmail-2026-10-16.txt".
func OutputName(rawURL, kind, ext string, now time.Time) string {
	base := "page"
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		host := strings.ReplaceAll(parsed.Host, ".", "_")
		host = strings.ReplaceAll(host, ":", "_")

		// path keeps sibling pages apart
		path := strings.Trim(parsed.Path, "/")
		path = strings.ReplaceAll(path, "/", "-")
		path = strings.ReplaceAll(path, ".", "_")

		base = host
		if path != "" {
			base = host + "-" + path
		}
	}
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s-%s-%s.%s", base, kind, now.Format("2006-01-02"), ext)
}
