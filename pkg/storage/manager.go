package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"behancescraper/pkg/config"
)

// Manager writes downloaded images into a single output directory
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager. The directory itself is created
// lazily by Save.
func NewManager(outputDir string) *Manager {
	return &Manager{outputDir: outputDir}
}

// Save writes r to fileName inside the output directory and returns the
// number of bytes written. Data goes to a unique temporary file first and is
// renamed over any existing file of the same name.
func (m *Manager) Save(r io.Reader, fileName string) (int64, error) {
	if fileName == "" || fileName == "." || fileName == ".." || fileName != filepath.Base(fileName) {
		return 0, fmt.Errorf("invalid file name %q", fileName)
	}

	// MkdirAll is idempotent and safe to race with other savers
	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.CreateTemp(m.outputDir, "."+fileName+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	written, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to save image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filepath.Join(m.outputDir, fileName)); err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return written, nil
}

// FileName derives the local file name for an image URL.
//
// The name is the final "/"-delimited segment of the URL's escaped path, so
// percent-encoded characters stay encoded. A query string is kept, folded in
// before the extension with unsafe characters replaced by "_":
// "x.png?w=800" becomes "x_w_800.png".
//
// With config.FileNamingOverwrite two URLs producing the same name write the
// same file. config.FileNamingHash prefixes the name with 8 hex characters
// of the URL's SHA-256.
func FileName(sourceURL, strategy string) string {
	name := lastSegment(sourceURL)
	if strategy == config.FileNamingHash {
		sum := sha256.Sum256([]byte(sourceURL))
		name = hex.EncodeToString(sum[:])[:8] + "_" + name
	}
	return name
}

// maxQueryLen bounds the query part of a file name
const maxQueryLen = 64

func lastSegment(sourceURL string) string {
	var p, query string
	if u, err := url.Parse(sourceURL); err == nil {
		p, query = u.EscapedPath(), u.RawQuery
	} else {
		p = sourceURL
		if i := strings.IndexByte(p, '#'); i >= 0 {
			p = p[:i]
		}
		if i := strings.IndexByte(p, '?'); i >= 0 {
			p, query = p[:i], p[i+1:]
		}
	}

	name := p[strings.LastIndexByte(p, '/')+1:]
	if name == "" || name == "." || name == ".." {
		name = "image"
	}

	if len(query) > maxQueryLen {
		query = query[:maxQueryLen]
	}
	if query = sanitize(query); query != "" {
		ext := path.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + query + ext
	}
	return name
}

// sanitize keeps letters, digits, '.', '-' and '%' and replaces everything
// else with '_'
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '%':
			return r
		default:
			return '_'
		}
	}, s)
}
