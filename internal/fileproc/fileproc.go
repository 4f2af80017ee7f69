// Package fileproc stores uploaded files and extracts text from the formats
// claude.ai projects accept: pdf, docx, plain text and markdown.
package fileproc

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

// Processor owns an upload directory and knows how to read the supported
// document formats.
type Processor struct {
	uploadDir string
}

// supportedExtensions maps lowercase extensions (no dot) to their reader
var supportedExtensions = map[string]func(*Processor, string) (string, error){
	"pdf":  (*Processor).readPDF,
	"docx": (*Processor).readDocx,
	"txt":  (*Processor).readText,
	"md":   (*Processor).readText,
}

// mimeTypes for the document content parts sent upstream
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".md":   "text/plain",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// New creates the upload directory if needed and returns a Processor for it.
func New(uploadDir string) (*Processor, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	// .gitkeep preserves the folder in version control
	gitkeep := filepath.Join(uploadDir, ".gitkeep")
	if _, err := os.Stat(gitkeep); os.IsNotExist(err) {
		if err := os.WriteFile(gitkeep, nil, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create .gitkeep: %w", err)
		}
	}
	return &Processor{uploadDir: uploadDir}, nil
}

// SaveFile writes the upload under a sanitized name, deduplicating with a
// counter suffix. Returns the stored path and size.
func (p *Processor) SaveFile(r io.Reader, filename string) (string, int64, error) {
	safe := SecureFilename(filename)
	target := filepath.Join(p.uploadDir, safe)
	ext := filepath.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(p.uploadDir, fmt.Sprintf("%v_%v%v", base, counter, ext))
	}

	f, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()
	size, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}
	return target, size, nil
}

// SecureFilename sanitizes a user supplied filename for safe storage: path
// components dropped, spaces become underscores, anything but alphanumerics
// and -_. removed.
func SecureFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	var sb strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "unnamed_file"
	}
	return sb.String()
}

// Supported reports whether the file's extension has a text extractor.
func Supported(filename string) bool {
	_, ok := supportedExtensions[extension(filename)]
	return ok
}

// MimeType returns the MIME type used for document content parts, falling
// back to the platform's extension table.
func MimeType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

// ExtractText reads the file and returns its text content. ok is false for
// unsupported extensions and for files which could not be read, neither is
// an error to the caller.
func (p *Processor) ExtractText(path string) (string, bool) {
	reader, ok := supportedExtensions[extension(path)]
	if !ok {
		return "", false
	}
	text, err := reader(p, path)
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to read file %v: %v\n", path, err))
		return "", false
	}
	return text, true
}

// Cleanup deletes one stored file.
func (p *Processor) Cleanup(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if err := os.Remove(path); err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to delete file %v: %v\n", path, err))
		return false
	}
	return true
}

// CleanupOld deletes uploads older than maxAge and returns how many were
// removed. The .gitkeep marker is always left alone.
func (p *Processor) CleanupOld(maxAge time.Duration) int {
	entries, err := os.ReadDir(p.uploadDir)
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to list upload dir: %v\n", err))
		return 0
	}
	deleted := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ".gitkeep" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if p.Cleanup(filepath.Join(p.uploadDir, entry.Name())) {
				deleted++
			}
		}
	}
	return deleted
}

func (p *Processor) readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(b), nil
}

func extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
