package fileproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestSecureFilename(t *testing.T) {
	testCases := []struct {
		desc  string
		given string
		want  string
	}{
		{
			desc:  "plain name untouched",
			given: "report.pdf",
			want:  "report.pdf",
		},
		{
			desc:  "spaces become underscores",
			given: "my notes.txt",
			want:  "my_notes.txt",
		},
		{
			desc:  "path components dropped",
			given: "../../etc/passwd",
			want:  "passwd",
		},
		{
			desc:  "special characters removed",
			given: "a$b%c!.md",
			want:  "abc.md",
		},
		{
			desc:  "empty after sanitization",
			given: "???",
			want:  "unnamed_file",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			testboil.FailTestIfDiff(t, SecureFilename(tC.given), tC.want)
		})
	}
}

func TestSaveFileDeduplicates(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	first, _, err := p.SaveFile(strings.NewReader("one"), "notes.txt")
	if err != nil {
		t.Fatalf("failed to save first file: %v", err)
	}
	second, _, err := p.SaveFile(strings.NewReader("two"), "notes.txt")
	if err != nil {
		t.Fatalf("failed to save second file: %v", err)
	}
	testboil.FailTestIfDiff(t, filepath.Base(first), "notes.txt")
	testboil.FailTestIfDiff(t, filepath.Base(second), "notes_1.txt")
	got, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read second file: %v", err)
	}
	testboil.FailTestIfDiff(t, string(got), "two")
}

func TestSaveFileSanitizesName(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	path, size, err := p.SaveFile(strings.NewReader("x"), "../escape attempt.txt")
	if err != nil {
		t.Fatalf("failed to save file: %v", err)
	}
	testboil.FailTestIfDiff(t, path, filepath.Join(dir, "escape_attempt.txt"))
	if size != 1 {
		t.Fatalf("expected size 1, got: %v", size)
	}
}

func TestExtractTextPlain(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	for _, ext := range []string{"txt", "md"} {
		path, _, err := p.SaveFile(strings.NewReader("hello\nworld"), "doc."+ext)
		if err != nil {
			t.Fatalf("failed to save file: %v", err)
		}
		got, ok := p.ExtractText(path)
		if !ok {
			t.Fatalf("expected %v extraction to succeed", ext)
		}
		testboil.FailTestIfDiff(t, got, "hello\nworld")
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	path, _, err := p.SaveFile(strings.NewReader("binary"), "image.png")
	if err != nil {
		t.Fatalf("failed to save file: %v", err)
	}
	if _, ok := p.ExtractText(path); ok {
		t.Fatal("expected unsupported extension to be rejected")
	}
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.pdf", "b.docx", "c.txt", "d.md", "E.TXT"} {
		if !Supported(name) {
			t.Fatalf("expected %v to be supported", name)
		}
	}
	for _, name := range []string{"a.png", "b.exe", "noext"} {
		if Supported(name) {
			t.Fatalf("expected %v to be unsupported", name)
		}
	}
}

func TestMimeType(t *testing.T) {
	testboil.FailTestIfDiff(t, MimeType("a.pdf"), "application/pdf")
	testboil.FailTestIfDiff(t, MimeType("a.md"), "text/plain")
	testboil.FailTestIfDiff(t, MimeType("a.unknownext"), "application/octet-stream")
}

func TestCleanup(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	path, _, err := p.SaveFile(strings.NewReader("x"), "gone.txt")
	if err != nil {
		t.Fatalf("failed to save file: %v", err)
	}
	if !p.Cleanup(path) {
		t.Fatal("expected cleanup to succeed")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file to be deleted")
	}
	if p.Cleanup(path) {
		t.Fatal("expected second cleanup to report failure")
	}
}

func TestCleanupOld(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	oldPath, _, err := p.SaveFile(strings.NewReader("old"), "old.txt")
	if err != nil {
		t.Fatalf("failed to save file: %v", err)
	}
	if _, _, err := p.SaveFile(strings.NewReader("new"), "new.txt"); err != nil {
		t.Fatalf("failed to save file: %v", err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}

	deleted := p.CleanupOld(24 * time.Hour)
	if deleted != 1 {
		t.Fatalf("expected 1 deleted file, got: %v", deleted)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatal("expected old file to be deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "new.txt")); err != nil {
		t.Fatalf("expected new file to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitkeep")); err != nil {
		t.Fatalf("expected .gitkeep to survive: %v", err)
	}
}
