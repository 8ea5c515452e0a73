package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestExtractor(t *testing.T) *DocumentExtractor {
	t.Helper()
	ex, err := NewDocumentExtractor(context.Background())
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	return ex
}

func TestExtractPlainTextRoundTrip(t *testing.T) {
	ex := newTestExtractor(t)
	content := "laporan penjualan\nbaris kedua"
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got := ex.Extract(context.Background(), path, "report.txt")
	if got.Degraded {
		t.Fatalf("unexpected degraded result: %q", got.Text)
	}
	if got.Text != content {
		t.Fatalf("expected %q, got %q", content, got.Text)
	}
}

func TestExtractMissingFileDegrades(t *testing.T) {
	ex := newTestExtractor(t)
	got := ex.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), "absent.txt")
	if !got.Degraded {
		t.Fatalf("expected degraded result for missing file")
	}
	if !strings.Contains(got.Text, "absent.txt") {
		t.Fatalf("placeholder should name the file: %q", got.Text)
	}
	if !strings.HasPrefix(got.Text, "[could not read document") {
		t.Fatalf("unexpected placeholder format: %q", got.Text)
	}
}

func TestExtractInvalidPDFDegrades(t *testing.T) {
	ex := newTestExtractor(t)
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got := ex.Extract(context.Background(), path, "broken.pdf")
	if !got.Degraded {
		t.Fatalf("expected degraded result for invalid pdf, got %q", got.Text)
	}
	if !strings.Contains(got.Text, "broken.pdf") {
		t.Fatalf("placeholder should name the file: %q", got.Text)
	}
}

func TestExtractInvalidUTF8Degrades(t *testing.T) {
	ex := newTestExtractor(t)
	path := filepath.Join(t.TempDir(), "binary.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0xfd, 0x00, 0x80}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got := ex.Extract(context.Background(), path, "binary.txt")
	if !got.Degraded {
		t.Fatalf("expected degraded result for invalid utf-8")
	}
	if !strings.Contains(got.Text, "UTF-8") {
		t.Fatalf("placeholder should mention the encoding failure: %q", got.Text)
	}
}
