package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q3_report.txt", "text")
	writeFile(t, dir, "a_transcript.md", "# hi")
	writeFile(t, dir, "notes.docx", "ignored")
	writeFile(t, dir, "call.html", "<p>hi</p>")

	loader := NewLoader(dir, nil)
	names, err := loader.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"a_transcript.md", "call.html", "q3_report.txt"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d: %v", len(want), len(names), names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d]: expected %s, got %s", i, n, names[i])
		}
	}
}

func TestListMissingDirectory(t *testing.T) {
	loader := NewLoader("/nonexistent/reports", nil)
	_, err := loader.List()
	if !errors.Is(err, ErrDirNotFound) {
		t.Errorf("expected ErrDirNotFound, got %v", err)
	}
}

func TestLoadPermissiveDecode(t *testing.T) {
	dir := t.TempDir()
	// Invalid UTF-8 bytes embedded in otherwise valid text.
	garbage := append([]byte("Total Revenue: "), 0xff, 0xfe)
	garbage = append(garbage, []byte("1,234")...)
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), garbage, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	docs, err := NewLoader(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if !strings.Contains(docs[0].Content, "Total Revenue: 1,234") {
		t.Errorf("invalid bytes should be dropped, got %q", docs[0].Content)
	}
}

func TestLoadHTMLExtractsVisibleText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "call.html",
		`<html><head><style>p{}</style></head><body><p>Demand remains strong.</p><script>x()</script></body></html>`)

	docs, err := NewLoader(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Content != "Demand remains strong." {
		t.Errorf("unexpected HTML text: %q", docs[0].Content)
	}
}

func TestLoadMarkdownFlattened(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "transcript.md", "# Q2 Earnings Call\n\nManagement expects *margin expansion* next quarter.")

	docs, err := NewLoader(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := docs[0].Content
	if strings.Contains(got, "#") || strings.Contains(got, "*") {
		t.Errorf("markdown syntax should be stripped, got %q", got)
	}
	if !strings.Contains(got, "Q2 Earnings Call") || !strings.Contains(got, "margin expansion") {
		t.Errorf("text content missing from %q", got)
	}
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(path string) (string, error) { return s.text, s.err }

func TestLoadPDFDelegatesToExtractor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.pdf", "%PDF-1.4 binary")

	docs, err := NewLoader(dir, &stubExtractor{text: "Net Profit: 500"}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != "Net Profit: 500" {
		t.Fatalf("expected extracted PDF text, got %+v", docs)
	}

	// Without an extractor the file is skipped, not an error.
	docs, err = NewLoader(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load without extractor failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected PDF to be skipped, got %d documents", len(docs))
	}
}
