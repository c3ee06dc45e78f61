// Package corpus lists and loads plain-text report and transcript documents
// from a directory. PDF-to-text conversion is an external capability injected
// as a TextExtractor; everything else is decoded in-process.
package corpus

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrDirNotFound is returned when the corpus directory does not exist.
var ErrDirNotFound = fmt.Errorf("corpus directory not found")

// Document is one loaded report or transcript. Immutable once loaded.
type Document struct {
	Name    string    `json:"name"`
	Content string    `json:"content"`
	ModTime time.Time `json:"mod_time"`
}

// TextExtractor converts a binary document (PDF) into plain text.
// Implementations live outside the core pipeline.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// Loader reads documents with recognized extensions from a single directory.
type Loader struct {
	dir       string
	extractor TextExtractor // optional, for .pdf
}

// NewLoader creates a Loader for dir. extractor may be nil, in which case
// .pdf files are skipped with a warning.
func NewLoader(dir string, extractor TextExtractor) *Loader {
	return &Loader{dir: dir, extractor: extractor}
}

// Dir returns the directory this loader reads from.
func (l *Loader) Dir() string { return l.dir }

func recognized(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".html", ".pdf":
		return true
	}
	return false
}

// List returns the recognized filenames in the directory, sorted
// lexicographically for determinism.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirNotFound, l.dir)
		}
		return nil, fmt.Errorf("failed to list %s: %w", l.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !recognized(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Load reads every recognized file into a Document. Individual files that
// cannot be read or converted are skipped with a warning; only a missing
// directory is an error.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	names, err := l.List()
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(l.dir, name)

		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("[CORPUS] Warning: stat failed for %s: %v. Skipping.\n", name, err)
			continue
		}

		content, err := l.readText(path)
		if err != nil {
			fmt.Printf("[CORPUS] Warning: failed to read %s: %v. Skipping.\n", name, err)
			continue
		}

		docs = append(docs, Document{
			Name:    name,
			Content: content,
			ModTime: info.ModTime(),
		})
	}
	return docs, nil
}

// readText dispatches on extension. Invalid UTF-8 bytes are dropped rather
// than failing the load.
func (l *Loader) readText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".pdf" {
		if l.extractor == nil {
			return "", fmt.Errorf("no text extractor configured for PDF")
		}
		return l.extractor.ExtractText(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	raw := strings.ToValidUTF8(string(data), "")

	switch ext {
	case ".html":
		return htmlToText(raw)
	case ".md":
		return markdownToText(raw), nil
	default:
		return raw, nil
	}
}

// htmlToText extracts the visible text of an HTML document.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text()), nil
}

// markdownToText flattens a markdown document to plain text by walking the
// goldmark AST and collecting text segments. Block boundaries become newlines
// so paragraph structure survives for snippet extraction.
func markdownToText(md string) string {
	source := []byte(md)
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var buf bytes.Buffer
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		default:
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
