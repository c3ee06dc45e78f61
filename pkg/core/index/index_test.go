package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"forecast_agent/pkg/core/corpus"
)

// fakeEmbedder maps known keywords onto orthogonal axes so similarity
// rankings are deterministic.
type fakeEmbedder struct {
	calls int64
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	atomic.AddInt64(&f.calls, 1)
	lower := strings.ToLower(text)
	vec := make([]float64, 3)
	if strings.Contains(lower, "margin") {
		vec[0] = 1
	}
	if strings.Contains(lower, "demand") {
		vec[1] = 1
	}
	if strings.Contains(lower, "headcount") {
		vec[2] = 1
	}
	return vec, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return nil, fmt.Errorf("embedding backend offline")
}

func doc(name, content string) corpus.Document {
	return corpus.Document{Name: name, Content: content, ModTime: time.Now()}
}

func TestBuildAndSearchRanking(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}

	ix, err := Build(ctx, []corpus.Document{
		doc("margins.txt", "Operating margin expanded on pricing discipline. margin margin"),
		doc("demand.txt", "Client demand stayed resilient across verticals."),
		doc("hiring.txt", "Headcount additions slowed during the quarter."),
	}, emb)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	hits, err := ix.Search(ctx, emb, "what is the margin outlook", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Source != "margins.txt" {
		t.Errorf("best match should be margins.txt, got %s", hits[0].Source)
	}
	if hits[0].Score < hits[1].Score {
		t.Errorf("hits must be ordered best-first: %v then %v", hits[0].Score, hits[1].Score)
	}
}

func TestSearchAbsentIndex(t *testing.T) {
	var ix *Index
	hits, err := ix.Search(context.Background(), &fakeEmbedder{}, "anything", 5)
	if err != nil {
		t.Fatalf("absent index must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	ix, err := Build(context.Background(), nil, &fakeEmbedder{})
	if err != nil {
		t.Fatalf("empty corpus must not error: %v", err)
	}
	if ix != nil {
		t.Error("empty corpus should yield an absent index")
	}
}

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("demand ", 500) // ~3500 chars
	emb := &fakeEmbedder{}
	ix, err := Build(context.Background(), []corpus.Document{doc("long.txt", long)}, emb)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	hits, err := ix.Search(context.Background(), emb, "demand", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits[0].Snippet) != SnippetMaxLen {
		t.Errorf("expected snippet capped at %d, got %d", SnippetMaxLen, len(hits[0].Snippet))
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store", "index.json")
	emb := &fakeEmbedder{}

	ix, err := Build(context.Background(), []corpus.Document{doc("a.txt", "margin")}, emb)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened := Open(path)
	if reopened == nil {
		t.Fatal("expected persisted index to open")
	}
	if len(reopened.Entries) != 1 || reopened.Entries[0].Source != "a.txt" {
		t.Errorf("round trip lost entries: %+v", reopened.Entries)
	}
}

func TestOpenMissingAndCorrupt(t *testing.T) {
	if ix := Open(filepath.Join(t.TempDir(), "absent.json")); ix != nil {
		t.Error("missing store should open as absent")
	}

	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if ix := Open(path); ix != nil {
		t.Error("corrupt store should open as absent, not error")
	}
}

func TestManagerEnsureBuildsOnceAndPersists(t *testing.T) {
	dir := t.TempDir()
	corpusDir := filepath.Join(dir, "transcripts")
	if err := os.MkdirAll(corpusDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(corpusDir, "call.txt"), []byte("demand commentary"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	storePath := filepath.Join(dir, "index.json")
	emb := &fakeEmbedder{}
	mgr := NewManager(storePath, corpus.NewLoader(corpusDir, nil), emb)

	if ix := mgr.Open(); ix != nil {
		t.Fatal("nothing persisted yet, Open should return absent")
	}

	ix, err := mgr.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if ix == nil || len(ix.Entries) != 1 {
		t.Fatalf("expected built index with 1 entry, got %+v", ix)
	}
	buildCalls := atomic.LoadInt64(&emb.calls)

	// Second Ensure must reuse the in-memory index, not re-embed.
	if _, err := mgr.Ensure(context.Background()); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if got := atomic.LoadInt64(&emb.calls); got != buildCalls {
		t.Errorf("Ensure rebuilt the index: %d embed calls became %d", buildCalls, got)
	}

	// A fresh manager must find the persisted store.
	fresh := NewManager(storePath, corpus.NewLoader(corpusDir, nil), emb)
	if ix := fresh.Open(); ix == nil {
		t.Error("persisted index should be reopened by a new manager")
	}
}

func TestManagerSearchWithEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(filepath.Join(dir, "index.json"), corpus.NewLoader(dir, nil), &fakeEmbedder{})

	hits, err := mgr.Search(context.Background(), "guidance", 6)
	if err != nil {
		t.Fatalf("empty corpus search must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestBuildEmbeddingFailureAborts(t *testing.T) {
	_, err := Build(context.Background(), []corpus.Document{doc("a.txt", "text")}, failingEmbedder{})
	if err == nil {
		t.Error("embedding failure should abort the build")
	}
}
