// Package index builds and persists a vector index over transcript documents
// and answers similarity queries with ranked snippets.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"forecast_agent/pkg/core/corpus"
)

// SnippetMaxLen bounds the excerpt length returned with each hit.
const SnippetMaxLen = 2000

// Embedder computes a fixed-dimension vector for a piece of text. The same
// embedder must serve documents and queries.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Entry is one indexed document with its derived vector. Vectors are never
// mutated after creation.
type Entry struct {
	Source  string    `json:"source"`
	ModTime time.Time `json:"mod_time"`
	Content string    `json:"content"`
	Vector  []float64 `json:"vector"`
}

// Index is the in-memory vector index. A nil *Index is the explicit "absent"
// state: searching it yields no hits, never an error.
type Index struct {
	Entries []Entry `json:"entries"`
}

// SearchHit is one ranked result. Produced fresh per query, not persisted.
type SearchHit struct {
	Snippet string  `json:"snippet"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Build embeds every document and assembles an Index. Zero documents yield a
// nil index rather than an error; an embedding failure aborts the build since
// a partially embedded index would skew rankings.
func Build(ctx context.Context, docs []corpus.Document, embedder Embedder) (*Index, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Content) == 0 {
			continue
		}
		vec, err := embedder.Embed(ctx, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", doc.Name, err)
		}
		entries = append(entries, Entry{
			Source:  doc.Name,
			ModTime: doc.ModTime,
			Content: doc.Content,
			Vector:  vec,
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &Index{Entries: entries}, nil
}

// Open deserializes a previously persisted index. A missing file returns nil
// (caller rebuilds); a corrupt file is logged and also returns nil: the
// error never propagates.
func Open(path string) *Index {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("[INDEX] Warning: failed to read index store %s: %v\n", path, err)
		}
		return nil
	}

	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		fmt.Printf("[INDEX] Warning: index store %s is corrupt, treating as absent: %v\n", path, err)
		return nil
	}
	if len(ix.Entries) == 0 {
		return nil
	}
	return &ix
}

// Save persists the index as one whole value: written to a temp file in the
// same directory, then renamed over the target so readers never observe a
// partial store.
func (ix *Index) Save(path string) error {
	if ix == nil {
		return nil
	}
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "index-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace index store: %w", err)
	}
	return nil
}

// Search embeds the query and returns up to k hits ranked by cosine
// similarity, best match first. An absent index returns an empty slice;
// "no evidence" is a valid, non-error outcome.
func (ix *Index) Search(ctx context.Context, embedder Embedder, query string, k int) ([]SearchHit, error) {
	if ix == nil || len(ix.Entries) == 0 || k <= 0 {
		return []SearchHit{}, nil
	}

	qvec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits := make([]SearchHit, 0, len(ix.Entries))
	for _, entry := range ix.Entries {
		snippet := entry.Content
		if len(snippet) > SnippetMaxLen {
			snippet = snippet[:SnippetMaxLen]
		}
		hits = append(hits, SearchHit{
			Snippet: snippet,
			Source:  entry.Source,
			Score:   cosineSimilarity(qvec, entry.Vector),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineSimilarity is 0 for mismatched or zero-length vectors, which ranks
// them last.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
