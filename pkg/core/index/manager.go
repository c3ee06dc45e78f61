package index

import (
	"context"
	"fmt"
	"sync"

	"forecast_agent/pkg/core/corpus"
)

// Manager owns the lifecycle of the persisted index: open what is on disk,
// or rebuild from the transcript corpus when nothing usable is there.
// Rebuilds are serialized behind a single-builder lock so concurrent requests
// that find no persisted index don't embed the corpus twice.
type Manager struct {
	mu       sync.Mutex
	path     string
	loader   *corpus.Loader
	embedder Embedder
	idx      *Index
	opened   bool
}

// NewManager wires the manager; nothing is read or built until Open or
// Ensure is called (explicit two-phase initialization).
func NewManager(path string, loader *corpus.Loader, embedder Embedder) *Manager {
	return &Manager{path: path, loader: loader, embedder: embedder}
}

// Open loads the persisted index if one exists. Returns nil when the store is
// missing or corrupt; it never builds.
func (m *Manager) Open() *Index {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openLocked()
}

func (m *Manager) openLocked() *Index {
	if !m.opened {
		m.idx = Open(m.path)
		m.opened = true
		if m.idx != nil {
			fmt.Printf("[INDEX] Opened persisted index with %d entries from %s\n", len(m.idx.Entries), m.path)
		}
	}
	return m.idx
}

// Ensure returns the current index, building and persisting one from the
// corpus when absent. The embedding calls run under the builder lock: one
// rebuild at a time, latecomers wait for its result. An empty
// corpus yields a nil index, which is a valid degraded state.
func (m *Manager) Ensure(ctx context.Context) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ix := m.openLocked(); ix != nil {
		return ix, nil
	}

	docs, err := m.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript corpus: %w", err)
	}

	ix, err := Build(ctx, docs, m.embedder)
	if err != nil {
		return nil, err
	}
	if ix == nil {
		fmt.Printf("[INDEX] No transcripts found in %s, index is absent\n", m.loader.Dir())
		m.idx = nil
		return nil, nil
	}

	if err := ix.Save(m.path); err != nil {
		// The in-memory index is still usable; persistence failure only
		// costs a rebuild next process.
		fmt.Printf("[INDEX] Warning: failed to persist index to %s: %v\n", m.path, err)
	} else {
		fmt.Printf("[INDEX] Built and persisted index with %d entries to %s\n", len(ix.Entries), m.path)
	}

	m.idx = ix
	return ix, nil
}

// Search satisfies the qualitative analyzer's Searcher dependency: it lazily
// ensures the index and runs the query against it. An absent index produces
// zero hits.
func (m *Manager) Search(ctx context.Context, query string, k int) ([]SearchHit, error) {
	ix, err := m.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Search(ctx, m.embedder, query, k)
}

// Invalidate drops the in-memory index so the next Ensure re-reads the store
// or rebuilds.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idx = nil
	m.opened = false
}
