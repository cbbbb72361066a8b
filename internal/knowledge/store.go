// Package knowledge provides an in-memory vector document store with
// exhaustive cosine-similarity search.
//
// Documents are embedded on insertion via the configured ai.Embedder and
// scored against every stored vector at query time. The corpus is small
// and process-local, so a linear scan beats any index both in latency and
// in moving parts.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
)

// Sentinel errors for store operations.
var (
	// ErrEmbedding indicates the embedder failed to produce a vector.
	ErrEmbedding = errors.New("embedding generation failed")
)

// entry pairs a document with its embedding vector.
// A nil vector is legal: such documents score zero against every query.
type entry struct {
	doc Document
	vec []float32
}

// Store manages documents with vector search capabilities.
//
// Store is safe for concurrent use by multiple goroutines. Add appends
// under the write lock; Search scans under the read lock, so concurrent
// searches proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	entries  []entry
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a new Store instance.
func New(embedder ai.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		embedder: embedder,
		logger:   logger,
	}
}

// Add embeds the document content and stores it. On embedding failure
// nothing is stored; there are no partial inserts.
func (s *Store) Add(ctx context.Context, doc Document) error {
	vec, err := s.embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("adding document %q: %w", doc.ID, err)
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry{doc: doc, vec: vec})
	s.mu.Unlock()

	s.logger.Debug("added document", "id", doc.ID, "content_length", len(doc.Content))
	return nil
}

// AddStatic stores a document without generating an embedding.
// The document participates in Count but scores zero in every search.
func (s *Store) AddStatic(doc Document) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry{doc: doc})
	s.mu.Unlock()

	s.logger.Debug("added static document", "id", doc.ID)
}

// Search embeds the query and returns the top-K most similar chunks,
// ordered by descending similarity. Ties keep insertion order. An empty
// store yields an empty result, not an error.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Chunk, error) {
	cfg := buildSearchConfig(opts)

	queryVec, err := s.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	s.mu.RLock()
	scored := make([]Chunk, 0, len(s.entries))
	for _, e := range s.entries {
		scored = append(scored, Chunk{
			Content:    e.doc.Content,
			Similarity: cosineSimilarity(queryVec, e.vec),
			Metadata: ChunkMeta{
				Title:  e.doc.Metadata.Title,
				Source: e.doc.Metadata.Source,
			},
		})
	}
	s.mu.RUnlock()

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if cfg.topK > 0 && len(scored) > cfg.topK {
		scored = scored[:cfg.topK]
	}

	s.logger.Debug("search completed", "results", len(scored), "query_length", len(query))
	return scored, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// embed generates an embedding vector for the given text.
func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{Content: []*ai.Part{ai.NewTextPart(text)}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", ErrEmbedding)
	}
	return resp.Embeddings[0].Embedding, nil
}
