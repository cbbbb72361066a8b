package knowledge

import "time"

// Document represents a knowledge document added to the store.
type Document struct {
	ID        string    // Unique identifier
	Content   string    // Document text content
	Metadata  Metadata  // Descriptive metadata
	CreatedAt time.Time // Creation timestamp (zero = stamped on Add)
}

// Metadata describes a document. Title and Source surface in search
// results; Type categorizes the document within the corpus.
type Metadata struct {
	Title  string
	Source string
	Type   string
}

// Chunk is a single search result projected for prompt assembly.
// It carries only what the orchestrator needs: the text, its score, and
// enough metadata to label it.
type Chunk struct {
	Content    string    `json:"content"`
	Similarity float32   `json:"similarity"`
	Metadata   ChunkMeta `json:"metadata"`
}

// ChunkMeta is the metadata projection exposed on search results.
type ChunkMeta struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// SearchOption configures search behavior using the functional options
// pattern.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK int
}

// WithTopK sets the maximum number of results to return.
// Default is 3 if not specified.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		c.topK = k
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{topK: 3}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
