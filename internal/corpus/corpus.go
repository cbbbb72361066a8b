// Package corpus ships the seed knowledge base: a set of markdown
// documents embedded in the binary and loaded into the knowledge store at
// startup.
package corpus

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/luminalabs/concierge/internal/knowledge"
)

//go:embed docs/*.md
var docFS embed.FS

// manifest pairs each embedded file with its metadata, in load order.
var manifest = []struct {
	id   string
	file string
	meta knowledge.Metadata
}{
	{"doc-1", "docs/doc-1.md", knowledge.Metadata{Title: "Lightweight Markup Language Guide", Source: "wikipedia", Type: "reference-guide"}},
	{"doc-2", "docs/doc-2.md", knowledge.Metadata{Title: "LLM-Friendly Content with Markdown", Source: "webex-developer-blog", Type: "technical-guide"}},
	{"doc-3", "docs/doc-3.md", knowledge.Metadata{Title: "Building a Blog with Next.js and React Markdown", Source: "medium-tech-pulse", Type: "tutorial"}},
	{"doc-4", "docs/doc-4.md", knowledge.Metadata{Title: "Custom Markdown Blog Development", Source: "johnapostol.com", Type: "case-study"}},
	{"doc-5", "docs/doc-5.md", knowledge.Metadata{Title: "Complete Markdown Blogging Guide", Source: "daext-blog", Type: "comprehensive-guide"}},
}

// Documents returns the seed documents in load order.
func Documents() ([]knowledge.Document, error) {
	docs := make([]knowledge.Document, 0, len(manifest))
	for _, m := range manifest {
		content, err := docFS.ReadFile(m.file)
		if err != nil {
			return nil, fmt.Errorf("reading embedded document %s: %w", m.file, err)
		}
		docs = append(docs, knowledge.Document{
			ID:       m.id,
			Content:  string(content),
			Metadata: m.meta,
		})
	}
	return docs, nil
}

// Seed loads the corpus into the store. A document that fails to embed is
// logged and skipped; the server still starts with the rest.
func Seed(ctx context.Context, store *knowledge.Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	docs, err := Documents()
	if err != nil {
		return err
	}

	var loaded int
	for _, doc := range docs {
		if err := store.Add(ctx, doc); err != nil {
			logger.Warn("seeding document failed", "id", doc.ID, "error", err)
			continue
		}
		loaded++
	}

	logger.Info("seeded knowledge base", "loaded", loaded, "total", len(docs))
	return nil
}
