package knowledge_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"

	"github.com/luminalabs/concierge/internal/knowledge"
	"github.com/luminalabs/concierge/internal/testutil"
)

// newTestStore returns a store backed by a mock embedder whose vectors can
// be pinned per content string.
func newTestStore(t *testing.T) (*knowledge.Store, *testutil.MockEmbedder) {
	t.Helper()

	g := genkit.Init(context.Background())
	mock := testutil.NewMockEmbedder(4)
	embedder := mock.RegisterEmbedder(g)

	return knowledge.New(embedder, testutil.DiscardLogger()), mock
}

func TestSearch_OrdersByDescendingSimilarity(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	mock.SetVector("query", []float32{1, 0, 0, 0})
	mock.SetVector("far", []float32{0, 1, 0, 0})
	mock.SetVector("near", []float32{1, 0.1, 0, 0})
	mock.SetVector("nearest", []float32{1, 0, 0, 0})

	for _, content := range []string{"far", "near", "nearest"} {
		err := store.Add(ctx, knowledge.Document{
			ID:       content,
			Content:  content,
			Metadata: knowledge.Metadata{Title: "t-" + content},
		})
		if err != nil {
			t.Fatalf("Add(%q) error = %v", content, err)
		}
	}

	chunks, err := store.Search(ctx, "query", knowledge.WithTopK(3))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"nearest", "near", "far"}
	if len(chunks) != len(want) {
		t.Fatalf("Search() returned %d chunks, want %d", len(chunks), len(want))
	}
	for i, w := range want {
		if chunks[i].Content != w {
			t.Errorf("chunks[%d].Content = %q, want %q", i, chunks[i].Content, w)
		}
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Similarity > chunks[i-1].Similarity {
			t.Errorf("similarity not descending at %d: %v > %v", i, chunks[i].Similarity, chunks[i-1].Similarity)
		}
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	mock.SetVector("query", []float32{1, 0, 0, 0})
	// All three documents score identically against the query.
	for i := range 3 {
		content := fmt.Sprintf("doc-%d", i)
		mock.SetVector(content, []float32{1, 0, 0, 0})
		if err := store.Add(ctx, knowledge.Document{ID: content, Content: content}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	chunks, err := store.Search(ctx, "query", knowledge.WithTopK(3))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	for i, c := range chunks {
		want := fmt.Sprintf("doc-%d", i)
		if c.Content != want {
			t.Errorf("chunks[%d].Content = %q, want %q (insertion order)", i, c.Content, want)
		}
	}
}

func TestSearch_TopKTruncation(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	mock.SetVector("query", []float32{1, 0, 0, 0})
	for i := range 5 {
		content := fmt.Sprintf("doc-%d", i)
		if err := store.Add(ctx, knowledge.Document{ID: content, Content: content}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	chunks, err := store.Search(ctx, "query", knowledge.WithTopK(2))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("Search(topK=2) returned %d chunks, want 2", len(chunks))
	}

	// Fewer documents than K returns all of them.
	chunks, err = store.Search(ctx, "query", knowledge.WithTopK(50))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 5 {
		t.Errorf("Search(topK=50) returned %d chunks, want 5", len(chunks))
	}
}

func TestSearch_EmptyStore(t *testing.T) {
	store, _ := newTestStore(t)

	chunks, err := store.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search() on empty store error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Search() on empty store returned %d chunks, want 0", len(chunks))
	}
}

func TestSearch_StaticDocumentScoresZero(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	mock.SetVector("query", []float32{1, 0, 0, 0})
	mock.SetVector("embedded", []float32{1, 0, 0, 0})

	store.AddStatic(knowledge.Document{ID: "static", Content: "static"})
	if err := store.Add(ctx, knowledge.Document{ID: "embedded", Content: "embedded"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	chunks, err := store.Search(ctx, "query", knowledge.WithTopK(2))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("Search() returned %d chunks, want 2", len(chunks))
	}
	if chunks[0].Content != "embedded" {
		t.Errorf("chunks[0].Content = %q, want the embedded document first", chunks[0].Content)
	}
	if chunks[1].Similarity != 0 {
		t.Errorf("static document similarity = %v, want 0", chunks[1].Similarity)
	}
}

func TestSearch_ProjectsMetadata(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	mock.SetVector("query", []float32{1, 0, 0, 0})
	err := store.Add(ctx, knowledge.Document{
		ID:      "doc-1",
		Content: "some content",
		Metadata: knowledge.Metadata{
			Title:  "A Title",
			Source: "seed",
			Type:   "markdown",
		},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	chunks, err := store.Search(ctx, "query")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Search() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Metadata.Title != "A Title" || chunks[0].Metadata.Source != "seed" {
		t.Errorf("Metadata = %+v, want title + source projected", chunks[0].Metadata)
	}
}

// failingEmbedder always errors, for exercising the embedding failure path.
type failingEmbedder struct{}

func (failingEmbedder) Name() string { return "test/failing-embedder" }

func (failingEmbedder) Register(api.Registry) {}

func (failingEmbedder) Embed(context.Context, *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	return nil, errors.New("boom")
}

func TestAdd_EmbeddingFailureStoresNothing(t *testing.T) {
	store := knowledge.New(failingEmbedder{}, testutil.DiscardLogger())

	err := store.Add(context.Background(), knowledge.Document{ID: "doc-1", Content: "x"})
	if !errors.Is(err, knowledge.ErrEmbedding) {
		t.Fatalf("Add() error = %v, want ErrEmbedding", err)
	}
	if store.Count() != 0 {
		t.Errorf("Count() = %d after failed Add, want 0", store.Count())
	}
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	store := knowledge.New(failingEmbedder{}, testutil.DiscardLogger())

	_, err := store.Search(context.Background(), "query")
	if !errors.Is(err, knowledge.ErrEmbedding) {
		t.Fatalf("Search() error = %v, want ErrEmbedding", err)
	}
}

func TestStore_ConcurrentAddAndSearch(t *testing.T) {
	store, mock := newTestStore(t)
	ctx := context.Background()

	mock.SetVector("query", []float32{1, 0, 0, 0})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Add(ctx, knowledge.Document{
				ID:      fmt.Sprintf("doc-%d", n),
				Content: fmt.Sprintf("content %d", n),
			})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Search(ctx, "query")
		}()
	}
	wg.Wait()

	if store.Count() != 8 {
		t.Errorf("Count() = %d, want 8", store.Count())
	}
}
