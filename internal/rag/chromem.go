package rag

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
)

// ChromemStore is an embedded vector store backed by chromem-go.
// It keeps the whole index on local disk, so a single binary plus a
// data directory is a complete deployment.
type ChromemStore struct {
	collection *chromem.Collection
}

// NewChromemStore opens (or creates) a persistent chromem collection
// using the given embedder for both documents and queries.
func NewChromemStore(path, collectionName string, embedder embeddings.Embedder) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open chromem db: %w", err)
	}

	embedFn := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}

	return &ChromemStore{collection: collection}, nil
}

// Add embeds and stores chunks
func (s *ChromemStore) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = uuid.New().String()
		}
		docs[i] = chromem.Document{
			ID:      id,
			Content: chunk.Content,
			Metadata: map[string]string{
				MetadataKeyPDFName: chunk.PDFName,
				MetadataKeyPage:    chunk.Page,
			},
		}
	}

	return s.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Search returns up to k chunks most similar to the query
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]Chunk, error) {
	// chromem rejects queries asking for more results than stored docs
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k == 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query failed: %w", err)
	}

	chunks := make([]Chunk, len(results))
	for i, res := range results {
		chunks[i] = Chunk{
			ID:      res.ID,
			Content: res.Content,
			PDFName: res.Metadata[MetadataKeyPDFName],
			Page:    res.Metadata[MetadataKeyPage],
			Score:   float64(res.Similarity),
		}
	}

	return chunks, nil
}
