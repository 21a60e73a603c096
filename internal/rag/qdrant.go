package rag

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores/qdrant"
)

// QdrantStore is a vector store backed by a Qdrant server, for
// deployments where the index outgrows the embedded store.
type QdrantStore struct {
	store qdrant.Store
}

// NewQdrantStore connects to a Qdrant server via langchaingo.
// The collection must already exist with dimensions matching the
// embedding model.
func NewQdrantStore(qdrantURL, collectionName string, embedder embeddings.Embedder) (*QdrantStore, error) {
	parsed, err := url.Parse(qdrantURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	store, err := qdrant.New(
		qdrant.WithURL(*parsed),
		qdrant.WithCollectionName(collectionName),
		qdrant.WithEmbedder(embedder),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant store: %w", err)
	}

	return &QdrantStore{store: store}, nil
}

// Add embeds and stores chunks
func (s *QdrantStore) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = uuid.New().String()
		}
		docs[i] = schema.Document{
			PageContent: chunk.Content,
			Metadata: map[string]any{
				"id":               id,
				MetadataKeyPDFName: chunk.PDFName,
				MetadataKeyPage:    chunk.Page,
			},
		}
	}

	if _, err := s.store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to add documents to qdrant: %w", err)
	}
	return nil
}

// Search returns up to k chunks most similar to the query
func (s *QdrantStore) Search(ctx context.Context, query string, k int) ([]Chunk, error) {
	docs, err := s.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	chunks := make([]Chunk, len(docs))
	for i, doc := range docs {
		chunk := Chunk{
			Content: doc.PageContent,
			Score:   float64(doc.Score),
		}
		if v, ok := doc.Metadata["id"].(string); ok {
			chunk.ID = v
		}
		if v, ok := doc.Metadata[MetadataKeyPDFName].(string); ok {
			chunk.PDFName = v
		}
		if v, ok := doc.Metadata[MetadataKeyPage].(string); ok {
			chunk.Page = v
		}
		chunks[i] = chunk
	}

	return chunks, nil
}
