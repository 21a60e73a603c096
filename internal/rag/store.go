package rag

import "context"

// Metadata keys attached to every stored chunk
const (
	MetadataKeyPDFName = "pdf_name"
	MetadataKeyPage    = "page_number"
)

// Chunk is one embedded slice of a source document
type Chunk struct {
	ID      string
	Content string
	PDFName string
	Page    string
	Score   float64
}

// VectorStore stores embedded chunks and retrieves them by similarity
type VectorStore interface {
	// Add embeds and stores chunks
	Add(ctx context.Context, chunks []Chunk) error
	// Search returns up to k chunks most similar to the query,
	// highest score first
	Search(ctx context.Context, query string, k int) ([]Chunk, error)
}
