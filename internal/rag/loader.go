package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// File type constants
const (
	FileTypePDF = "pdf"
	FileTypeMD  = "md"
	FileTypeTXT = "txt"
)

// DetectFileType detects file type from filename
func DetectFileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FileTypePDF
	case ".md", ".markdown":
		return FileTypeMD
	case ".txt":
		return FileTypeTXT
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

// IsSupported checks if file type is supported
func IsSupported(fileType string) bool {
	switch fileType {
	case FileTypePDF, FileTypeMD, FileTypeTXT:
		return true
	}
	return false
}

// Loader splits source documents into normalized chunks ready for
// embedding. Chunking must stay aligned with the query path, so the
// loader also applies Normalize to every chunk.
type Loader struct {
	splitter textsplitter.TextSplitter
}

// NewLoader creates a loader with a recursive character splitter.
// The separators keep markdown headings intact before falling back to
// paragraph, line and word boundaries.
func NewLoader(chunkSize, chunkOverlap int) *Loader {
	return &Loader{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n## ", "\n#", "\n\n", "\n", " "}),
		),
	}
}

// LoadFile loads a file from disk and splits it into chunks
func (l *Loader) LoadFile(ctx context.Context, path, filename string) ([]Chunk, error) {
	fileType := DetectFileType(filename)
	if !IsSupported(fileType) {
		return nil, fmt.Errorf("%w: unsupported file type: %s", ErrUnsupportedFile, fileType)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var docs []schema.Document
	if fileType == FileTypePDF {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		docs, err = documentloaders.NewPDF(f, info.Size()).LoadAndSplit(ctx, l.splitter)
		if err != nil {
			return nil, fmt.Errorf("failed to load pdf: %w", err)
		}
	} else {
		docs, err = documentloaders.NewText(f).LoadAndSplit(ctx, l.splitter)
		if err != nil {
			return nil, fmt.Errorf("failed to load text: %w", err)
		}
	}

	chunks := make([]Chunk, 0, len(docs))
	for _, doc := range docs {
		content := Normalize(doc.PageContent)
		if content == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Content: content,
			PDFName: filename,
			Page:    pageFromMetadata(doc.Metadata),
		})
	}

	return chunks, nil
}

func pageFromMetadata(metadata map[string]any) string {
	if metadata == nil {
		return "unknown"
	}
	if page, ok := metadata["page"]; ok {
		return fmt.Sprint(page)
	}
	return "unknown"
}
