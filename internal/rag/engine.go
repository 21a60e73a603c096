package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/brainydocs/brainydocs/internal/config"
)

var (
	// ErrUnsupportedFile indicates a file type the loader cannot ingest
	ErrUnsupportedFile = errors.New("unsupported file")
	// ErrEmptyAnswer indicates the model returned no choices
	ErrEmptyAnswer = errors.New("model returned empty answer")
)

// Turn is one completed query/answer exchange used as chat history
type Turn struct {
	Query  string
	Answer string
}

// Answer is the result of a retrieval-augmented generation
type Answer struct {
	Text    string
	Sources []string
}

// Engine ties together the embedding client, vector store, loader and
// LLM behind the two operations the services need: ingesting documents
// and answering questions against them.
type Engine struct {
	llm         llms.Model
	store       VectorStore
	loader      *Loader
	topK        int
	temperature float64
	logger      *zap.Logger
}

// NewEngine builds the RAG toolchain from configuration. One
// OpenAI-compatible client serves both embeddings and generation; the
// vector backend is selected by config (embedded chromem by default,
// qdrant for server deployments).
func NewEngine(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		// langchaingo requires a token even for keyless local servers
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.LLM.BaseURL),
		openai.WithToken(apiKey),
		openai.WithModel(cfg.LLM.Model),
		openai.WithEmbeddingModel(cfg.LLM.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	var store VectorStore
	switch cfg.Vector.Backend {
	case config.VectorBackendQdrant:
		store, err = NewQdrantStore(cfg.Vector.QdrantURL, cfg.Vector.Collection, embedder)
	default:
		store, err = NewChromemStore(cfg.Vector.Path, cfg.Vector.Collection, embedder)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	return &Engine{
		llm:         llm,
		store:       store,
		loader:      NewLoader(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		topK:        cfg.RAG.TopK,
		temperature: cfg.LLM.Temperature,
		logger:      logger,
	}, nil
}

// IngestFile chunks, embeds and indexes a file. Returns the chunk count.
func (e *Engine) IngestFile(ctx context.Context, path, filename string) (int, error) {
	chunks, err := e.loader.LoadFile(ctx, path, filename)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := e.store.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to index chunks: %w", err)
	}

	e.logger.Info("Ingested document",
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)),
	)

	return len(chunks), nil
}

// Answer retrieves the chunks most relevant to the query and asks the
// model to answer from them alone. Prior turns are replayed so the model
// can resolve follow-up questions.
func (e *Engine) Answer(ctx context.Context, query string, history []Turn) (*Answer, error) {
	normalized := Normalize(query)

	chunks, err := e.store.Search(ctx, normalized, e.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	contextText := strings.Join(contents, "\n\n")

	messages := make([]llms.MessageContent, 0, 2*len(history)+1)
	for _, turn := range history {
		messages = append(messages,
			llms.TextParts(schema.ChatMessageTypeHuman, turn.Query),
			llms.TextParts(schema.ChatMessageTypeAI, turn.Answer),
		)
	}
	messages = append(messages,
		llms.TextParts(schema.ChatMessageTypeHuman, RenderPrompt(contextText, normalized)))

	resp, err := e.llm.GenerateContent(ctx, messages, llms.WithTemperature(e.temperature))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyAnswer
	}

	return &Answer{
		Text:    resp.Choices[0].Content,
		Sources: DedupeSources(chunks),
	}, nil
}

// DedupeSources derives the citation list for a set of retrieved
// chunks. Each source reads "name (page N)"; duplicates collapse and
// the result is sorted so repeated questions cite stably.
func DedupeSources(chunks []Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.PDFName == "" {
			continue
		}
		page := chunk.Page
		if page == "" {
			page = "unknown"
		}
		source := fmt.Sprintf("%s (page %s)", chunk.PDFName, page)
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}
