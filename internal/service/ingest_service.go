package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brainydocs/brainydocs/internal/config"
	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/rag"
	"github.com/brainydocs/brainydocs/internal/repository"
)

// Ingester chunks and indexes a file into the vector store
type Ingester interface {
	IngestFile(ctx context.Context, path, filename string) (int, error)
}

// IngestService handles document uploads and ingestion
type IngestService struct {
	documentRepo *repository.DocumentRepository
	cfg          *config.Config
	engine       Ingester
	logger       *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	documentRepo *repository.DocumentRepository,
	cfg *config.Config,
	engine Ingester,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		documentRepo: documentRepo,
		cfg:          cfg,
		engine:       engine,
		logger:       logger,
	}
}

// UploadDocument saves an uploaded file and queues it for ingestion
func (s *IngestService) UploadDocument(ctx context.Context, file *multipart.FileHeader) (*domain.Document, error) {
	fileType := rag.DetectFileType(file.Filename)
	if !rag.IsSupported(fileType) {
		return nil, fmt.Errorf("%w: unsupported file type: %s", domain.ErrInvalidRequest, fileType)
	}

	if err := os.MkdirAll(s.cfg.Storage.Documents, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	document := &domain.Document{
		Filename: file.Filename,
		FileType: fileType,
		FileSize: file.Size,
		Status:   domain.DocumentStatusPending,
	}
	if err := s.documentRepo.Create(document); err != nil {
		return nil, err
	}

	storagePath := s.storagePath(document)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	// Ingestion can take a while for large PDFs; run it off-request
	go s.ingestDocument(context.Background(), document, storagePath)

	return document, nil
}

func (s *IngestService) ingestDocument(ctx context.Context, document *domain.Document, storagePath string) {
	if err := s.documentRepo.UpdateStatus(document.ID, domain.DocumentStatusProcessing, 0, ""); err != nil {
		s.logger.Error("Failed to mark document processing",
			zap.String("document_id", document.ID), zap.Error(err))
	}

	if s.engine == nil {
		s.documentRepo.UpdateStatus(document.ID, domain.DocumentStatusFailed, 0, "document engine not configured")
		return
	}

	chunkCount, err := s.engine.IngestFile(ctx, storagePath, document.Filename)
	if err != nil {
		s.logger.Error("Ingestion failed",
			zap.String("document_id", document.ID),
			zap.String("filename", document.Filename),
			zap.Error(err))
		s.documentRepo.UpdateStatus(document.ID, domain.DocumentStatusFailed, 0, err.Error())
		return
	}

	if err := s.documentRepo.UpdateStatus(document.ID, domain.DocumentStatusReady, chunkCount, ""); err != nil {
		s.logger.Error("Failed to mark document ready",
			zap.String("document_id", document.ID), zap.Error(err))
	}
}

// GetDocument retrieves a document record
func (s *IngestService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documentRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// ListDocuments lists all document records
func (s *IngestService) ListDocuments(ctx context.Context) (*domain.DocumentListResponse, error) {
	docs, err := s.documentRepo.List()
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	return &domain.DocumentListResponse{Documents: docs, Total: len(docs)}, nil
}

// DeleteDocument removes a document record and its stored file. Chunks
// already embedded stay in the vector index.
func (s *IngestService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.documentRepo.Get(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrNotFound
	}

	if err := s.documentRepo.Delete(id); err != nil {
		return err
	}

	if err := os.Remove(s.storagePath(doc)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove stored file",
			zap.String("document_id", id), zap.Error(err))
	}

	return nil
}

func (s *IngestService) storagePath(doc *domain.Document) string {
	ext := filepath.Ext(doc.Filename)
	return filepath.Join(s.cfg.Storage.Documents, doc.ID+ext)
}
