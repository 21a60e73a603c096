package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/brainydocs/brainydocs/internal/domain"
)

// DocumentRepository handles ingested document metadata
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO documents (id, filename, file_type, file_size, status, chunk_count, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.FileType, doc.FileSize, doc.Status,
		doc.ChunkCount, doc.Error, doc.CreatedAt, doc.UpdatedAt)

	return err
}

// Get retrieves a document by ID
func (r *DocumentRepository) Get(id string) (*domain.Document, error) {
	doc := &domain.Document{}
	var errMsg sql.NullString

	err := r.db.QueryRow(`
		SELECT id, filename, file_type, file_size, status, chunk_count, error, created_at, updated_at
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize,
		&doc.Status, &doc.ChunkCount, &errMsg, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc.Error = errMsg.String
	return doc, nil
}

// List lists all documents, newest first
func (r *DocumentRepository) List() ([]*domain.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, filename, file_type, file_size, status, chunk_count, error, created_at, updated_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		var errMsg sql.NullString

		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize,
			&doc.Status, &doc.ChunkCount, &errMsg, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}

		doc.Error = errMsg.String
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateStatus updates a document's ingestion status
func (r *DocumentRepository) UpdateStatus(id, status string, chunkCount int, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE documents SET status = ?, chunk_count = ?, error = ?, updated_at = ?
		WHERE id = ?
	`, status, chunkCount, errMsg, time.Now(), id)
	return err
}

// Delete deletes a document record
func (r *DocumentRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the total number of documents
func (r *DocumentRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}
