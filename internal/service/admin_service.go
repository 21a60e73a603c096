package service

import (
	"context"

	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/repository"
)

// AdminService exposes operational statistics
type AdminService struct {
	userRepo     *repository.UserRepository
	sessionRepo  *repository.SessionRepository
	documentRepo *repository.DocumentRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	documentRepo *repository.DocumentRepository,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		documentRepo: documentRepo,
	}
}

// Stats returns system-wide counts
func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.CountSessions()
	if err != nil {
		return nil, err
	}
	chats, err := s.sessionRepo.CountChats()
	if err != nil {
		return nil, err
	}
	documents, err := s.documentRepo.Count()
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		TotalUsers:     users,
		TotalSessions:  sessions,
		TotalChats:     chats,
		TotalDocuments: documents,
	}, nil
}
