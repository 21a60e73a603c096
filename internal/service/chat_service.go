package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/rag"
	"github.com/brainydocs/brainydocs/internal/repository"
)

const maxTitleLen = 48

// AnswerEngine produces a retrieval-augmented answer for a query
type AnswerEngine interface {
	Answer(ctx context.Context, query string, history []rag.Turn) (*rag.Answer, error)
}

// ChatService handles per-user chat sessions
type ChatService struct {
	sessionRepo   *repository.SessionRepository
	referenceRepo *repository.ReferenceRepository
	engine        AnswerEngine
	logger        *zap.Logger
}

// NewChatService creates a new chat service. The engine may be nil, in
// which case chats are persisted with a placeholder answer.
func NewChatService(
	sessionRepo *repository.SessionRepository,
	referenceRepo *repository.ReferenceRepository,
	engine AnswerEngine,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessionRepo:   sessionRepo,
		referenceRepo: referenceRepo,
		engine:        engine,
		logger:        logger,
	}
}

// ListSessions returns a user's sessions, most recently active first
func (s *ChatService) ListSessions(ctx context.Context, userID string) (*domain.SessionListResponse, error) {
	sessions, err := s.sessionRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	recent := make([]domain.SessionSummary, len(sessions))
	for i, session := range sessions {
		recent[i] = domain.SessionSummary{SessionID: session.ID, Title: session.Title}
	}

	return &domain.SessionListResponse{RecentChats: recent}, nil
}

// GetSession returns a session's title and full message history
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID string) (*domain.SessionDetail, error) {
	session, err := s.sessionRepo.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	messages, err := s.sessionRepo.GetMessages(sessionID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.Message{}
	}

	return &domain.SessionDetail{Title: session.Title, Messages: messages}, nil
}

// NewSession creates a session for the user
func (s *ChatService) NewSession(ctx context.Context, userID, title string) (*domain.Session, error) {
	session := &domain.Session{UserID: userID, Title: strings.TrimSpace(title)}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Send posts a user query to a session, generates an answer over the
// indexed documents and persists both turns. The first query of a
// session also becomes its title.
func (s *ChatService) Send(ctx context.Context, userID, sessionID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}

	session, err := s.sessionRepo.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	messages, err := s.sessionRepo.GetMessages(sessionID)
	if err != nil {
		return nil, err
	}
	history := buildHistory(messages)

	resp := &domain.ChatResponse{SessionID: sessionID}
	if s.engine != nil {
		answer, err := s.engine.Answer(ctx, query, history)
		if err != nil {
			// Keep the session consistent: persist the exchange with an
			// error answer instead of failing the request outright.
			s.logger.Warn("Answer generation failed",
				zap.String("session_id", sessionID), zap.Error(err))
			resp.Answer = fmt.Sprintf("Error from model: %v", err)
		} else {
			resp.Answer = answer.Text
			resp.Sources = answer.Sources
		}
	} else {
		resp.Answer = "Document engine not configured."
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}

	userMsg := &domain.Message{SessionID: sessionID, Role: domain.RoleUser, Query: query}
	if err := s.sessionRepo.CreateMessage(userMsg); err != nil {
		return nil, err
	}

	assistantMsg := &domain.Message{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Answer:    resp.Answer,
		Sources:   resp.Sources,
	}
	if err := s.sessionRepo.CreateMessage(assistantMsg); err != nil {
		return nil, err
	}

	for _, source := range resp.Sources {
		if err := s.referenceRepo.Upsert(userID, source); err != nil {
			s.logger.Warn("Failed to record reference",
				zap.String("source", source), zap.Error(err))
		}
	}

	if len(messages) == 0 && session.Title == domain.DefaultSessionTitle {
		if err := s.sessionRepo.Rename(userID, sessionID, titleFromQuery(query)); err != nil {
			s.logger.Warn("Failed to retitle session",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	if err := s.sessionRepo.Touch(sessionID); err != nil {
		return nil, err
	}

	return resp, nil
}

// Rename changes a session's title
func (s *ChatService) Rename(ctx context.Context, userID, sessionID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: empty name", domain.ErrInvalidRequest)
	}
	return s.sessionRepo.Rename(userID, sessionID, newName)
}

// Delete removes a session and its messages
func (s *ChatService) Delete(ctx context.Context, userID, sessionID string) error {
	return s.sessionRepo.Delete(userID, sessionID)
}

// ResetMemory clears the user's conversation history. Sessions remain
// but hold no messages afterwards, so subsequent answers start from a
// clean context.
func (s *ChatService) ResetMemory(ctx context.Context, userID string) error {
	return s.sessionRepo.DeleteUserMessages(userID)
}

// ListReferences returns the user's accumulated citations
func (s *ChatService) ListReferences(ctx context.Context, userID string) ([]*domain.Reference, error) {
	refs, err := s.referenceRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []*domain.Reference{}
	}
	return refs, nil
}

// buildHistory pairs stored messages into completed query/answer turns
func buildHistory(messages []*domain.Message) []rag.Turn {
	var turns []rag.Turn
	var pending string
	var havePending bool

	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleUser:
			pending = msg.Query
			havePending = true
		case domain.RoleAssistant:
			if havePending {
				turns = append(turns, rag.Turn{Query: pending, Answer: msg.Answer})
				havePending = false
			}
		}
	}

	return turns
}

func titleFromQuery(query string) string {
	runes := []rune(query)
	if len(runes) <= maxTitleLen {
		return query
	}
	return strings.TrimSpace(string(runes[:maxTitleLen])) + "..."
}
