package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brainydocs/brainydocs/internal/api/middleware"
	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/service"
)

// Handler handles session and chat requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessions", h.ListSessions)
	r.POST("/new_session", h.NewSession)
	r.GET("/chat/:session_id", h.GetSession)
	r.POST("/chat/:session_id", h.Send)
	r.DELETE("/chat/:session_id", h.Delete)
	r.PATCH("/chat/rename/:session_id", h.Rename)
	r.GET("/references", h.ListReferences)
	r.GET("/reset_memory", h.ResetMemory)
}

// ListSessions returns the user's recent chats
func (h *Handler) ListSessions(c *gin.Context) {
	resp, err := h.chatService.ListSessions(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NewSession creates a session
func (h *Handler) NewSession(c *gin.Context) {
	// Body is optional; an empty body means a default title
	var req domain.NewSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	session, err := h.chatService.NewSession(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "title": session.Title})
}

// GetSession returns a session's title and messages
func (h *Handler) GetSession(c *gin.Context) {
	detail, err := h.chatService.GetSession(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Send posts a query to a session and returns the generated answer
func (h *Handler) Send(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Send(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.Param("session_id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete removes a session
func (h *Handler) Delete(c *gin.Context) {
	err := h.chatService.Delete(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// Rename changes a session's title
func (h *Handler) Rename(c *gin.Context) {
	var req domain.RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.chatService.Rename(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.Param("session_id"), req.NewName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("session_id"), "title": req.NewName})
}

// ListReferences returns the user's accumulated citations
func (h *Handler) ListReferences(c *gin.Context) {
	refs, err := h.chatService.ListReferences(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"references": refs})
}

// ResetMemory clears the user's conversation history
func (h *Handler) ResetMemory(c *gin.Context) {
	err := h.chatService.ResetMemory(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All active chat sessions cleared successfully."})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
