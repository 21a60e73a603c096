package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brainydocs/brainydocs/internal/api/middleware"
	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/repository"
	"github.com/brainydocs/brainydocs/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	user := &domain.User{Email: "alice@example.com", Provider: domain.ProviderLocal}
	require.NoError(t, repository.NewUserRepository(db).Create(user))

	// nil engine: answers are placeholders, which the handlers don't care about
	chatService := service.NewChatService(
		repository.NewSessionRepository(db),
		repository.NewReferenceRepository(db),
		nil,
		zap.NewNop(),
	)

	r := gin.New()
	grp := r.Group("/")
	grp.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.ID)
		c.Next()
	})
	NewHandler(chatService).RegisterRoutes(grp)

	return r, user.ID
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestNewSessionAndList(t *testing.T) {
	r, _ := newTestRouter(t)

	w, created := doJSON(t, r, http.MethodPost, "/new_session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, created["session_id"])
	assert.Equal(t, domain.DefaultSessionTitle, created["title"])

	w, list := doJSON(t, r, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	recent := list["recent_chats"].([]any)
	require.Len(t, recent, 1)
	entry := recent[0].(map[string]any)
	assert.Equal(t, created["session_id"], entry["session_id"])
}

func TestSendToSession(t *testing.T) {
	r, _ := newTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/new_session", `{"title":"My chat"}`)
	sessionID := created["session_id"].(string)

	w, resp := doJSON(t, r, http.MethodPost, "/chat/"+sessionID, `{"query":"what is chunking?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sessionID, resp["session_id"])
	assert.NotEmpty(t, resp["answer"])

	w, detail := doJSON(t, r, http.MethodGet, "/chat/"+sessionID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "My chat", detail["title"])
	messages := detail["messages"].([]any)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, domain.RoleUser, first["role"])
	assert.Equal(t, "what is chunking?", first["query"])
}

func TestSendMissingQuery(t *testing.T) {
	r, _ := newTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/new_session", "")
	sessionID := created["session_id"].(string)

	w, _ := doJSON(t, r, http.MethodPost, "/chat/"+sessionID, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendUnknownSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/chat/nope", `{"query":"hi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenameSession(t *testing.T) {
	r, _ := newTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/new_session", "")
	sessionID := created["session_id"].(string)

	w, renamed := doJSON(t, r, http.MethodPatch, "/chat/rename/"+sessionID, `{"new_name":"Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", renamed["title"])

	_, detail := doJSON(t, r, http.MethodGet, "/chat/"+sessionID, "")
	assert.Equal(t, "Renamed", detail["title"])
}

func TestDeleteSession(t *testing.T) {
	r, _ := newTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/new_session", "")
	sessionID := created["session_id"].(string)

	w, _ := doJSON(t, r, http.MethodDelete, "/chat/"+sessionID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/chat/"+sessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetMemory(t *testing.T) {
	r, _ := newTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/new_session", "")
	sessionID := created["session_id"].(string)
	doJSON(t, r, http.MethodPost, "/chat/"+sessionID, `{"query":"hi"}`)

	w, resp := doJSON(t, r, http.MethodGet, "/reset_memory", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp["message"], "cleared")

	_, detail := doJSON(t, r, http.MethodGet, "/chat/"+sessionID, "")
	assert.Empty(t, detail["messages"])
}
