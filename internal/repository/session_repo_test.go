package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainydocs/brainydocs/internal/domain"
)

func TestSessionRepositoryCreateDefaultsTitle(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice@example.com")
	repo := NewSessionRepository(db)

	session := &domain.Session{UserID: user.ID}
	require.NoError(t, repo.Create(session))
	require.NotEmpty(t, session.ID)
	assert.Equal(t, domain.DefaultSessionTitle, session.Title)
}

func TestSessionRepositoryGetScopedToUser(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")
	repo := NewSessionRepository(db)

	session := &domain.Session{UserID: alice.ID, Title: "Alice's chat"}
	require.NoError(t, repo.Create(session))

	got, err := repo.Get(alice.ID, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice's chat", got.Title)

	// Another user must not see it
	got, err = repo.Get(bob.ID, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepositoryListByUserOrder(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice@example.com")
	repo := NewSessionRepository(db)

	first := &domain.Session{UserID: user.ID, Title: "first"}
	second := &domain.Session{UserID: user.ID, Title: "second"}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	// Touching the older session moves it to the front
	require.NoError(t, repo.Touch(first.ID))

	sessions, err := repo.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "first", sessions[0].Title)
	assert.Equal(t, "second", sessions[1].Title)
}

func TestSessionRepositoryRename(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice@example.com")
	repo := NewSessionRepository(db)

	session := &domain.Session{UserID: user.ID}
	require.NoError(t, repo.Create(session))

	require.NoError(t, repo.Rename(user.ID, session.ID, "Deploy questions"))

	got, err := repo.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deploy questions", got.Title)

	assert.ErrorIs(t, repo.Rename(user.ID, "missing", "x"), domain.ErrNotFound)
}

func TestSessionRepositoryDeleteCascadesMessages(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice@example.com")
	repo := NewSessionRepository(db)

	session := &domain.Session{UserID: user.ID}
	require.NoError(t, repo.Create(session))
	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: session.ID, Role: domain.RoleUser, Query: "hello",
	}))

	require.NoError(t, repo.Delete(user.ID, session.ID))

	messages, err := repo.GetMessages(session.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.ErrorIs(t, repo.Delete(user.ID, session.ID), domain.ErrNotFound)
}

func TestSessionRepositoryMessagesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice@example.com")
	repo := NewSessionRepository(db)

	session := &domain.Session{UserID: user.ID}
	require.NoError(t, repo.Create(session))

	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: session.ID, Role: domain.RoleUser, Query: "what is chunking?",
	}))
	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: session.ID, Role: domain.RoleAssistant,
		Answer:  "chunking splits documents",
		Sources: []string{"manual.pdf (page 3)"},
	}))

	messages, err := repo.GetMessages(session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "what is chunking?", messages[0].Query)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, "chunking splits documents", messages[1].Answer)
	assert.Equal(t, []string{"manual.pdf (page 3)"}, messages[1].Sources)
}

func TestSessionRepositoryDeleteUserMessages(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")
	repo := NewSessionRepository(db)

	aliceSession := &domain.Session{UserID: alice.ID}
	bobSession := &domain.Session{UserID: bob.ID}
	require.NoError(t, repo.Create(aliceSession))
	require.NoError(t, repo.Create(bobSession))
	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: aliceSession.ID, Role: domain.RoleUser, Query: "a",
	}))
	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: bobSession.ID, Role: domain.RoleUser, Query: "b",
	}))

	require.NoError(t, repo.DeleteUserMessages(alice.ID))

	aliceMessages, err := repo.GetMessages(aliceSession.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceMessages)

	// Sessions survive, other users' messages untouched
	got, err := repo.Get(alice.ID, aliceSession.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	bobMessages, err := repo.GetMessages(bobSession.ID)
	require.NoError(t, err)
	assert.Len(t, bobMessages, 1)
}

func TestSessionRepositoryCounts(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice@example.com")
	repo := NewSessionRepository(db)

	session := &domain.Session{UserID: user.ID}
	require.NoError(t, repo.Create(session))
	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: session.ID, Role: domain.RoleUser, Query: "q",
	}))
	require.NoError(t, repo.CreateMessage(&domain.Message{
		SessionID: session.ID, Role: domain.RoleAssistant, Answer: "a",
	}))

	sessions, err := repo.CountSessions()
	require.NoError(t, err)
	assert.Equal(t, 1, sessions)

	chats, err := repo.CountChats()
	require.NoError(t, err)
	assert.Equal(t, 1, chats)
}
