package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studydeck/studydeck-api/ai"
	"github.com/studydeck/studydeck-api/middleware"
	"github.com/studydeck/studydeck-api/models"
)

// mockAI is a canned ai.Service for handler tests.
type mockAI struct {
	flashcards []ai.FlashcardDraft
	quiz       *ai.QuizDraft
	reply      string
	err        error

	lastHistory []ai.Message
}

func (m *mockAI) GenerateFlashcards(ctx context.Context, documentContent, documentTitle string, count int) ([]ai.FlashcardDraft, error) {
	return m.flashcards, m.err
}

func (m *mockAI) GenerateQuiz(ctx context.Context, documentContent, documentTitle string, questionCount int) (*ai.QuizDraft, error) {
	return m.quiz, m.err
}

func (m *mockAI) Chat(ctx context.Context, message, documentContent string, history []ai.Message) (string, error) {
	m.lastHistory = history
	return m.reply, m.err
}

func setupHandler(t *testing.T) (*DBHandler, *mockAI) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Flashcard{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.StudySession{},
	))

	mock := &mockAI{}
	return &DBHandler{DB: db, AI: mock}, mock
}

func createTestUser(t *testing.T, db *gorm.DB, auth0ID string) *models.User {
	t.Helper()
	user := &models.User{Auth0ID: auth0ID, Nickname: "tester"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestDocument(t *testing.T, db *gorm.DB, user *models.User, publicID, content string) *models.Document {
	t.Helper()
	doc := &models.Document{
		PublicID: publicID,
		Title:    "Biology Notes",
		Content:  content,
		FileType: "txt",
		UserID:   user.ID,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

// authedRequest builds a request carrying the user the way
// SyncUserMiddleware would attach it.
func authedRequest(user *models.User, method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
	}
	return req
}
