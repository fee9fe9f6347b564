package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/ai"
	"github.com/studydeck/studydeck-api/models"
)

func createTestQuiz(t *testing.T, h *DBHandler, doc *models.Document, n int) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{
		PublicID:       "qz_" + doc.PublicID,
		Title:          "Test Quiz",
		DocumentID:     doc.ID,
		TotalQuestions: n,
	}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Position:      i,
			Prompt:        fmt.Sprintf("Question %d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
			Explanation:   "because",
		})
	}
	require.NoError(t, h.DB.Create(quiz).Error)
	return quiz
}

func TestGenerateQuizPersistsQuestions(t *testing.T) {
	h, mock := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|quiz")
	doc := createTestDocument(t, h.DB, user, "doc_quiz", "notes")

	mock.quiz = &ai.QuizDraft{
		Title: "Cell Quiz",
		Questions: []ai.QuestionDraft{
			{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2, Explanation: "why"},
			{Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: 1},
		},
	}

	req := authedRequest(user, http.MethodPost, "/api/documents/doc_quiz/quizzes/generate", strings.NewReader(`{"question_count": 2}`))
	req.SetPathValue("documentID", "doc_quiz")
	rec := httptest.NewRecorder()
	h.GenerateQuiz(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var quiz models.Quiz
	require.NoError(t, h.DB.Preload("Questions").Where("document_id = ?", doc.ID).First(&quiz).Error)
	assert.Equal(t, "Cell Quiz", quiz.Title)
	assert.Equal(t, 2, quiz.TotalQuestions)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, []string{"a", "b", "c", "d"}, quiz.Questions[0].Options)
	assert.Equal(t, 2, quiz.Questions[0].CorrectAnswer)
}

func TestSubmitQuizAttemptScoresAndRecordsSession(t *testing.T) {
	h, _ := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|attempt")
	doc := createTestDocument(t, h.DB, user, "doc_attempt", "notes")
	quiz := createTestQuiz(t, h, doc, 4)

	started := time.Now().Add(-9 * time.Minute).UTC()
	body := fmt.Sprintf(`{"answers": [0, 0, 0, 1], "started_at": %q}`, started.Format(time.RFC3339))

	req := authedRequest(user, http.MethodPost, "/api/quizzes/"+quiz.PublicID+"/attempts", strings.NewReader(body))
	req.SetPathValue("quizID", quiz.PublicID)
	rec := httptest.NewRecorder()
	h.SubmitQuizAttempt(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Score           int    `json:"score"`
		Message         string `json:"message"`
		DurationMinutes int    `json:"duration_minutes"`
		SessionRecorded bool   `json:"session_recorded"`
		Outcomes        []struct {
			IsCorrect bool `json:"is_correct"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// 3 of 4 correct.
	assert.Equal(t, 75, resp.Score)
	assert.Equal(t, "Great job!", resp.Message)
	assert.Equal(t, 9, resp.DurationMinutes)
	assert.True(t, resp.SessionRecorded)
	require.Len(t, resp.Outcomes, 4)
	assert.False(t, resp.Outcomes[3].IsCorrect)

	var session models.StudySession
	require.NoError(t, h.DB.Where("user_id = ? AND session_type = ?", user.ID, models.SessionTypeQuiz).First(&session).Error)
	require.NotNil(t, session.Score)
	assert.Equal(t, 75, *session.Score)
	assert.True(t, session.Completed)
	assert.Equal(t, quiz.PublicID, session.ContentID)
}

func TestSubmitQuizAttemptRequiresAllAnswers(t *testing.T) {
	h, _ := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|short")
	doc := createTestDocument(t, h.DB, user, "doc_short", "notes")
	quiz := createTestQuiz(t, h, doc, 3)

	req := authedRequest(user, http.MethodPost, "/api/quizzes/"+quiz.PublicID+"/attempts", strings.NewReader(`{"answers": [0]}`))
	req.SetPathValue("quizID", quiz.PublicID)
	rec := httptest.NewRecorder()
	h.SubmitQuizAttempt(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitQuizAttemptRejectsOutOfRangeOption(t *testing.T) {
	h, _ := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|range")
	doc := createTestDocument(t, h.DB, user, "doc_range", "notes")
	quiz := createTestQuiz(t, h, doc, 2)

	req := authedRequest(user, http.MethodPost, "/api/quizzes/"+quiz.PublicID+"/attempts", strings.NewReader(`{"answers": [0, 9]}`))
	req.SetPathValue("quizID", quiz.PublicID)
	rec := httptest.NewRecorder()
	h.SubmitQuizAttempt(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitQuizAttemptZeroScore(t *testing.T) {
	h, _ := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|zero")
	doc := createTestDocument(t, h.DB, user, "doc_zero", "notes")
	quiz := createTestQuiz(t, h, doc, 3)

	req := authedRequest(user, http.MethodPost, "/api/quizzes/"+quiz.PublicID+"/attempts", strings.NewReader(`{"answers": [1, 1, 1]}`))
	req.SetPathValue("quizID", quiz.PublicID)
	rec := httptest.NewRecorder()
	h.SubmitQuizAttempt(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Score   int    `json:"score"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Score)
	assert.Equal(t, "Keep studying!", resp.Message)
}

func TestGetQuizByIDReturnsOrderedQuestions(t *testing.T) {
	h, _ := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|get")
	doc := createTestDocument(t, h.DB, user, "doc_get", "notes")
	quiz := createTestQuiz(t, h, doc, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quiz.PublicID, nil)
	req.SetPathValue("quizID", quiz.PublicID)
	rec := httptest.NewRecorder()
	h.GetQuizByID(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Quiz
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Questions, 3)
	assert.Equal(t, 0, got.Questions[0].Position)
	assert.Equal(t, 2, got.Questions[2].Position)
}

func TestGetQuizByIDPayloadKeysMatchQuizKeys(t *testing.T) {
	h, _ := setupHandler(t)
	user := createTestUser(t, h.DB, "auth0|keys")
	doc := createTestDocument(t, h.DB, user, "doc_keys", "notes")
	quiz := createTestQuiz(t, h, doc, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quiz.PublicID, nil)
	req.SetPathValue("quizID", quiz.PublicID)
	rec := httptest.NewRecorder()
	h.GetQuizByID(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Questions serialize with the same field-name keys as the quiz itself.
	var raw struct {
		PublicID  string
		Questions []map[string]json.RawMessage
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, quiz.PublicID, raw.PublicID)
	require.Len(t, raw.Questions, 1)
	assert.Contains(t, raw.Questions[0], "Prompt")
	assert.Contains(t, raw.Questions[0], "Options")
	assert.Contains(t, raw.Questions[0], "CorrectAnswer")
	assert.NotContains(t, raw.Questions[0], "question")
	assert.NotContains(t, raw.Questions[0], "correct_answer")
}
