package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-api/models"
	"github.com/studydeck/studydeck-api/study"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

// GenerateQuiz asks the AI service for a quiz over a document and stores
// it, questions included, in one transaction. Quizzes are immutable once
// created.
func (db *DBHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}

	var req struct {
		QuestionCount int `json:"question_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = defaultQuestionCount
	}
	if req.QuestionCount > maxQuestionCount {
		req.QuestionCount = maxQuestionCount
	}

	draft, err := db.AI.GenerateQuiz(r.Context(), doc.Content, doc.Title, req.QuestionCount)
	if err != nil {
		log.Printf("GenerateQuiz: generation failed for document %s: %v", doc.PublicID, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		http.Error(w, "Failed to generate ID", http.StatusInternalServerError)
		return
	}

	quiz := models.Quiz{
		PublicID:       publicID,
		Title:          draft.Title,
		DocumentID:     doc.ID,
		TotalQuestions: len(draft.Questions),
	}
	for i, q := range draft.Questions {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Position:      i,
			Prompt:        q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	if err := db.Create(&quiz).Error; err != nil {
		log.Printf("GenerateQuiz: insert failed: %v", err)
		http.Error(w, "Failed to save quiz", http.StatusInternalServerError)
		return
	}

	log.Printf("GenerateQuiz: created quiz %s with %d questions for document %s",
		publicID, quiz.TotalQuestions, doc.PublicID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(quiz)
}

// GetQuizzesForDocument lists the quizzes generated from a document.
func (db *DBHandler) GetQuizzesForDocument(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}

	var quizzes []models.Quiz
	if err := db.Where("document_id = ?", doc.ID).Order("created_at desc").Find(&quizzes).Error; err != nil {
		log.Printf("GetQuizzesForDocument: query failed: %v", err)
		http.Error(w, "Failed to fetch quizzes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quizzes)
}

func (db *DBHandler) GetQuizByID(w http.ResponseWriter, r *http.Request) {
	var quiz models.Quiz
	err := db.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	}).Where("public_id = ?", r.PathValue("quizID")).First(&quiz).Error
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quiz)
}

// SubmitQuizAttempt replays a full set of answers through the quiz state
// machine, records one completed quiz session, and returns the per-question
// outcomes with the final score and message tier.
func (db *DBHandler) SubmitQuizAttempt(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var quiz models.Quiz
	err := db.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	}).Where("public_id = ?", r.PathValue("quizID")).First(&quiz).Error
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	var req struct {
		Answers   []int      `json:"answers"`
		StartedAt *time.Time `json:"started_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Answers) != len(quiz.Questions) {
		http.Error(w, "An answer is required for every question", http.StatusBadRequest)
		return
	}

	now := time.Now()
	startedAt := now
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	attempt, err := study.NewAttempt(&quiz, startedAt)
	if err != nil {
		http.Error(w, "Quiz has no questions", http.StatusConflict)
		return
	}

	type outcome struct {
		Position      int    `json:"position"`
		Selected      int    `json:"selected"`
		CorrectAnswer int    `json:"correct_answer"`
		IsCorrect     bool   `json:"is_correct"`
		Explanation   string `json:"explanation,omitempty"`
	}
	outcomes := make([]outcome, 0, len(req.Answers))

	for i, selected := range req.Answers {
		isCorrect, err := attempt.Answer(selected)
		if err != nil {
			if errors.Is(err, study.ErrInvalidOption) {
				http.Error(w, "Selected option is out of range", http.StatusBadRequest)
				return
			}
			http.Error(w, "Invalid attempt", http.StatusBadRequest)
			return
		}
		outcomes = append(outcomes, outcome{
			Position:      i,
			Selected:      selected,
			CorrectAnswer: quiz.Questions[i].CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   quiz.Questions[i].Explanation,
		})
		if err := attempt.Advance(); err != nil {
			http.Error(w, "Invalid attempt", http.StatusBadRequest)
			return
		}
	}

	score := attempt.Score()
	session := study.QuizSession(user.ID, quiz.PublicID, score, study.SessionContext{Start: startedAt}, now)
	sessionRecorded := db.recordSession(&session)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"score":            score,
		"message":          study.ScoreMessage(score),
		"outcomes":         outcomes,
		"duration_minutes": session.DurationMinutes,
		"session_recorded": sessionRecorded,
	})
}
