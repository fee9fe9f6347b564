package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/studydeck/studydeck-api/models"
	"github.com/studydeck/studydeck-api/study"
)

// recordSession appends one row to the study session log. The write is
// retried once; a second failure is reported to the caller as false so
// the surrounding user action can still succeed.
func (db *DBHandler) recordSession(session *models.StudySession) bool {
	publicID, err := gonanoid.New()
	if err != nil {
		log.Printf("recordSession: failed to generate publicID: %v", err)
		return false
	}
	session.PublicID = publicID

	if err := db.Create(session).Error; err != nil {
		log.Printf("recordSession: insert failed, retrying once: %v", err)
		session.ID = 0
		if err := db.Create(session).Error; err != nil {
			log.Printf("recordSession: retry failed: %v", err)
			return false
		}
	}
	return true
}

// FinishFlashcardSession logs one completed flashcard review batch. The
// client sends the time it entered the review screen; duration is rounded
// elapsed minutes from there.
func (db *DBHandler) FinishFlashcardSession(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		DocumentID string     `json:"document_id"`
		StartedAt  *time.Time `json:"started_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	now := time.Now()
	startedAt := now
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	session := study.FlashcardSession(user.ID, req.DocumentID, study.SessionContext{Start: startedAt}, now)
	if !db.recordSession(&session) {
		http.Error(w, "Failed to record session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// GetSessions returns the requester's study session log, newest first.
func (db *DBHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var sessions []models.StudySession
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&sessions).Error; err != nil {
		log.Printf("GetSessions: query failed: %v", err)
		http.Error(w, "Failed to fetch sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}

// GetStats serves the dashboard counters with count-only queries.
func (db *DBHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fail := func(err error) bool {
		if err != nil {
			log.Printf("GetStats: query failed: %v", err)
			http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
			return true
		}
		return false
	}

	var documentCount, flashcardCount, masteredCount, quizCount, sessionCount int64

	if fail(db.Model(&models.Document{}).Where("user_id = ?", user.ID).Count(&documentCount).Error) {
		return
	}
	if fail(db.Model(&models.Flashcard{}).
		Joins("JOIN documents ON documents.id = flashcards.document_id").
		Where("documents.user_id = ?", user.ID).
		Count(&flashcardCount).Error) {
		return
	}
	if fail(db.Model(&models.Flashcard{}).
		Joins("JOIN documents ON documents.id = flashcards.document_id").
		Where("documents.user_id = ? AND flashcards.mastery_level = ?", user.ID, models.MaxMasteryLevel).
		Count(&masteredCount).Error) {
		return
	}
	if fail(db.Model(&models.Quiz{}).
		Joins("JOIN documents ON documents.id = quizzes.document_id").
		Where("documents.user_id = ?", user.ID).
		Count(&quizCount).Error) {
		return
	}
	if fail(db.Model(&models.StudySession{}).Where("user_id = ?", user.ID).Count(&sessionCount).Error) {
		return
	}

	var totalMinutes int64
	if fail(db.Model(&models.StudySession{}).
		Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&totalMinutes).Error) {
		return
	}

	var averageScore float64
	if fail(db.Model(&models.StudySession{}).
		Where("user_id = ? AND session_type = ? AND score IS NOT NULL", user.ID, models.SessionTypeQuiz).
		Select("COALESCE(AVG(score), 0)").
		Scan(&averageScore).Error) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"documents":           documentCount,
		"flashcards":          flashcardCount,
		"mastered_flashcards": masteredCount,
		"quizzes":             quizCount,
		"sessions":            sessionCount,
		"total_study_minutes": totalMinutes,
		"average_quiz_score":  averageScore,
	})
}
