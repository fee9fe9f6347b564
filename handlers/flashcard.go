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

const (
	defaultFlashcardCount = 10
	maxFlashcardCount     = 30
)

// GenerateFlashcards asks the AI service for flashcards over a document
// and stores the validated result in one transaction.
func (db *DBHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = defaultFlashcardCount
	}
	if req.Count > maxFlashcardCount {
		req.Count = maxFlashcardCount
	}

	drafts, err := db.AI.GenerateFlashcards(r.Context(), doc.Content, doc.Title, req.Count)
	if err != nil {
		log.Printf("GenerateFlashcards: generation failed for document %s: %v", doc.PublicID, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	flashcards := make([]models.Flashcard, 0, len(drafts))
	for _, d := range drafts {
		publicID, err := gonanoid.New()
		if err != nil {
			http.Error(w, "Failed to generate ID", http.StatusInternalServerError)
			return
		}
		flashcards = append(flashcards, models.Flashcard{
			PublicID:   publicID,
			Question:   d.Question,
			Answer:     d.Answer,
			Difficulty: d.Difficulty,
			DocumentID: doc.ID,
		})
	}

	tx := db.Begin()
	if tx.Error != nil {
		http.Error(w, "Could not begin transaction", http.StatusInternalServerError)
		return
	}
	for i := range flashcards {
		if err := tx.Create(&flashcards[i]).Error; err != nil {
			tx.Rollback()
			log.Printf("GenerateFlashcards: insert failed: %v", err)
			http.Error(w, "Failed to save flashcards", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Could not commit transaction", http.StatusInternalServerError)
		return
	}

	log.Printf("GenerateFlashcards: created %d flashcards for document %s", len(flashcards), doc.PublicID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(flashcards)
}

// GetFlashcardsForDocument lists the flashcards generated from a document.
func (db *DBHandler) GetFlashcardsForDocument(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}

	var flashcards []models.Flashcard
	if err := db.Where("document_id = ?", doc.ID).Order("created_at asc").Find(&flashcards).Error; err != nil {
		log.Printf("GetFlashcardsForDocument: query failed: %v", err)
		http.Error(w, "Failed to fetch flashcards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flashcards)
}

// ReviewFlashcard applies one self-reported review to a flashcard: mastery
// moves one step and LastReviewed is stamped. The write is retried once
// before the failure is reported.
func (db *DBHandler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var card models.Flashcard
	if err := db.Where("public_id = ?", r.PathValue("flashcardID")).First(&card).Error; err != nil {
		http.Error(w, "Flashcard not found", http.StatusNotFound)
		return
	}

	// Cards outlive their document, so ownership is resolved through the
	// origin document even after it has been soft-deleted.
	var doc models.Document
	if err := db.Unscoped().Where("id = ?", card.DocumentID).First(&doc).Error; err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if doc.UserID != user.ID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Correct bool `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	study.ApplyReview(&card, req.Correct, time.Now())

	save := func() error {
		return db.Model(&card).Updates(map[string]interface{}{
			"mastery_level": card.MasteryLevel,
			"last_reviewed": card.LastReviewed,
		}).Error
	}
	if err := save(); err != nil {
		log.Printf("ReviewFlashcard: save failed for %s, retrying once: %v", card.PublicID, err)
		if err := save(); err != nil {
			log.Printf("ReviewFlashcard: retry failed for %s: %v", card.PublicID, err)
			http.Error(w, "Failed to save review", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}
