package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/studydeck/studydeck-api/ai"
	"github.com/studydeck/studydeck-api/study"
)

// Chat sends one conversational turn about a document to the AI service.
// Each reply is logged as one completed one-minute chat session; a failed
// session write does not fail the turn, since the reply itself succeeded.
func (db *DBHandler) Chat(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}
	user, _ := userFrom(r)

	var req struct {
		Message string       `json:"message"`
		History []ai.Message `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	reply, err := db.AI.Chat(r.Context(), req.Message, doc.Content, req.History)
	if err != nil {
		log.Printf("Chat: AI request failed for document %s: %v", doc.PublicID, err)
		http.Error(w, "Chat request failed", http.StatusBadGateway)
		return
	}

	session := study.ChatSession(user.ID, doc.PublicID)
	sessionRecorded := db.recordSession(&session)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"response":         reply,
		"session_recorded": sessionRecorded,
	})
}
