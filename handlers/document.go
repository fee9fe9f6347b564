package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/studydeck/studydeck-api/extract"
	"github.com/studydeck/studydeck-api/models"
)

// maxUploadBytes caps document uploads at 10 MB.
const maxUploadBytes = 10 << 20

// CreateDocument handles a multipart upload of a study document. The file
// text is extracted once at upload time; documents are immutable afterwards.
func (db *DBHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Printf("CreateDocument: invalid multipart form: %v", err)
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("CreateDocument: failed to read upload: %v", err)
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	content, fileType, err := extract.FromUpload(header.Filename, data)
	if err != nil {
		log.Printf("CreateDocument: extraction failed for %s: %v", header.Filename, err)
		http.Error(w, "Could not extract text from file", http.StatusBadRequest)
		return
	}
	if content == "" {
		http.Error(w, "No text could be extracted from the file", http.StatusBadRequest)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		log.Printf("CreateDocument: failed to generate publicID: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	doc := models.Document{
		PublicID: publicID,
		Title:    title,
		Content:  content,
		FileType: fileType,
		UserID:   user.ID,
	}

	if err := db.Create(&doc).Error; err != nil {
		log.Printf("CreateDocument: failed to create document: %v", err)
		http.Error(w, "Failed to create document", http.StatusInternalServerError)
		return
	}

	log.Printf("CreateDocument: created document %s for userID=%d", publicID, user.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

// GetDocuments returns the requester's documents, newest first.
func (db *DBHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var docs []models.Document
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&docs).Error; err != nil {
		log.Printf("GetDocuments: query failed: %v", err)
		http.Error(w, "Failed to fetch documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

func (db *DBHandler) GetDocumentByID(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// DeleteDocumentByID removes a document. Flashcards and quizzes generated
// from it keep their origin reference and survive the delete.
func (db *DBHandler) DeleteDocumentByID(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := db.ownedDocument(r, r.PathValue("documentID"))
	if doc == nil {
		http.Error(w, msg, status)
		return
	}

	if err := db.Delete(doc).Error; err != nil {
		log.Printf("DeleteDocumentByID: delete failed for %s: %v", doc.PublicID, err)
		http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		return
	}

	log.Printf("DeleteDocumentByID: deleted document %s", doc.PublicID)
	w.WriteHeader(http.StatusNoContent)
}
