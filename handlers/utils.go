package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/studydeck/studydeck-api/ai"
	"github.com/studydeck/studydeck-api/middleware"
	"github.com/studydeck/studydeck-api/models"
)

// DBHandler carries the database plus the AI service used by the
// generation and chat routes.
type DBHandler struct {
	*gorm.DB
	AI ai.Service
}

// userFrom returns the user attached by SyncUserMiddleware.
func userFrom(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
	return user, ok
}

// ownedDocument loads a document by public ID and verifies the requester
// owns it.
func (db *DBHandler) ownedDocument(r *http.Request, publicID string) (*models.Document, int, string) {
	var doc models.Document
	if err := db.Where("public_id = ?", publicID).First(&doc).Error; err != nil {
		return nil, http.StatusNotFound, "Document not found"
	}

	user, ok := userFrom(r)
	if !ok {
		return nil, http.StatusUnauthorized, "Unauthorized"
	}
	if doc.UserID != user.ID {
		return nil, http.StatusForbidden, "Forbidden"
	}
	return &doc, 0, ""
}
