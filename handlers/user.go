package handlers

import (
	"encoding/json"
	"net/http"
)

// GetMe returns the synced user for the presented token.
func (db *DBHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
