package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/studydeck/studydeck-api/ai"
	"github.com/studydeck/studydeck-api/config"
	"github.com/studydeck/studydeck-api/handlers"
	"github.com/studydeck/studydeck-api/middleware"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	config.LoadEnv()

	// Initialize database connection
	config.Connect()
	authMiddleware := middleware.EnsureValidToken()

	aiClient, err := ai.NewClient(&ai.Config{
		BaseURL: config.Env.AIBaseURL,
		APIKey:  config.Env.AIAPIKey,
		Model:   config.Env.AIModel,
	})
	if err != nil {
		log.Fatalf("Failed to configure AI client: %v", err)
	}

	h := &handlers.DBHandler{DB: config.Database, AI: aiClient}
	mux := http.NewServeMux()

	// Documents
	mux.HandleFunc("POST /api/documents", middleware.SyncUserMiddleware(h.CreateDocument))
	mux.HandleFunc("GET /api/documents", middleware.SyncUserMiddleware(h.GetDocuments))
	mux.HandleFunc("GET /api/documents/{documentID}", middleware.SyncUserMiddleware(h.GetDocumentByID))
	mux.HandleFunc("DELETE /api/documents/{documentID}", middleware.SyncUserMiddleware(h.DeleteDocumentByID))

	// Flashcards
	mux.HandleFunc("POST /api/documents/{documentID}/flashcards/generate", middleware.SyncUserMiddleware(h.GenerateFlashcards))
	mux.HandleFunc("GET /api/documents/{documentID}/flashcards", middleware.SyncUserMiddleware(h.GetFlashcardsForDocument))
	mux.HandleFunc("POST /api/flashcards/{flashcardID}/review", middleware.SyncUserMiddleware(h.ReviewFlashcard))

	// Quizzes
	mux.HandleFunc("POST /api/documents/{documentID}/quizzes/generate", middleware.SyncUserMiddleware(h.GenerateQuiz))
	mux.HandleFunc("GET /api/documents/{documentID}/quizzes", middleware.SyncUserMiddleware(h.GetQuizzesForDocument))
	mux.HandleFunc("GET /api/quizzes/{quizID}", h.GetQuizByID)
	mux.HandleFunc("POST /api/quizzes/{quizID}/attempts", middleware.SyncUserMiddleware(h.SubmitQuizAttempt))

	// Chat
	mux.HandleFunc("POST /api/documents/{documentID}/chat", middleware.SyncUserMiddleware(h.Chat))

	// Sessions and stats
	mux.HandleFunc("POST /api/study-sessions/flashcards", middleware.SyncUserMiddleware(h.FinishFlashcardSession))
	mux.HandleFunc("GET /api/study-sessions", middleware.SyncUserMiddleware(h.GetSessions))
	mux.HandleFunc("GET /api/stats", middleware.SyncUserMiddleware(h.GetStats))

	// Users
	mux.HandleFunc("GET /api/me", middleware.SyncUserMiddleware(h.GetMe))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://studydeck.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	// Server configuration

	serverAddr := "0.0.0.0:" + config.Env.Port

	http.ListenAndServe(serverAddr, corsHandler)
}
