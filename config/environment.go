package config

import "os"

type Environment struct {
	IsDevelopment bool
	Port          string
	AIBaseURL     string
	AIAPIKey      string
	AIModel       string
}

var Env Environment

// LoadEnv reads the service configuration from the environment. Called
// after godotenv has had a chance to populate it.
func LoadEnv() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}

	Env = Environment{
		IsDevelopment: os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "",
		Port:          port,
		AIBaseURL:     os.Getenv("AI_BASE_URL"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		AIModel:       os.Getenv("AI_MODEL"),
	}
}
