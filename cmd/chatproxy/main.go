// chatproxy is a small standalone server that forwards chat requests to a
// generative-language REST API. It exists so the web client never sees the
// upstream API key, which is read from the environment and nowhere else.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/studydeck/studydeck-api/ai"
	"github.com/studydeck/studydeck-api/auth"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel    = "gemini-1.5-flash"
	requestTimeout  = 60 * time.Second
)

const systemPrompt = `You are a helpful study assistant. Answer the user's questions using the provided document.
If the answer is not in the document, say so instead of guessing. Be concise.`

type chatRequest struct {
	Message             string       `json:"message"`
	DocumentContent     string       `json:"documentContent"`
	ConversationHistory []ai.Message `json:"conversationHistory"`
}

type chatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Request/response shapes of the generateContent endpoint.
type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

type proxy struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

func (p *proxy) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Message is required"})
		return
	}

	history := req.ConversationHistory
	if len(history) > ai.HistoryLimit {
		history = history[len(history)-ai.HistoryLimit:]
	}

	upstream := generateRequest{
		SystemInstruction: &generateContent{
			Parts: []generatePart{{Text: systemPrompt + "\n\nDocument:\n" + req.DocumentContent}},
		},
	}
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		upstream.Contents = append(upstream.Contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: m.Content}},
		})
	}
	upstream.Contents = append(upstream.Contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: req.Message}},
	})

	body, err := json.Marshal(upstream)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, chatResponse{Error: "Failed to build upstream request"})
		return
	}

	url := fmt.Sprintf("%s/%s:generateContent", p.endpoint, p.model)
	httpReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, chatResponse{Error: "Failed to build upstream request"})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		log.Printf("chatproxy: upstream request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: "Upstream request failed"})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: "Failed to read upstream response"})
		return
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("chatproxy: upstream returned status %d: %s", resp.StatusCode, respBody)
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: fmt.Sprintf("Upstream returned status %d", resp.StatusCode)})
		return
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: "Invalid upstream response"})
		return
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: "Empty upstream response"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: gen.Candidates[0].Content.Parts[0].Text})
}

func writeJSON(w http.ResponseWriter, status int, body chatResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func init() {
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("chatproxy: GEMINI_API_KEY environment variable is required")
	}

	endpoint := os.Getenv("GEMINI_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	p := &proxy{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
	}

	mux := http.NewServeMux()
	handler := p.handleChat
	// Token check is optional so the proxy still works for local development.
	if os.Getenv("PROXY_JWT_SECRET") != "" {
		handler = auth.BearerMiddleware(p.handleChat)
	}
	mux.HandleFunc("POST /chat", handler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(mux)

	port := os.Getenv("PROXY_PORT")
	if port == "" {
		port = "8090"
	}

	log.Printf("chatproxy: listening on port %s (model %s)", port, model)
	if err := http.ListenAndServe("0.0.0.0:"+port, corsHandler); err != nil {
		log.Fatalf("chatproxy: server failed: %v", err)
	}
}
