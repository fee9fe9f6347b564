package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/studydeck/studydeck-api/models"
)

// Validation failures for generation responses. Empty and malformed
// payloads are terminal for the request; there is no partial success.
var (
	ErrNoFlashcards   = errors.New("no flashcards generated")
	ErrNoQuestions    = errors.New("no quiz questions generated")
	ErrInvalidFormat  = errors.New("invalid response format")
	ErrEmptyChatReply = errors.New("empty chat response")
)

// Config holds the AI endpoint configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 60 * time.Second,
	}
}

// Client talks to an OpenAI-compatible chat-completions endpoint for both
// content generation and document chat.
type Client struct {
	client *openai.Client
	config *Config
}

// NewClient creates a client from the given configuration. A missing API
// key is a configuration error surfaced before any network call.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, errors.New("AI API key is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

const flashcardPrompt = `You are a study assistant. Based on the document below, create exactly %d flashcards.
Respond with a JSON array only, no prose. Each element must have the keys
"question", "answer" and "difficulty" (one of "easy", "medium", "hard").

Document title: %s

Document:
%s`

// GenerateFlashcards asks the model for count flashcards covering the
// document content.
func (c *Client) GenerateFlashcards(ctx context.Context, documentContent, documentTitle string, count int) ([]FlashcardDraft, error) {
	prompt := fmt.Sprintf(flashcardPrompt, count, documentTitle, documentContent)
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var drafts []FlashcardDraft
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &drafts); err != nil {
		return nil, ErrInvalidFormat
	}
	if len(drafts) == 0 {
		return nil, ErrNoFlashcards
	}
	for i := range drafts {
		if drafts[i].Question == "" || drafts[i].Answer == "" {
			return nil, ErrInvalidFormat
		}
		switch drafts[i].Difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			drafts[i].Difficulty = models.DifficultyMedium
		}
	}
	return drafts, nil
}

const quizPrompt = `You are a study assistant. Based on the document below, create a quiz with exactly %d multiple-choice questions.
Respond with a JSON object only, no prose, with the keys "title" and
"questions". Each question must have "question", "options" (an array of 4
strings), "correct_answer" (the index of the right option) and an optional
"explanation".

Document title: %s

Document:
%s`

// GenerateQuiz asks the model for a quiz over the document content and
// validates the structure of every question.
func (c *Client) GenerateQuiz(ctx context.Context, documentContent, documentTitle string, questionCount int) (*QuizDraft, error) {
	prompt := fmt.Sprintf(quizPrompt, questionCount, documentTitle, documentContent)
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var draft QuizDraft
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &draft); err != nil {
		return nil, ErrInvalidFormat
	}
	if len(draft.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	for _, q := range draft.Questions {
		if q.Question == "" || len(q.Options) < 2 {
			return nil, ErrInvalidFormat
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, ErrInvalidFormat
		}
	}
	if draft.Title == "" {
		draft.Title = documentTitle + " Quiz"
	}
	return &draft, nil
}

const chatSystemPrompt = `You are a helpful study assistant. Answer the user's questions using the document below.
If the answer is not in the document, say so instead of guessing.

Document:
%s`

// Chat sends one conversational turn, carrying at most the last
// HistoryLimit messages of history. Any transport or payload error is
// terminal for the turn; the caller decides what to show the user.
func (c *Client) Chat(ctx context.Context, message, documentContent string, history []Message) (string, error) {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(chatSystemPrompt, documentContent)},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyChatReply
	}
	return resp.Choices[0].Message.Content, nil
}

// complete runs a single-prompt completion and returns the raw content of
// the first choice.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrInvalidFormat
	}
	return resp.Choices[0].Message.Content, nil
}

// stripCodeFences removes a surrounding markdown code fence, which models
// often add around JSON despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
