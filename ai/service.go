package ai

import "context"

// HistoryLimit caps how many prior messages are sent with a chat request.
const HistoryLimit = 6

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FlashcardDraft is a generated flashcard before it is persisted.
type FlashcardDraft struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

// QuizDraft is a generated quiz before it is persisted.
type QuizDraft struct {
	Title     string          `json:"title"`
	Questions []QuestionDraft `json:"questions"`
}

// QuestionDraft is one generated multiple-choice question. CorrectAnswer
// indexes into Options.
type QuestionDraft struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Service is the boundary to the external generation and conversational
// endpoints. Implementations must validate responses before returning
// them: an empty or malformed payload is a failure, never partial success.
type Service interface {
	GenerateFlashcards(ctx context.Context, documentContent, documentTitle string, count int) ([]FlashcardDraft, error)
	GenerateQuiz(ctx context.Context, documentContent, documentTitle string, questionCount int) (*QuizDraft, error)
	Chat(ctx context.Context, message, documentContent string, history []Message) (string, error)
}
