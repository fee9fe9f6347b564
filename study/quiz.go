package study

import (
	"errors"
	"math"
	"time"

	"github.com/studydeck/studydeck-api/models"
)

// AttemptState is the phase an Attempt is in for its current question.
type AttemptState int

const (
	// StateAnswering means the current question is shown and awaiting a
	// selected option.
	StateAnswering AttemptState = iota
	// StateRevealed means the current question has been answered and its
	// outcome recorded.
	StateRevealed
	// StateFinished means every question has been answered and advanced past.
	StateFinished
)

var (
	ErrNoQuestions   = errors.New("quiz has no questions")
	ErrNotAnswering  = errors.New("attempt is not awaiting an answer")
	ErrNotRevealed   = errors.New("current question has not been answered")
	ErrInvalidOption = errors.New("selected option is out of range")
)

// Attempt walks one pass through a quiz: Answering(i) -> Revealed(i) ->
// Answering(i+1) ... -> Finished. Outcomes are recorded in question order
// against the quiz's authoritative answer indices; the quiz itself is
// never mutated. There is no path to Finished without answering every
// question, so the score denominator is never zero.
type Attempt struct {
	answers     []int
	optionCount []int

	index     int
	state     AttemptState
	outcomes  []bool
	startedAt time.Time
}

// NewAttempt starts an attempt on the first question of the quiz.
// StartedAt is the moment the user entered the quiz; a retake is simply a
// new Attempt with a fresh start time.
func NewAttempt(quiz *models.Quiz, startedAt time.Time) (*Attempt, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	a := &Attempt{
		answers:     make([]int, len(quiz.Questions)),
		optionCount: make([]int, len(quiz.Questions)),
		outcomes:    make([]bool, 0, len(quiz.Questions)),
		state:       StateAnswering,
		startedAt:   startedAt,
	}
	for i, q := range quiz.Questions {
		a.answers[i] = q.CorrectAnswer
		a.optionCount[i] = len(q.Options)
	}
	return a, nil
}

// Answer records the selected option for the current question and reveals
// the outcome. Returns whether the selection was correct.
func (a *Attempt) Answer(selected int) (bool, error) {
	if a.state != StateAnswering {
		return false, ErrNotAnswering
	}
	if selected < 0 || selected >= a.optionCount[a.index] {
		return false, ErrInvalidOption
	}
	correct := selected == a.answers[a.index]
	a.outcomes = append(a.outcomes, correct)
	a.state = StateRevealed
	return correct, nil
}

// Advance moves past a revealed question, either to the next question or,
// after the last one, to Finished.
func (a *Attempt) Advance() error {
	if a.state != StateRevealed {
		return ErrNotRevealed
	}
	if a.index+1 < len(a.answers) {
		a.index++
		a.state = StateAnswering
	} else {
		a.state = StateFinished
	}
	return nil
}

// Index returns the current question index.
func (a *Attempt) Index() int { return a.index }

// State returns the attempt's current phase.
func (a *Attempt) State() AttemptState { return a.state }

// Finished reports whether every question has been answered and advanced past.
func (a *Attempt) Finished() bool { return a.state == StateFinished }

// Outcomes returns the per-question correctness vector in question order.
func (a *Attempt) Outcomes() []bool { return a.outcomes }

// StartedAt returns the attempt's start time.
func (a *Attempt) StartedAt() time.Time { return a.startedAt }

// Score returns the rounded percentage of correct outcomes.
func (a *Attempt) Score() int {
	correct := 0
	for _, ok := range a.outcomes {
		if ok {
			correct++
		}
	}
	return int(math.Round(float64(correct) * 100 / float64(len(a.outcomes))))
}

// ScoreMessage maps a 0-100 score to the encouragement tier shown on the
// results screen.
func ScoreMessage(score int) string {
	switch {
	case score >= 90:
		return "Outstanding!"
	case score >= 70:
		return "Great job!"
	case score >= 50:
		return "Good effort!"
	default:
		return "Keep studying!"
	}
}
