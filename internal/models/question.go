package models

import (
	"log/slog"
	"strings"

	"github.com/learnzy/learnzy/internal/errors"
)

// Difficulty controls both question generation and the points awarded for correct answers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.NewSentinel("unknown difficulty")

// ParseDifficulty validates a user-provided difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(s)) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", errors.Wrap(ErrUnknownDifficulty, "parse difficulty", slog.String("difficulty", s))
	}
}

// Question is a single quiz item. Options is a display set: order is preserved for
// rendering but answer matching is case-insensitive string equality, not positional.
type Question struct {
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Tag           string   `json:"tag"`
}

// Matches reports whether the selected answer is correct.
func (q Question) Matches(selected string) bool {
	return strings.EqualFold(selected, q.CorrectAnswer)
}

const minOptions = 2

var (
	ErrMissingAnswer     = errors.NewSentinel("question has no correct answer")
	ErrMissingOptions    = errors.NewSentinel("question needs at least two options")
	ErrAnswerNotInOption = errors.NewSentinel("options do not contain the correct answer")
)

// Validate checks that the question is well-formed per the generation contract.
func (q Question) Validate() error {
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return errors.Wrap(ErrMissingAnswer, "validate question", slog.String("question", q.Text))
	}
	if len(q.Options) < minOptions {
		return errors.Wrap(ErrMissingOptions, "validate question", slog.String("question", q.Text))
	}
	for _, option := range q.Options {
		if strings.EqualFold(option, q.CorrectAnswer) {
			return nil
		}
	}
	return errors.Wrap(ErrAnswerNotInOption, "validate question",
		slog.String("question", q.Text), slog.String("answer", q.CorrectAnswer))
}

// QuestionSet is the immutable ordered batch of questions for one session.
type QuestionSet []Question

// Validate checks every question in the set.
func (qs QuestionSet) Validate() error {
	for i, q := range qs {
		if err := q.Validate(); err != nil {
			return errors.Wrap(err, "validate question set", slog.Int("index", i))
		}
	}
	return nil
}
