package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/models"
	"github.com/sashabaranov/go-openai"
)

const (
	// QuestionCount is the size of every generated question set.
	QuestionCount = 5
	maxTokens     = 1500
)

// ErrGenerationFormat means the upstream payload did not parse into a valid
// question set. The caller surfaces it as a retryable error and no session starts.
var ErrGenerationFormat = errors.NewSentinel("generated payload is not a valid question set")

// completionClient is the slice of the OpenAI client we use, extracted so tests
// can inject canned completions.
type completionClient interface {
	CreateChatCompletion(
		ctx context.Context,
		request openai.ChatCompletionRequest,
	) (openai.ChatCompletionResponse, error)
}

type Client struct {
	client completionClient
	logger *slog.Logger
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		logger: logger.With("source", "ai.Client"),
	}
}

// generatedQuestion is the upstream wire format for one question.
type generatedQuestion struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
	Tag      string   `json:"tag"`
}

func generationPrompt(category models.Category, difficulty models.Difficulty, topic string) string {
	if strings.TrimSpace(topic) == "" {
		topic = string(category)
	}
	return fmt.Sprintf(`Generate %d fun and educational STEM questions for children on the topic of %s with a difficulty level of %s.
The questions should be engaging, promote critical thinking, and include concepts from science, technology, engineering, or mathematics.
Respond with only a JSON array formatted as follows:
[
  {
    "question": "<question_text>",
    "answer": "<correct_answer>",
    "options": ["<option1>", "<option2>", "<option3>", "<option4>"],
    "tag": "<tag>"
  },
  ...
]`, QuestionCount, topic, difficulty)
}

// GenerateQuestionSet asks the model for a batch of questions and validates the
// payload before anyone builds a session on top of it.
func (c *Client) GenerateQuestionSet(
	ctx context.Context,
	category models.Category,
	difficulty models.Difficulty,
	topic string,
) (models.QuestionSet, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     openai.GPT3Dot5Turbo1106,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: generationPrompt(category, difficulty, topic),
				},
			},
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.Wrap(ErrGenerationFormat, "completion has no choices")
	}

	questions, err := parseQuestionSet(completion.Choices[0].Message.Content)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "rejected generated payload", errors.SlogError(err))
		return nil, err
	}
	return questions, nil
}

// parseQuestionSet converts the raw completion text into a validated question set.
func parseQuestionSet(raw string) (models.QuestionSet, error) {
	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &generated); err != nil {
		return nil, errors.Wrap(ErrGenerationFormat, "unmarshal questions")
	}
	if len(generated) != QuestionCount {
		return nil, errors.Wrap(ErrGenerationFormat, "unexpected question count",
			slog.Int("want", QuestionCount), slog.Int("got", len(generated)))
	}

	questions := make(models.QuestionSet, 0, len(generated))
	for _, g := range generated {
		questions = append(questions, models.Question{
			Text:          g.Question,
			CorrectAnswer: g.Answer,
			Options:       g.Options,
			Tag:           g.Tag,
		})
	}
	if err := questions.Validate(); err != nil {
		return nil, errors.Wrap(errors.Join(ErrGenerationFormat, err), "validate questions")
	}
	return questions, nil
}

// stripCodeFence removes a markdown code fence the model sometimes wraps around
// its JSON output.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
