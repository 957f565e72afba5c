package quest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/learnzy/learnzy/internal/ai"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/models"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "quest",
	Title: "Learning quest commands",
}

var (
	categoryFlag   string
	difficultyFlag string
	topicFlag      string
)

// Generate asks the model for a question set and prints it as JSON. Handy for
// reviewing generated content before children see it.
var Generate = &cobra.Command{
	Use:     "generate",
	Short:   "Generate a question set for review",
	GroupID: Group.ID,
	RunE: func(cmd *cobra.Command, _ []string) error {
		category, err := models.ParseCategory(categoryFlag)
		if err != nil {
			return errors.Wrap(err, "parse category flag")
		}
		difficulty, err := models.ParseDifficulty(difficultyFlag)
		if err != nil {
			return errors.Wrap(err, "parse difficulty flag")
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := ai.NewClient(os.Getenv("OPENAI_API_KEY"), logger)

		questions, err := client.GenerateQuestionSet(cmd.Context(), category, difficulty, topicFlag)
		if err != nil {
			return errors.Wrap(err, "generate question set")
		}

		out, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal question set")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	Generate.Flags().StringVar(&categoryFlag, "category", "science", "learning category (science, technology, engineering, math)")
	Generate.Flags().StringVar(&difficultyFlag, "difficulty", "easy", "difficulty level (easy, medium, hard)")
	Generate.Flags().StringVar(&topicFlag, "topic", "", "optional learning topic, e.g. Robotics")
}
