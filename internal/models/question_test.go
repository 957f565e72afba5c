package models_test

import (
	"testing"

	"github.com/learnzy/learnzy/internal/models"
	"github.com/stretchr/testify/require"
)

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name     string
		question models.Question
		wantErr  error
	}{
		{
			name: "well-formed",
			question: models.Question{
				Text:          "How many legs does a spider have?",
				CorrectAnswer: "Eight",
				Options:       []string{"Six", "Eight", "Ten", "Twelve"},
				Tag:           "Biology",
			},
			wantErr: nil,
		},
		{
			name: "answer matching is case-insensitive",
			question: models.Question{
				Text:          "What planet is known as the red planet?",
				CorrectAnswer: "mars",
				Options:       []string{"Mars", "Venus"},
				Tag:           "Earth Science",
			},
			wantErr: nil,
		},
		{
			name: "missing answer",
			question: models.Question{
				Text:    "What is water made of?",
				Options: []string{"H2O", "CO2"},
				Tag:     "Chemistry",
			},
			wantErr: models.ErrMissingAnswer,
		},
		{
			name: "too few options",
			question: models.Question{
				Text:          "What is 2 + 2?",
				CorrectAnswer: "4",
				Options:       []string{"4"},
				Tag:           "Arithmetic",
			},
			wantErr: models.ErrMissingOptions,
		},
		{
			name: "answer not among options",
			question: models.Question{
				Text:          "Which gas do plants breathe in?",
				CorrectAnswer: "Carbon dioxide",
				Options:       []string{"Oxygen", "Nitrogen"},
				Tag:           "Biology",
			},
			wantErr: models.ErrAnswerNotInOption,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.question.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQuestion_Matches(t *testing.T) {
	question := models.Question{
		Text:          "What force pulls objects to the ground?",
		CorrectAnswer: "Gravity",
		Options:       []string{"Gravity", "Magnetism"},
		Tag:           "Physics",
	}
	require.True(t, question.Matches("Gravity"))
	require.True(t, question.Matches("gRaViTy"))
	require.False(t, question.Matches("Magnetism"))
	require.False(t, question.Matches(""))
}

func TestParseDifficulty(t *testing.T) {
	difficulty, err := models.ParseDifficulty("Medium")
	require.NoError(t, err)
	require.Equal(t, models.DifficultyMedium, difficulty)

	_, err = models.ParseDifficulty("legendary")
	require.ErrorIs(t, err, models.ErrUnknownDifficulty)
}

func TestParseCategory(t *testing.T) {
	category, err := models.ParseCategory("SCIENCE")
	require.NoError(t, err)
	require.Equal(t, models.CategoryScience, category)

	_, err = models.ParseCategory("alchemy")
	require.ErrorIs(t, err, models.ErrUnknownCategory)
}

func TestTopicSuggestions(t *testing.T) {
	require.Empty(t, models.TopicSuggestions(models.CategoryScience, ""))
	require.Equal(t, []string{"Chemistry"}, models.TopicSuggestions(models.CategoryScience, "chem"))
	require.Equal(t, []string{"Robotics"}, models.TopicSuggestions(models.CategoryTechnology, "ROBO"))
	require.Empty(t, models.TopicSuggestions(models.CategoryMath, "chemistry"))
}
