package models

import (
	"log/slog"
	"strings"

	"github.com/learnzy/learnzy/internal/errors"
)

// Category is one of the four STEM learning categories.
type Category string

const (
	CategoryScience     Category = "science"
	CategoryTechnology  Category = "technology"
	CategoryEngineering Category = "engineering"
	CategoryMath        Category = "math"
)

var ErrUnknownCategory = errors.NewSentinel("unknown category")

// ParseCategory validates a user-provided category string.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(s)) {
	case CategoryScience:
		return CategoryScience, nil
	case CategoryTechnology:
		return CategoryTechnology, nil
	case CategoryEngineering:
		return CategoryEngineering, nil
	case CategoryMath:
		return CategoryMath, nil
	default:
		return "", errors.Wrap(ErrUnknownCategory, "parse category", slog.String("category", s))
	}
}

// Catalog maps each category to its suggested learning topics.
var Catalog = map[Category][]string{
	CategoryScience:     {"Biology", "Chemistry", "Physics", "Earth Science"},
	CategoryTechnology:  {"Computers", "Robotics", "Coding", "Internet"},
	CategoryEngineering: {"Mechanical", "Electrical", "Civil", "Aerospace"},
	CategoryMath:        {"Algebra", "Geometry", "Arithmetic", "Statistics"},
}

// TopicSuggestions filters the category's topics by a case-insensitive substring match.
// An empty filter returns no suggestions, matching the quest setup form behaviour.
func TopicSuggestions(category Category, filter string) []string {
	if filter == "" {
		return nil
	}
	var suggestions []string
	for _, topic := range Catalog[category] {
		if strings.Contains(strings.ToLower(topic), strings.ToLower(filter)) {
			suggestions = append(suggestions, topic)
		}
	}
	return suggestions
}
