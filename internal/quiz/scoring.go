package quiz

import "github.com/learnzy/learnzy/internal/models"

const basePoints = 100

// PointsFor returns the points awarded for a correct answer at the given difficulty.
// The policy is pure: 100 times a difficulty multiplier of 1, 2 or 3.
func PointsFor(difficulty models.Difficulty) int {
	switch difficulty {
	case models.DifficultyMedium:
		return 2 * basePoints
	case models.DifficultyHard:
		return 3 * basePoints
	case models.DifficultyEasy:
		return basePoints
	default:
		return basePoints
	}
}
