package models

// SessionSnapshot is the persisted point-in-time state of a quiz session.
// It survives reloads so that an unfinished quest can be resumed on the same device.
//
// Invariants: 0 <= CurrentIndex <= len(Questions), Score >= 0 and monotonically
// non-decreasing, 0 <= Lives <= the starting lives of the session.
type SessionSnapshot struct {
	Questions    QuestionSet `json:"questions"`
	CurrentIndex int         `json:"currentIndex"`
	Score        int         `json:"score"`
	Lives        int         `json:"lives"`
	Completed    bool        `json:"completed"`
}

// CurrentQuestion returns the question at the session cursor.
func (s SessionSnapshot) CurrentQuestion() (Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}
