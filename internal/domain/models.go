package domain

import "time"

// Difficulty tags questions for filtering. The catalog only ever contains
// the three values below.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty tags.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice trivia question. Immutable once the
// catalog is loaded; CorrectIndex and Explanation must never be exposed
// before the user has submitted answers.
type Question struct {
	ID           int        `json:"id"`
	Question     string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	SourceURL    string     `json:"sourceUrl"`
	SourceCast   string     `json:"sourceCast"`
	Explanation  string     `json:"explanation"`
	Difficulty   Difficulty `json:"difficulty"`
	Category     string     `json:"category"`
}

// View strips the answer key from a question for pre-submission delivery.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:         q.ID,
		Question:   q.Question,
		Options:    q.Options,
		Difficulty: q.Difficulty,
		Category:   q.Category,
	}
}

// QuestionView is the sanitized shape served to clients before submission.
type QuestionView struct {
	ID         int        `json:"id"`
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
}

// Catalog is the weekly question document. Loaded once per TTL window and
// treated as read-only afterwards.
type Catalog struct {
	LastUpdated    time.Time  `json:"lastUpdated"`
	WeekNumber     uint64     `json:"weekNumber"`
	TotalQuestions int        `json:"totalQuestions"`
	Questions      []Question `json:"questions"`
}

// FindQuestion looks a question up by ID.
func (c Catalog) FindQuestion(id int) (Question, bool) {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return c.Questions[i], true
		}
	}
	return Question{}, false
}

// AnswerSubmission is one submitted answer: which question, which option.
type AnswerSubmission struct {
	QuestionID    int `json:"questionId"`
	SelectedIndex int `json:"selectedIndex"`
}

// AnswerResult is the post-submission feedback for a single question.
// CorrectIndex is -1 when the submitted question ID is unknown.
type AnswerResult struct {
	QuestionID   int    `json:"questionId"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	SourceURL    string `json:"sourceUrl,omitempty"`
}

// GradingResult aggregates per-question feedback with the overall score.
type GradingResult struct {
	Score          int
	TotalQuestions int
	IsPerfectScore bool
	Results        []AnswerResult
}

// MintOutcome is the advisory minting half of a submission response. A
// failed or skipped authorization never fails the enclosing request; it is
// reported through this value instead.
type MintOutcome struct {
	CanMint   bool
	Signature string
	Err       string
}

// IssuanceRecord is a best-effort audit entry for an issued mint signature.
// It never gates re-issuance; claim uniqueness is enforced by the contract.
type IssuanceRecord struct {
	Address  string
	Week     uint64
	IssuedAt time.Time
}
