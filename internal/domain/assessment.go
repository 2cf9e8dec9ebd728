package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// QuestionType distinguishes single-choice from free-response questions.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "mcq"
	QuestionFreeResponse QuestionType = "subjective"
)

// AssessmentStatus is the lifecycle state of an assessment.
type AssessmentStatus string

const (
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
)

// Difficulty levels offered when creating an assessment.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Options is the ordered list of choices for a single-choice question.
// The API may send either a JSON array or an object keyed by option letter.
type Options []string

// UnmarshalJSON accepts ["..", ".."] as well as {"A": "..", "B": ".."}.
func (o *Options) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*o = list
		return nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(data, &keyed); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, keyed[k])
	}
	*o = out
	return nil
}

// Contains reports whether choice is one of the options.
func (o Options) Contains(choice string) bool {
	for _, opt := range o {
		if opt == choice {
			return true
		}
	}
	return false
}

// Question is one item of an assessment.
type Question struct {
	ID         string       `json:"id"`
	Type       QuestionType `json:"type"`
	Subject    string       `json:"subject"`
	Topic      string       `json:"topic"`
	Difficulty string       `json:"difficulty,omitempty"`
	Text       string       `json:"question_text"`
	Options    Options      `json:"options,omitempty"`
	MaxMarks   int          `json:"max_marks"`
}

// Response is the user's recorded answer to a question.
type Response struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"user_answer"`
	ImageRef   string `json:"image_url,omitempty"`
}

// Assessment is a generated test with its questions.
type Assessment struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id,omitempty"`
	Subject         string           `json:"subject"`
	Topic           string           `json:"topic"`
	DifficultyLevel string           `json:"difficulty_level"`
	Status          AssessmentStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	TotalScore      *float64         `json:"total_score,omitempty"`
	Questions       []Question       `json:"questions"`
}

// Completed reports whether the assessment has been submitted.
func (a *Assessment) Completed() bool {
	return a.Status == StatusCompleted
}

// NewAssessment is the request body for generating an assessment.
type NewAssessment struct {
	Subject         string `json:"subject"`
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficulty_level"`
}

// SubmitResult is returned after submitting responses.
type SubmitResult struct {
	Message      string `json:"message"`
	AssessmentID string `json:"assessment_id"`
}
