package domain

import "time"

// SubjectProgress is the per-subject slice of a progress report.
type SubjectProgress struct {
	Subject     string  `json:"subject"`
	Current     float64 `json:"current"`
	Previous    float64 `json:"previous"`
	Tests       int     `json:"tests"`
	Improvement float64 `json:"improvement"`
}

// Progress is a user's aggregate progress.
type Progress struct {
	UserID           string            `json:"user_id"`
	CurrentScore     float64           `json:"current_score"`
	PreviousScore    float64           `json:"previous_score"`
	Improvement      float64           `json:"improvement"`
	TotalAssessments int               `json:"total_assessments"`
	StudyStreak      int               `json:"study_streak"`
	SubjectProgress  []SubjectProgress `json:"subject_progress"`
}

// Attempt is one dated score in a comparison.
type Attempt struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// Comparison contrasts the first and latest attempt on a subject/topic.
// When fewer than two attempts exist only Message and Assessments are set.
type Comparison struct {
	Subject       string   `json:"subject,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	FirstAttempt  *Attempt `json:"first_attempt,omitempty"`
	LatestAttempt *Attempt `json:"latest_attempt,omitempty"`
	Improvement   float64  `json:"improvement"`
	TotalAttempts int      `json:"total_attempts"`
	Message       string   `json:"message,omitempty"`
	Assessments   int      `json:"assessments,omitempty"`
}

// Comparable reports whether the comparison has two attempts to contrast.
func (c *Comparison) Comparable() bool {
	return c.FirstAttempt != nil && c.LatestAttempt != nil
}
