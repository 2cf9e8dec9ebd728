package domain

import "time"

// ConceptGap is a weak concept found while scoring.
type ConceptGap struct {
	Concept     string `json:"concept"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Recommendation points at study material (NCERT chapter or previous-year question).
type Recommendation struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Chapter  string `json:"chapter,omitempty"`
	Pages    string `json:"pages,omitempty"`
	Year     int    `json:"year,omitempty"`
	Question string `json:"question,omitempty"`
	Priority string `json:"priority"`
}

// Evaluation is the scored feedback for a submitted assessment.
type Evaluation struct {
	ID              string             `json:"id"`
	Score           float64            `json:"score"`
	FeedbackText    string             `json:"feedback_text"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	ConceptGaps     []ConceptGap       `json:"concept_gaps"`
	Recommendations []Recommendation   `json:"recommendations"`
	SkillAnalysis   map[string]float64 `json:"skill_analysis"`
	CreatedAt       time.Time          `json:"created_at"`
}

// MCQResult is the instant score of one single-choice answer.
type MCQResult struct {
	QuestionID    string  `json:"question_id"`
	Correct       bool    `json:"is_correct"`
	CorrectAnswer string  `json:"correct_answer"`
	Score         float64 `json:"score"`
}

// SubjectiveResult is the instant score of one free-response answer.
type SubjectiveResult struct {
	Score       float64      `json:"score"`
	MaxMarks    int          `json:"max_marks"`
	Feedback    string       `json:"feedback"`
	Strengths   []string     `json:"strengths"`
	Weaknesses  []string     `json:"weaknesses"`
	ConceptGaps []ConceptGap `json:"concept_gaps"`
}

// OCRResult is text extracted from a handwritten answer image.
type OCRResult struct {
	ExtractedText string  `json:"extracted_text"`
	Confidence    float64 `json:"confidence"`
}

// ConceptCard is a short revision card for a topic.
type ConceptCard struct {
	Topic     string   `json:"topic"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// RecommendationSet groups recommendations for one assessment.
type RecommendationSet struct {
	AssessmentID    string           `json:"assessment_id"`
	Recommendations []Recommendation `json:"recommendations"`
}
