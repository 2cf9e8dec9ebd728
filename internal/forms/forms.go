package forms

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/upscprep/prepdesk/internal/domain"
)

// Login is the sign-in form.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register is the sign-up form.
type Register struct {
	FullName        string `json:"full_name" validate:"required,notblank,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=aspirant mentor"`
}

// Registration converts the form into the API payload.
func (r Register) Registration() domain.Registration {
	return domain.Registration{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		FullName: strings.TrimSpace(r.FullName),
		Role:     domain.Role(r.Role),
	}
}

// NewAssessment is the assessment wizard's result.
type NewAssessment struct {
	Subject    string `json:"subject" validate:"required"`
	Topic      string `json:"topic" validate:"required"`
	Difficulty string `json:"difficulty_level" validate:"required,oneof=easy medium hard"`
}

func newAssessmentStructValidation(sl validator.StructLevel) {
	na, ok := sl.Current().Interface().(NewAssessment)
	if !ok || na.Subject == "" {
		return
	}
	subject, found := domain.SubjectByID(na.Subject)
	if !found {
		sl.ReportError(na.Subject, "subject", "Subject", catalogTag, "")
		return
	}
	if na.Topic == "" {
		return
	}
	for _, t := range subject.Topics {
		if t == na.Topic {
			return
		}
	}
	sl.ReportError(na.Topic, "topic", "Topic", catalogTag, "")
}

// Answer is one answer entered while taking an assessment.
type Answer struct {
	Type     domain.QuestionType `json:"type" validate:"required,oneof=mcq subjective"`
	Answer   string              `json:"answer"`
	ImageRef string              `json:"image_url"`
	Options  domain.Options      `json:"-"`
}

// answerStructValidation requires a listed option for single-choice questions
// and text or an image for free-response questions.
func answerStructValidation(sl validator.StructLevel) {
	a, ok := sl.Current().Interface().(Answer)
	if !ok {
		return
	}
	switch a.Type {
	case domain.QuestionSingleChoice:
		if !a.Options.Contains(a.Answer) {
			sl.ReportError(a.Answer, "answer", "Answer", choiceTag, "")
		}
	case domain.QuestionFreeResponse:
		if strings.TrimSpace(a.Answer) == "" && a.ImageRef == "" {
			sl.ReportError(a.Answer, "answer", "Answer", answerTag, "")
		}
	}
}

// Booking is the mentor session booking form.
type Booking struct {
	MentorID        string    `json:"mentor_id" validate:"required,notblank"`
	AssessmentID    string    `json:"assessment_id"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required,future"`
	DurationMinutes int       `json:"duration_minutes" validate:"min=15,max=240"`
}

// NewBooking converts the form into the API payload.
func (b Booking) NewBooking() domain.NewBooking {
	return domain.NewBooking{
		MentorID:        b.MentorID,
		AssessmentID:    b.AssessmentID,
		ScheduledAt:     b.ScheduledAt.UTC(),
		DurationMinutes: b.DurationMinutes,
	}
}
