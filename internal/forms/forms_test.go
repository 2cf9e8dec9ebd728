package forms

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upscprep/prepdesk/internal/domain"
)

func fieldErrors(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr
}

func TestLogin(t *testing.T) {
	require.NoError(t, Validate(Login{Email: "asha@example.com", Password: "secret1"}))

	verr := fieldErrors(t, Validate(Login{Email: "not-an-email", Password: "123"}))
	assert.NotEmpty(t, verr.Field("email"))
	assert.NotEmpty(t, verr.Field("password"))
}

func TestRegister(t *testing.T) {
	good := Register{
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "aspirant",
	}
	require.NoError(t, Validate(good))

	tests := []struct {
		name   string
		field  string
		mutate func(*Register)
	}{
		{"blank name", "full_name", func(r *Register) { r.FullName = "   " }},
		{"mismatched confirmation", "confirm_password", func(r *Register) { r.ConfirmPassword = "other12" }},
		{"unknown role", "role", func(r *Register) { r.Role = "admin" }},
		{"short password", "password", func(r *Register) { r.Password = "abc"; r.ConfirmPassword = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			tt.mutate(&r)
			verr := fieldErrors(t, Validate(r))
			assert.NotEmpty(t, verr.Field(tt.field), verr.Error())
		})
	}

	reg := good.Registration()
	assert.Equal(t, domain.RoleCandidate, reg.Role)
}

func TestNewAssessment(t *testing.T) {
	require.NoError(t, Validate(NewAssessment{Subject: "polity", Topic: "Governance", Difficulty: "medium"}))

	verr := fieldErrors(t, Validate(NewAssessment{Subject: "astrology", Topic: "Governance", Difficulty: "medium"}))
	assert.Equal(t, "subject is not offered", verr.Field("subject"))

	verr = fieldErrors(t, Validate(NewAssessment{Subject: "polity", Topic: "Ecology", Difficulty: "extreme"}))
	assert.Equal(t, "topic is not offered", verr.Field("topic"))
	assert.NotEmpty(t, verr.Field("difficulty_level"))
}

func TestAnswer(t *testing.T) {
	opts := domain.Options{"1905", "1911"}

	require.NoError(t, Validate(Answer{Type: domain.QuestionSingleChoice, Answer: "1905", Options: opts}))
	require.NoError(t, Validate(Answer{Type: domain.QuestionFreeResponse, ImageRef: "data:image/png;base64,AA"}))

	verr := fieldErrors(t, Validate(Answer{Type: domain.QuestionSingleChoice, Answer: "1920", Options: opts}))
	assert.Equal(t, "pick one of the listed options", verr.Field("answer"))

	verr = fieldErrors(t, Validate(Answer{Type: domain.QuestionFreeResponse, Answer: "  "}))
	assert.Equal(t, "write an answer or attach an image", verr.Field("answer"))
}

func TestBooking(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	require.NoError(t, Validate(Booking{MentorID: "m1", ScheduledAt: future, DurationMinutes: 60}))

	verr := fieldErrors(t, Validate(Booking{MentorID: "m1", ScheduledAt: time.Now().Add(-time.Hour), DurationMinutes: 5}))
	assert.Equal(t, "scheduled_at must be in the future", verr.Field("scheduled_at"))
	assert.NotEmpty(t, verr.Field("duration_minutes"))
}
