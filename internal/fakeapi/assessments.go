package fakeapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/upscprep/prepdesk/internal/domain"
)

// questionWire renders choices as a letter-keyed object like the real API.
type questionWire struct {
	ID           string              `json:"id"`
	Type         domain.QuestionType `json:"type"`
	Subject      string              `json:"subject"`
	Topic        string              `json:"topic"`
	Difficulty   string              `json:"difficulty"`
	QuestionText string              `json:"question_text"`
	Options      map[string]string   `json:"options,omitempty"`
	MaxMarks     int                 `json:"max_marks"`
}

type assessmentWire struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	Subject         string                  `json:"subject"`
	Topic           string                  `json:"topic"`
	DifficultyLevel string                  `json:"difficulty_level"`
	Status          domain.AssessmentStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	CompletedAt     *time.Time              `json:"completed_at"`
	TotalScore      *float64                `json:"total_score"`
	Questions       []questionWire          `json:"questions"`
}

func toWire(a domain.Assessment, qs []*question) assessmentWire {
	out := assessmentWire{
		ID:              a.ID,
		UserID:          a.UserID,
		Subject:         a.Subject,
		Topic:           a.Topic,
		DifficultyLevel: a.DifficultyLevel,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		CompletedAt:     a.CompletedAt,
		TotalScore:      a.TotalScore,
		Questions:       []questionWire{},
	}
	for _, q := range qs {
		w := questionWire{
			ID:           q.ID,
			Type:         q.Type,
			Subject:      q.Subject,
			Topic:        q.Topic,
			Difficulty:   q.Difficulty,
			QuestionText: q.Text,
			MaxMarks:     q.MaxMarks,
		}
		if len(q.letters) > 0 {
			w.Options = make(map[string]string, len(q.letters))
			for i, l := range q.letters {
				w.Options[l] = q.Options[i]
			}
		}
		out.Questions = append(out.Questions, w)
	}
	return out
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	list := s.data.listAssessments(UserIDFromContext(r.Context()))
	out := make([]assessmentWire, 0, len(list))
	for _, a := range list {
		out = append(out, toWire(a, nil))
	}
	JSON(w, http.StatusOK, out)
}

func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	var in domain.NewAssessment
	if !decode(w, r, &in) {
		return
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Subject == "" || in.Topic == "" {
		Error(w, http.StatusUnprocessableEntity, "subject and topic are required")
		return
	}
	if !slices.Contains(domain.Difficulties, in.DifficultyLevel) {
		Error(w, http.StatusUnprocessableEntity, "difficulty_level must be easy, medium or hard")
		return
	}

	userID := UserIDFromContext(r.Context())
	a := s.data.createAssessment(userID, in)
	s.logger.Info("Assessment created", "user_id", userID, "assessment_id", a.ID, "subject", in.Subject, "topic", in.Topic)
	JSON(w, http.StatusCreated, toWire(a.Assessment, a.questions))
}

// ownedAssessment loads the path assessment, answering 404 when it is
// missing or belongs to someone else.
func (s *Server) ownedAssessment(w http.ResponseWriter, r *http.Request) (*assessment, bool) {
	a, err := s.data.assessmentFor(UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusNotFound, "Assessment not found")
		return nil, false
	}
	return a, true
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	a, ok := s.ownedAssessment(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, toWire(a.Assessment, a.questions))
}

func (s *Server) submitAssessment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Responses []domain.Response `json:"responses"`
	}
	if !decode(w, r, &in) {
		return
	}

	userID := UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	err := s.data.submit(userID, id, in.Responses)
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, errNotOwner):
		Error(w, http.StatusNotFound, "Assessment not found")
		return
	case errors.Is(err, errCompleted):
		Error(w, http.StatusBadRequest, "Assessment already submitted")
		return
	case err != nil:
		s.logger.Error("Failed to submit assessment", "assessment_id", id, "error", err)
		Error(w, http.StatusInternalServerError, "failed to submit assessment")
		return
	}

	s.logger.Info("Assessment submitted", "user_id", userID, "assessment_id", id, "responses", len(in.Responses))
	JSON(w, http.StatusOK, domain.SubmitResult{
		Message:      "Assessment submitted successfully",
		AssessmentID: id,
	})
}
