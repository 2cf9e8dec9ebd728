package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/upscprep/prepdesk/internal/domain"
)

// AssessmentService covers generating, fetching and submitting assessments.
type AssessmentService struct {
	c *Client
}

// List returns the signed-in user's assessments.
func (s *AssessmentService) List(ctx context.Context) ([]domain.Assessment, error) {
	var out []domain.Assessment
	if err := s.c.getJSON(ctx, "/assessments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create generates a new assessment.
func (s *AssessmentService) Create(ctx context.Context, in domain.NewAssessment) (*domain.Assessment, error) {
	var out domain.Assessment
	if err := s.c.sendJSON(ctx, http.MethodPost, "/assessments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one assessment with its questions.
func (s *AssessmentService) Get(ctx context.Context, id string) (*domain.Assessment, error) {
	var out domain.Assessment
	if err := s.c.getJSON(ctx, "/assessments/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit sends every recorded response for scoring.
func (s *AssessmentService) Submit(ctx context.Context, id string, responses []domain.Response) (*domain.SubmitResult, error) {
	if responses == nil {
		responses = []domain.Response{}
	}
	in := struct {
		Responses []domain.Response `json:"responses"`
	}{responses}

	var out domain.SubmitResult
	if err := s.c.sendJSON(ctx, http.MethodPost, "/assessments/"+url.PathEscape(id)+"/submit", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
