package apiclient

import (
	"context"
	"net/url"

	"github.com/upscprep/prepdesk/internal/domain"
)

// ProgressService covers progress tracking.
type ProgressService struct {
	c *Client
}

// ForUser returns aggregate progress for a user.
func (s *ProgressService) ForUser(ctx context.Context, userID string) (*domain.Progress, error) {
	var out domain.Progress
	if err := s.c.getJSON(ctx, "/progress/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare contrasts the first and latest attempts on subject and topic.
func (s *ProgressService) Compare(ctx context.Context, subject, topic string) (*domain.Comparison, error) {
	q := url.Values{"subject": {subject}, "topic": {topic}}
	var out domain.Comparison
	if err := s.c.getJSON(ctx, "/progress/comparison?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecommendationService covers study recommendations.
type RecommendationService struct {
	c *Client
}

// ForAssessment returns recommendations derived from an assessment.
func (s *RecommendationService) ForAssessment(ctx context.Context, assessmentID string) (*domain.RecommendationSet, error) {
	var out domain.RecommendationSet
	if err := s.c.getJSON(ctx, "/recommendations/"+url.PathEscape(assessmentID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConceptCard returns the revision card for a topic.
func (s *RecommendationService) ConceptCard(ctx context.Context, topic string) (*domain.ConceptCard, error) {
	var out domain.ConceptCard
	if err := s.c.getJSON(ctx, "/concept-cards/"+url.PathEscape(topic), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
