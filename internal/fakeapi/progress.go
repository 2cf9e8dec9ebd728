package fakeapi

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upscprep/prepdesk/internal/domain"
)

const studyStreakDays = 15

func (s *Server) userProgress(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if chi.URLParam(r, "id") != userID {
		Error(w, http.StatusForbidden, "Access denied")
		return
	}
	JSON(w, http.StatusOK, progressOf(userID, s.data.completed(userID)))
}

// progressOf summarizes completed assessments in completion order. The
// current score averages the last five, the previous score the five before
// those, falling back to the very first score below ten attempts.
func progressOf(userID string, done []domain.Assessment) domain.Progress {
	p := domain.Progress{UserID: userID, SubjectProgress: []domain.SubjectProgress{}}
	if len(done) == 0 {
		return p
	}

	scores := make([]float64, len(done))
	bySubject := make(map[string][]float64)
	var order []string
	for i, a := range done {
		scores[i] = *a.TotalScore
		if _, seen := bySubject[a.Subject]; !seen {
			order = append(order, a.Subject)
		}
		bySubject[a.Subject] = append(bySubject[a.Subject], *a.TotalScore)
	}

	current, previous := window(scores, 5)
	p.CurrentScore = round2(current)
	p.PreviousScore = round2(previous)
	p.Improvement = round2(current - previous)
	p.TotalAssessments = len(done)
	p.StudyStreak = studyStreakDays

	for _, subject := range order {
		ss := bySubject[subject]
		cur, prev := window(ss, 3)
		p.SubjectProgress = append(p.SubjectProgress, domain.SubjectProgress{
			Subject:     subject,
			Current:     cur,
			Previous:    prev,
			Tests:       len(ss),
			Improvement: cur - prev,
		})
	}
	return p
}

// window averages the last n scores and the n before them. With fewer than
// 2n scores the previous value is the first score.
func window(scores []float64, n int) (current, previous float64) {
	last := scores[max(0, len(scores)-n):]
	current = mean(last)
	if len(scores) >= 2*n {
		previous = mean(scores[len(scores)-2*n : len(scores)-n])
	} else {
		previous = scores[0]
	}
	return current, previous
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Server) compareProgress(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	topic := r.URL.Query().Get("topic")
	if subject == "" || topic == "" {
		Error(w, http.StatusUnprocessableEntity, "subject and topic are required")
		return
	}

	var attempts []domain.Assessment
	for _, a := range s.data.completed(UserIDFromContext(r.Context())) {
		if a.Subject == subject && a.Topic == topic {
			attempts = append(attempts, a)
		}
	}

	if len(attempts) < 2 {
		JSON(w, http.StatusOK, map[string]any{
			"message":     "Need at least 2 completed assessments to compare",
			"assessments": len(attempts),
		})
		return
	}

	first, latest := attempts[0], attempts[len(attempts)-1]
	JSON(w, http.StatusOK, domain.Comparison{
		Subject:       subject,
		Topic:         topic,
		FirstAttempt:  &domain.Attempt{Date: *first.CompletedAt, Score: *first.TotalScore},
		LatestAttempt: &domain.Attempt{Date: *latest.CompletedAt, Score: *latest.TotalScore},
		Improvement:   round2(*latest.TotalScore - *first.TotalScore),
		TotalAttempts: len(attempts),
	})
}
