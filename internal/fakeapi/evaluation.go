package fakeapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/upscprep/prepdesk/internal/domain"
)

const maxUploadBytes = 5 << 20

func (s *Server) scoreMCQ(w http.ResponseWriter, r *http.Request) {
	var in struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
	}
	if !decode(w, r, &in) {
		return
	}
	q, ok := s.data.question(in.QuestionID)
	if !ok || q.Type != domain.QuestionSingleChoice {
		Error(w, http.StatusNotFound, "Question not found")
		return
	}

	res := domain.MCQResult{QuestionID: q.ID, CorrectAnswer: q.correctText()}
	if isCorrect(q, in.Answer) {
		res.Correct = true
		res.Score = float64(q.MaxMarks)
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) scoreSubjective(w http.ResponseWriter, r *http.Request) {
	var in struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
		ImageURL   string `json:"image_url"`
	}
	if !decode(w, r, &in) {
		return
	}
	q, ok := s.data.question(in.QuestionID)
	if !ok || q.Type != domain.QuestionFreeResponse {
		Error(w, http.StatusNotFound, "Question not found")
		return
	}

	res := domain.SubjectiveResult{
		Score:       subjectiveMarks(q.MaxMarks, in.Answer, in.ImageURL),
		MaxMarks:    q.MaxMarks,
		Feedback:    "Good attempt. Add examples and a clear conclusion to improve.",
		Strengths:   []string{"Relevant introduction"},
		Weaknesses:  []string{"Limited use of examples"},
		ConceptGaps: []domain.ConceptGap{},
	}
	if res.Score == 0 {
		res.Feedback = "No answer was provided."
		res.Strengths = []string{}
	}
	JSON(w, http.StatusOK, res)
}

// extractText pretends to OCR an uploaded image.
func (s *Server) extractText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		Error(w, http.StatusBadRequest, "File must be an image")
		return
	}
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	s.logger.Debug("OCR extract", "filename", header.Filename, "bytes", n)
	JSON(w, http.StatusOK, domain.OCRResult{
		ExtractedText: "Handwritten answer extracted from " + header.Filename,
		Confidence:    0.87,
	})
}

func (s *Server) getEvaluation(w http.ResponseWriter, r *http.Request) {
	ev, err := s.data.evaluation(UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if errors.Is(err, errNotFound) || errors.Is(err, errNotOwner) {
		Error(w, http.StatusNotFound, "Evaluation not found")
		return
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load evaluation")
		return
	}
	JSON(w, http.StatusOK, ev)
}

func (s *Server) getRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, err := s.data.evaluation(UserIDFromContext(r.Context()), id)
	if err != nil {
		Error(w, http.StatusNotFound, "Evaluation not found")
		return
	}
	JSON(w, http.StatusOK, domain.RecommendationSet{
		AssessmentID:    id,
		Recommendations: ev.Recommendations,
	})
}

func (s *Server) getConceptCard(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(chi.URLParam(r, "topic"))
	if topic == "" {
		Error(w, http.StatusNotFound, "Concept card not found")
		return
	}
	JSON(w, http.StatusOK, conceptCard(topic))
}
