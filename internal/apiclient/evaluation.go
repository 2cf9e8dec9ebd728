package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"

	"github.com/upscprep/prepdesk/internal/domain"
)

// EvaluationService covers answer scoring, OCR and assessment feedback.
type EvaluationService struct {
	c *Client
}

// ScoreMCQ scores one single-choice answer.
func (s *EvaluationService) ScoreMCQ(ctx context.Context, questionID, answer string) (*domain.MCQResult, error) {
	in := map[string]string{"question_id": questionID, "answer": answer}
	var out domain.MCQResult
	if err := s.c.sendJSON(ctx, http.MethodPost, "/evaluate/mcq", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreSubjective scores one free-response answer. imageRef may be empty.
func (s *EvaluationService) ScoreSubjective(ctx context.Context, questionID, answer, imageRef string) (*domain.SubjectiveResult, error) {
	in := map[string]string{"question_id": questionID, "answer": answer}
	if imageRef != "" {
		in["image_url"] = imageRef
	}
	var out domain.SubjectiveResult
	if err := s.c.sendJSON(ctx, http.MethodPost, "/evaluate/subjective", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractText uploads an answer image and returns the recognised text.
func (s *EvaluationService) ExtractText(ctx context.Context, filename, contentType string, image io.Reader) (*domain.OCRResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish form: %w", err)
	}

	body := &payload{contentType: mw.FormDataContentType(), data: buf.Bytes()}
	var out domain.OCRResult
	if err := s.c.do(ctx, http.MethodPost, "/ocr/extract", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Feedback returns the evaluation of a submitted assessment.
func (s *EvaluationService) Feedback(ctx context.Context, assessmentID string) (*domain.Evaluation, error) {
	var out domain.Evaluation
	if err := s.c.getJSON(ctx, "/evaluations/"+url.PathEscape(assessmentID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
