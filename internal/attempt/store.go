// Package attempt tracks an assessment while it is being taken: the loaded
// questions, the current position and the recorded responses.
//
// Nothing here is persisted. The attempt is discarded on Reset, which callers
// invoke after submitting or abandoning.
package attempt

import (
	"sync"

	"github.com/upscprep/prepdesk/internal/domain"
)

// Store holds at most one in-progress assessment.
type Store struct {
	mu         sync.RWMutex
	assessment *domain.Assessment
	position   int
	responses  []domain.Response
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Load replaces any current attempt with a. Position returns to the first
// question and prior responses are dropped.
func (s *Store) Load(a domain.Assessment) {
	a.Questions = append([]domain.Question(nil), a.Questions...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessment = &a
	s.position = 0
	s.responses = nil
}

// RecordResponse inserts or replaces the response for questionID.
// A replaced response moves to the end of the list. Ignored when nothing is loaded.
func (s *Store) RecordResponse(questionID, answer, imageRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.assessment == nil {
		return
	}
	for i, r := range s.responses {
		if r.QuestionID == questionID {
			s.responses = append(s.responses[:i], s.responses[i+1:]...)
			break
		}
	}
	s.responses = append(s.responses, domain.Response{
		QuestionID: questionID,
		Answer:     answer,
		ImageRef:   imageRef,
	})
}

// Advance moves to the next question, staying on the last one.
func (s *Store) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.assessment == nil {
		return
	}
	if s.position < len(s.assessment.Questions)-1 {
		s.position++
	}
}

// Retreat moves to the previous question, staying on the first one.
func (s *Store) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.assessment == nil {
		return
	}
	if s.position > 0 {
		s.position--
	}
}

// Reset discards the attempt.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessment = nil
	s.position = 0
	s.responses = nil
}

// Loaded reports whether an assessment is loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assessment != nil
}

// Assessment returns the loaded assessment.
func (s *Store) Assessment() (domain.Assessment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assessment == nil {
		return domain.Assessment{}, false
	}
	return *s.assessment, true
}

// Position returns the zero-based index of the current question.
func (s *Store) Position() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Current returns the question at the current position.
func (s *Store) Current() (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assessment == nil || len(s.assessment.Questions) == 0 {
		return domain.Question{}, false
	}
	return s.assessment.Questions[s.position], true
}

// IsFirst reports whether the current question is the first.
func (s *Store) IsFirst() bool {
	return s.Position() == 0
}

// IsLast reports whether the current question is the last.
func (s *Store) IsLast() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assessment == nil {
		return false
	}
	return s.position == len(s.assessment.Questions)-1
}

// Responses returns a copy of the recorded responses.
func (s *Store) Responses() []domain.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Response(nil), s.responses...)
}

// Response returns the recorded response for questionID.
func (s *Store) Response(questionID string) (domain.Response, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.responses {
		if r.QuestionID == questionID {
			return r, true
		}
	}
	return domain.Response{}, false
}

// Answered returns how many questions have a response.
func (s *Store) Answered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.responses)
}
