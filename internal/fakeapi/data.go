package fakeapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/upscprep/prepdesk/internal/domain"
)

// Demo account seeded on startup.
const (
	DemoEmail    = "demo@prepdesk.dev"
	DemoPassword = "prepdesk123"
)

var (
	errEmailTaken = errors.New("email already registered")
	errBadLogin   = errors.New("invalid email or password")
	errNotFound   = errors.New("not found")
	errNotOwner   = errors.New("not owner")
	errCompleted  = errors.New("assessment already submitted")
)

type user struct {
	identity     domain.Identity
	passwordHash []byte
}

// question keeps the answer key next to the public question.
type question struct {
	domain.Question
	letters []string // option letters, parallel to Options
	correct string   // letter of the correct option, single-choice only
}

func (q *question) correctText() string {
	for i, l := range q.letters {
		if l == q.correct {
			return q.Options[i]
		}
	}
	return ""
}

type assessment struct {
	domain.Assessment
	questions []*question
	seq       int
}

type booking struct {
	userID string
	domain.Booking
}

// dataset is the in-memory state behind the fixture API.
type dataset struct {
	mu sync.RWMutex

	usersByEmail map[string]*user
	usersByID    map[string]*user
	assessments  map[string]*assessment
	questions    map[string]*question
	evaluations  map[string]domain.Evaluation
	bookings     map[string]*booking
	mentors      []domain.Mentor
	seq          int

	now func() time.Time
}

func newDataset(now func() time.Time) *dataset {
	return &dataset{
		usersByEmail: make(map[string]*user),
		usersByID:    make(map[string]*user),
		assessments:  make(map[string]*assessment),
		questions:    make(map[string]*question),
		evaluations:  make(map[string]domain.Evaluation),
		bookings:     make(map[string]*booking),
		mentors:      seedMentors(),
		now:          now,
	}
}

func (d *dataset) register(reg domain.Registration) (domain.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.usersByEmail[email]; taken {
		return domain.Identity{}, errEmailTaken
	}
	u := &user{
		identity: domain.Identity{
			ID:       uuid.NewString(),
			Email:    email,
			FullName: strings.TrimSpace(reg.FullName),
			Role:     reg.Role,
		},
		passwordHash: hash,
	}
	d.usersByEmail[email] = u
	d.usersByID[u.identity.ID] = u
	return u.identity, nil
}

func (d *dataset) authenticate(email, password string) (domain.Identity, error) {
	d.mu.RLock()
	u, ok := d.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	d.mu.RUnlock()
	if !ok {
		return domain.Identity{}, errBadLogin
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return domain.Identity{}, errBadLogin
	}
	return u.identity, nil
}

func (d *dataset) userByID(id string) (domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.usersByID[id]
	if !ok {
		return domain.Identity{}, false
	}
	return u.identity, true
}

// createAssessment builds the sample question set for subject and topic.
func (d *dataset) createAssessment(userID string, in domain.NewAssessment) *assessment {
	letters := []string{"A", "B", "C", "D"}
	qs := []*question{
		{
			Question: domain.Question{
				Type:     domain.QuestionSingleChoice,
				Text:     "Which of the following is a key characteristic of " + in.Topic + "?",
				Options:  domain.Options{"Option A", "Option B", "Option C", "Option D"},
				MaxMarks: 1,
			},
			letters: letters,
			correct: "B",
		},
		{
			Question: domain.Question{
				Type:     domain.QuestionSingleChoice,
				Text:     "What was the primary cause of developments in " + in.Topic + "?",
				Options:  domain.Options{"Economic factors", "Political factors", "Social factors", "All of the above"},
				MaxMarks: 1,
			},
			letters: letters,
			correct: "D",
		},
		{
			Question: domain.Question{
				Type:     domain.QuestionFreeResponse,
				Text:     "Discuss the significance of " + in.Topic + " in historical context. (10 marks)",
				MaxMarks: 10,
			},
		},
		{
			Question: domain.Question{
				Type:     domain.QuestionFreeResponse,
				Text:     "Analyze the key features and impact of " + in.Topic + ". (15 marks)",
				MaxMarks: 15,
			},
		},
	}

	a := &assessment{
		Assessment: domain.Assessment{
			ID:              uuid.NewString(),
			UserID:          userID,
			Subject:         in.Subject,
			Topic:           in.Topic,
			DifficultyLevel: in.DifficultyLevel,
			Status:          domain.StatusInProgress,
			CreatedAt:       d.now().UTC(),
		},
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	a.seq = d.seq
	for _, q := range qs {
		q.ID = uuid.NewString()
		q.Subject = in.Subject
		q.Topic = in.Topic
		q.Difficulty = in.DifficultyLevel
		d.questions[q.ID] = q
		a.questions = append(a.questions, q)
	}
	d.assessments[a.ID] = a
	cp := *a
	return &cp
}

// assessmentFor returns a copy of the user's assessment with questions attached.
func (d *dataset) assessmentFor(userID, id string) (*assessment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.assessments[id]
	if !ok {
		return nil, errNotFound
	}
	if a.UserID != userID {
		return nil, errNotOwner
	}
	cp := *a
	return &cp, nil
}

// listAssessments returns the user's assessments, newest first.
func (d *dataset) listAssessments(userID string) []domain.Assessment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var mine []*assessment
	for _, a := range d.assessments {
		if a.UserID == userID {
			mine = append(mine, a)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].seq > mine[j].seq })
	out := make([]domain.Assessment, len(mine))
	for i, a := range mine {
		out[i] = a.Assessment
	}
	return out
}

func (d *dataset) question(id string) (*question, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	q, ok := d.questions[id]
	return q, ok
}

// submit scores responses, completes the assessment and stores its evaluation.
func (d *dataset) submit(userID, id string, responses []domain.Response) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.assessments[id]
	if !ok {
		return errNotFound
	}
	if a.UserID != userID {
		return errNotOwner
	}
	if a.Completed() {
		return errCompleted
	}

	answers := make(map[string]domain.Response, len(responses))
	for _, r := range responses {
		answers[r.QuestionID] = r
	}

	var scored, possible float64
	var strengths, weaknesses []string
	var gaps []domain.ConceptGap
	for _, q := range a.questions {
		possible += float64(q.MaxMarks)
		r, answered := answers[q.ID]
		switch q.Type {
		case domain.QuestionSingleChoice:
			if answered && isCorrect(q, r.Answer) {
				scored += float64(q.MaxMarks)
				strengths = append(strengths, "Accurate recall on "+a.Topic)
			} else {
				weaknesses = append(weaknesses, "Factual recall on "+a.Topic)
				gaps = append(gaps, domain.ConceptGap{Concept: a.Topic + " fundamentals", Severity: "medium", Description: "Review the core facts behind this question."})
			}
		case domain.QuestionFreeResponse:
			marks := subjectiveMarks(q.MaxMarks, r.Answer, r.ImageRef)
			scored += marks
			if marks > 0 {
				strengths = append(strengths, "Clear structure in written answers")
			}
			if marks < float64(q.MaxMarks)*0.7 {
				weaknesses = append(weaknesses, "Depth of analysis")
				gaps = append(gaps, domain.ConceptGap{Concept: "Analytical depth in " + a.Topic, Severity: "high", Description: "Support arguments with examples and data."})
			}
		}
	}

	score := 0.0
	if possible > 0 {
		score = scored / possible * 100
	}
	now := d.now().UTC()
	a.Status = domain.StatusCompleted
	a.CompletedAt = &now
	a.TotalScore = &score

	d.evaluations[a.ID] = domain.Evaluation{
		ID:              uuid.NewString(),
		Score:           score,
		FeedbackText:    "Your overall performance shows understanding of core concepts with room for improvement in depth and analysis.",
		Strengths:       dedupe(strengths),
		Weaknesses:      dedupe(weaknesses),
		ConceptGaps:     gaps,
		Recommendations: recommendationsFor(a.Subject, gaps),
		SkillAnalysis: map[string]float64{
			"factual_recall":    75,
			"analysis":          68,
			"critical_thinking": 72,
			"structure":         80,
			"relevance":         76,
		},
		CreatedAt: now,
	}
	return nil
}

func isCorrect(q *question, answer string) bool {
	return answer == q.correct || answer == q.correctText()
}

// subjectiveMarks awards canned marks: 60% for any written or imaged answer.
func subjectiveMarks(maxMarks int, answer, imageRef string) float64 {
	if strings.TrimSpace(answer) == "" && imageRef == "" {
		return 0
	}
	return float64(maxMarks) * 0.6
}

func recommendationsFor(subject string, gaps []domain.ConceptGap) []domain.Recommendation {
	var out []domain.Recommendation
	for _, g := range gaps {
		priority := "medium"
		if g.Severity == "high" {
			priority = "high"
		}
		out = append(out, domain.Recommendation{
			Type:     "NCERT",
			Title:    "NCERT " + subject,
			Chapter:  g.Concept,
			Priority: priority,
		})
	}
	out = append(out, domain.Recommendation{
		Type:     "PYQ",
		Title:    "Previous Year Question",
		Year:     2022,
		Question: "Q5",
		Priority: "high",
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (d *dataset) evaluation(userID, assessmentID string) (domain.Evaluation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.assessments[assessmentID]
	if !ok {
		return domain.Evaluation{}, errNotFound
	}
	if a.UserID != userID {
		return domain.Evaluation{}, errNotOwner
	}
	ev, ok := d.evaluations[assessmentID]
	if !ok {
		return domain.Evaluation{}, errNotFound
	}
	return ev, nil
}

// completed returns the user's scored assessments ordered by completion time.
func (d *dataset) completed(userID string) []domain.Assessment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var done []*assessment
	for _, a := range d.assessments {
		if a.UserID == userID && a.Completed() && a.TotalScore != nil && a.CompletedAt != nil {
			done = append(done, a)
		}
	}
	sort.Slice(done, func(i, j int) bool {
		if !done[i].CompletedAt.Equal(*done[j].CompletedAt) {
			return done[i].CompletedAt.Before(*done[j].CompletedAt)
		}
		return done[i].seq < done[j].seq
	})
	out := make([]domain.Assessment, len(done))
	for i, a := range done {
		out[i] = a.Assessment
	}
	return out
}

func (d *dataset) mentorList(subject string, minRating float64) []domain.Mentor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Mentor, 0, len(d.mentors))
	for _, m := range d.mentors {
		if subject != "" && !m.Teaches(subject) {
			continue
		}
		if m.Rating < minRating {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (d *dataset) mentor(id string) (domain.Mentor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, m := range d.mentors {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Mentor{}, false
}

func (d *dataset) createBooking(userID string, in domain.NewBooking) (domain.Booking, error) {
	if _, ok := d.mentor(in.MentorID); !ok {
		return domain.Booking{}, errNotFound
	}
	b := &booking{
		userID: userID,
		Booking: domain.Booking{
			ID:              uuid.NewString(),
			MentorID:        in.MentorID,
			ScheduledAt:     in.ScheduledAt.UTC(),
			DurationMinutes: in.DurationMinutes,
			Status:          domain.BookingPending,
			CreatedAt:       d.now().UTC(),
		},
	}
	if b.DurationMinutes == 0 {
		b.DurationMinutes = 60
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.bookings[b.ID] = b
	return b.Booking, nil
}

func (d *dataset) bookingFor(userID, id string) (*booking, error) {
	b, ok := d.bookings[id]
	if !ok || b.userID != userID {
		return nil, errNotFound
	}
	return b, nil
}

func (d *dataset) getBooking(userID, id string) (domain.Booking, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, err := d.bookingFor(userID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	return b.Booking, nil
}

func (d *dataset) setBookingStatus(userID, id string, status domain.BookingStatus) (domain.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, err := d.bookingFor(userID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	b.Status = status
	if status == domain.BookingConfirmed && b.MeetingLink == "" {
		b.MeetingLink = "https://meet.prepdesk.dev/" + b.ID
	}
	return b.Booking, nil
}

func (d *dataset) myBookings(userID string) []domain.Booking {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []domain.Booking{}
	for _, b := range d.bookings {
		if b.userID == userID {
			out = append(out, b.Booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}
