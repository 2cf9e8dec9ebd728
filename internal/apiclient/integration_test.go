package apiclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/config"
	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/fakeapi"
	"github.com/upscprep/prepdesk/internal/session"
	"github.com/upscprep/prepdesk/internal/storage"
)

func startFixture(t *testing.T, now func() time.Time) string {
	t.Helper()
	cfg := &config.ServerConfig{
		Port:          "0",
		AccessSecret:  "it-access",
		RefreshSecret: "it-refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		RateLimit:     1000,
		RateBurst:     1000,
		AllowedOrigin: "*",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := fakeapi.New(cfg, logger, fakeapi.WithClock(now))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts.URL
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestClientAgainstFixtureAPI(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	baseURL := startFixture(t, clock.Now)

	creds := session.NewCredentials(storage.NewMemory())
	lost := 0
	client := apiclient.New(baseURL, creds, apiclient.WithAuthLostHandler(func() { lost++ }))

	pair, err := client.Auth.Login(ctx, fakeapi.DemoEmail, fakeapi.DemoPassword)
	require.NoError(t, err)
	require.NoError(t, creds.SetTokens(ctx, pair.AccessToken, pair.RefreshToken))

	list, err := client.Assessments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	a, err := client.Assessments.Create(ctx, domain.NewAssessment{Subject: "economics", Topic: "Indian Economy", DifficultyLevel: domain.DifficultyMedium})
	require.NoError(t, err)
	require.Len(t, a.Questions, 4)
	assert.True(t, a.Questions[0].Options.Contains("Option B"))

	mcq, err := client.Evaluation.ScoreMCQ(ctx, a.Questions[0].ID, "Option B")
	require.NoError(t, err)
	assert.True(t, mcq.Correct)
	assert.Equal(t, "Option B", mcq.CorrectAnswer)
	subj, err := client.Evaluation.ScoreSubjective(ctx, a.Questions[2].ID, "", "data:image/png;base64,AA==")
	require.NoError(t, err)
	assert.Equal(t, 10, subj.MaxMarks)
	assert.InDelta(t, 6.0, subj.Score, 0.001)

	// Expire the access token; the next call refreshes and replays.
	clock.Advance(5 * time.Minute)
	got, err := client.Assessments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	access, err := creds.AccessToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, access)

	var responses []domain.Response
	for _, q := range got.Questions {
		answer := "A reasoned answer."
		if q.Type == domain.QuestionSingleChoice {
			answer = q.Options[0]
		}
		responses = append(responses, domain.Response{QuestionID: q.ID, Answer: answer})
	}
	res, err := client.Assessments.Submit(ctx, a.ID, responses)
	require.NoError(t, err)
	assert.Equal(t, a.ID, res.AssessmentID)

	ev, err := client.Evaluation.Feedback(ctx, a.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, ev.FeedbackText)
	recs, err := client.Recommendations.ForAssessment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, recs.AssessmentID)
	assert.Equal(t, ev.Recommendations, recs.Recommendations)

	ocr, err := client.Evaluation.ExtractText(ctx, "answer.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, ocr.ExtractedText, "answer.png")

	card, err := client.Recommendations.ConceptCard(ctx, "Indian Economy")
	require.NoError(t, err)
	assert.Equal(t, "Indian Economy", card.Topic)

	progress, err := client.Progress.ForUser(ctx, pair.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.TotalAssessments)

	_, err = client.Progress.ForUser(ctx, "someone-else")
	assert.True(t, apiclient.IsStatus(err, http.StatusForbidden))

	mentors, err := client.Mentors.List(ctx, apiclient.MentorFilter{Subject: "Polity"})
	require.NoError(t, err)
	require.Len(t, mentors, 1)

	b, err := client.Bookings.Create(ctx, domain.NewBooking{MentorID: mentors[0].ID, ScheduledAt: clock.Now().Add(48 * time.Hour), DurationMinutes: 60})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	confirmed, err := client.Bookings.UpdateStatus(ctx, b.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmed.MeetingLink)
	require.NoError(t, client.Bookings.Cancel(ctx, b.ID))
	b2, err := client.Bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b2.Status)

	// Once the refresh token expires too, the session is lost.
	clock.Advance(2 * time.Hour)
	_, err = client.Bookings.Mine(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiclient.ErrSessionExpired))
	assert.Equal(t, 1, lost)
	access, err = creds.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
}
