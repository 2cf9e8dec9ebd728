package views

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/attempt"
	"github.com/upscprep/prepdesk/internal/config"
	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/fakeapi"
	"github.com/upscprep/prepdesk/internal/session"
	"github.com/upscprep/prepdesk/internal/storage"
	"github.com/upscprep/prepdesk/internal/uploads"
)

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

type harness struct {
	app      *App
	out      *bytes.Buffer
	client   *apiclient.Client
	sessions *session.Store
	creds    *session.Credentials
	router   *Router
	clock    *testClock
}

// newHarness wires an App against a fresh fixture API. Booking forms check
// against the wall clock, so the fixture clock starts at time.Now.
func newHarness(t *testing.T, start Route, input string) *harness {
	t.Helper()
	return newHarnessWith(t, start, input, nil)
}

// newHarnessWith is newHarness with wrap placed in front of the fixture API.
func newHarnessWith(t *testing.T, start Route, input string, wrap func(http.Handler) http.Handler) *harness {
	t.Helper()
	clock := &testClock{now: time.Now()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := fakeapi.New(&config.ServerConfig{
		Port:          "0",
		AccessSecret:  "views-access",
		RefreshSecret: "views-refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		RateLimit:     1000,
		RateBurst:     1000,
		AllowedOrigin: "*",
	}, logger, fakeapi.WithClock(clock.Now))
	require.NoError(t, err)
	var handler http.Handler = srv.Routes()
	if wrap != nil {
		handler = wrap(handler)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	store := storage.NewMemory()
	creds := session.NewCredentials(store)
	sessions := session.NewStore(store, creds, logger)
	router := NewRouter(start)
	client := apiclient.New(ts.URL, creds,
		apiclient.WithLogger(logger),
		apiclient.WithAuthLostHandler(AuthLostHandler(router, sessions, logger)),
	)

	out := &bytes.Buffer{}
	app := New(Deps{
		Client:   client,
		Session:  sessions,
		Creds:    creds,
		Attempt:  attempt.New(),
		Router:   router,
		Uploader: uploads.DataURL{},
		Prompter: NewPrompter(strings.NewReader(input), out),
		Out:      out,
		Logger:   logger,
		Now:      clock.Now,
	})
	return &harness{app: app, out: out, client: client, sessions: sessions, creds: creds, router: router, clock: clock}
}

// signIn stores demo credentials without going through the login view.
func (h *harness) signIn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	pair, err := h.client.Auth.Login(ctx, fakeapi.DemoEmail, fakeapi.DemoPassword)
	require.NoError(t, err)
	require.NoError(t, h.creds.SetTokens(ctx, pair.AccessToken, pair.RefreshToken))
	require.NoError(t, h.sessions.SetIdentity(ctx, &pair.User))
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestRouter(t *testing.T) {
	r := NewRouter(Route{Name: RouteDashboard})
	assert.Equal(t, RouteDashboard, r.Current().Name)
	assert.Zero(t, r.Seq())

	r.Navigate(RouteAssessment, "id", "a1", "dangling")
	cur := r.Current()
	assert.Equal(t, RouteAssessment, cur.Name)
	assert.Equal(t, "a1", cur.Param("id"))
	assert.Empty(t, cur.Param("dangling"))
	assert.Equal(t, uint64(1), r.Seq())

	r.NavigateTo(Route{Name: RouteMentors})
	assert.Equal(t, RouteMentors, r.Current().Name)
	assert.Empty(t, r.Current().Param("id"))
	assert.Equal(t, uint64(2), r.Seq())
}

func TestPrompterChoose(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader(lines("9", "x", "2", "b")), out)

	i, err := p.Choose("Pick", []string{"one", "two"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, strings.Count(out.String(), "Please pick one of the listed numbers."))

	_, err = p.Choose("Pick", []string{"one", "two"}, true)
	assert.ErrorIs(t, err, errBack)

	_, err = p.Ask("More")
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t, Route{Name: RouteLogin}, lines(fakeapi.DemoEmail, fakeapi.DemoPassword))

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Welcome back, Demo Aspirant!")
	assert.Contains(t, out, "== Dashboard ==")
	assert.Regexp(t, `Tests completed\s+2 of 2`, out)
	assert.True(t, h.sessions.IsAuthenticated())

	token, err := h.creds.AccessToken(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newHarness(t, Route{Name: RouteLogin}, lines(fakeapi.DemoEmail, "wrong-password"))

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Sign in failed: Invalid email or password")
	assert.False(t, h.sessions.IsAuthenticated())
	assert.Equal(t, RouteLogin, h.router.Current().Name)
}

func TestLoginValidatesInput(t *testing.T) {
	h := newHarness(t, Route{Name: RouteLogin}, lines("not-an-email", "123"))

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "  ! ")
	assert.NotContains(t, h.out.String(), "Sign in failed")
	assert.False(t, h.sessions.IsAuthenticated())
}

func TestProtectedRouteRedirectsAndResumes(t *testing.T) {
	h := newHarness(t, Route{Name: RouteMentor, Params: map[string]string{"id": "4"}},
		lines(fakeapi.DemoEmail, fakeapi.DemoPassword, "n"))

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	signIn := strings.Index(out, "== Sign in ==")
	profile := strings.Index(out, "== Dr. Priya Malhotra ==")
	require.NotEqual(t, -1, signIn)
	require.NotEqual(t, -1, profile)
	assert.Less(t, signIn, profile)
	assert.Nil(t, h.app.pending)
}

func TestRegister(t *testing.T) {
	h := newHarness(t, Route{Name: RouteRegister},
		lines("Asha Rao", "asha@example.com", "secret1", "secret1", "1", "asha@example.com", "secret1"))

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Registration successful! Please sign in.")
	assert.Contains(t, out, "Welcome back, Asha Rao!")
	id, ok := h.sessions.Identity()
	require.True(t, ok)
	assert.Equal(t, domain.RoleCandidate, id.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t, Route{Name: RouteRegister},
		lines("Demo Again", fakeapi.DemoEmail, "secret1", "secret1", "2"))

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Registration failed: Email already registered")
	assert.Equal(t, RouteRegister, h.router.Current().Name)
}

func TestTakeAndSubmitAssessment(t *testing.T) {
	h := newHarness(t, Route{Name: RouteAssessmentNew}, lines(
		"4", // Polity
		"1", // Constitution
		"2", // medium
		"2", "/n",
		"4", "/n",
		"Federal structure with a unitary bias.", "/n",
		"/s", "y",
		"1",
	))
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "== Polity: Constitution (medium) ==")
	assert.Contains(t, out, "Your answer: Option B")
	assert.Contains(t, out, "1 question(s) unanswered. Submit anyway?")
	assert.Contains(t, out, "Assessment submitted successfully.")
	assert.Contains(t, out, "== Feedback ==")
	// 1 + 1 + 6 of 27 marks.
	assert.Contains(t, out, "Score: 29.6% (Needs work)")
	assert.Contains(t, out, "Analytical depth in Constitution: key concepts")
	assert.False(t, h.app.Attempt.Loaded())

	list, err := h.client.Assessments.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestWizardBackAndPrefill(t *testing.T) {
	h := newHarness(t, Route{Name: RouteAssessmentNew, Params: map[string]string{"subject": "history"}},
		lines("b", "1", "3", "1", "/q"))
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Step 2 of 3: choose a History topic")
	assert.Contains(t, out, "Step 1 of 3: choose a subject")
	assert.Contains(t, out, "== History: Modern India (easy) ==")
	assert.Contains(t, out, "Attempt abandoned. Your answers were not submitted.")
	assert.False(t, h.app.Attempt.Loaded())
}

func TestTakeRejectsUnknownOption(t *testing.T) {
	h := newHarness(t, Route{Name: RouteAssessmentNew, Params: map[string]string{
		"subject": "economics", "topic": "Indian Economy", "difficulty": "hard",
	}}, lines("7", "/x", "/q"))
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "  ! ")
	assert.NotContains(t, out, "Your answer:")
	assert.Equal(t, 2, strings.Count(out, "Commands:"))
}

func TestTakeCompletedAssessmentShowsFeedback(t *testing.T) {
	h := newHarness(t, Route{Name: RouteDashboard}, "")
	h.signIn(t)
	list, err := h.client.Assessments.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)

	h.router.Navigate(RouteAssessmentTake, "id", list[0].ID)
	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "This assessment has already been submitted.")
	assert.Contains(t, out, "== Feedback ==")
	assert.Contains(t, out, "Critical Thinking")
}

func TestAssessmentFilters(t *testing.T) {
	score := 80.0
	now := time.Now()
	list := []domain.Assessment{
		{ID: "1", Subject: "history", Topic: "Modern India", Status: domain.StatusCompleted, TotalScore: &score, CreatedAt: now},
		{ID: "2", Subject: "polity", Topic: "Constitution", Status: domain.StatusInProgress, CreatedAt: now},
		{ID: "3", Subject: "history", Topic: "Ancient India", Status: domain.StatusInProgress, CreatedAt: now},
	}

	ids := func(in []domain.Assessment) []string {
		var out []string
		for _, a := range in {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(filterAssessments(list, FilterAll, "")))
	assert.Equal(t, []string{"1"}, ids(filterAssessments(list, FilterCompleted, "")))
	assert.Equal(t, []string{"2", "3"}, ids(filterAssessments(list, FilterInProgress, "")))
	assert.Equal(t, []string{"1", "3"}, ids(filterAssessments(list, FilterAll, "HISTORY")))
	assert.Equal(t, []string{"3"}, ids(filterAssessments(list, FilterInProgress, "india")))
	assert.Empty(t, filterAssessments(list, FilterCompleted, "constitution"))
}

func TestAssessmentsView(t *testing.T) {
	h := newHarness(t, Route{Name: RouteAssessments, Params: map[string]string{"status": FilterInProgress}}, "")
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Total: 2  Completed: 2  In progress: 0  Average score: 61.1%")
	assert.Contains(t, out, "No assessments match.")
}

func TestSearchMentors(t *testing.T) {
	list := []domain.Mentor{
		{ID: "a", Name: "Low", Rating: 4.1, TotalSessions: 900},
		{ID: "b", Name: "High few", Rating: 4.9, TotalSessions: 10, Bio: "Polity specialist"},
		{ID: "c", Name: "High many", Rating: 4.9, TotalSessions: 300},
	}

	var got []string
	for _, m := range searchMentors(list, "") {
		got = append(got, m.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)

	found := searchMentors(list, "POLITY")
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].ID)
	assert.Empty(t, searchMentors(list, "nobody"))
}

func TestMentorsView(t *testing.T) {
	h := newHarness(t, Route{Name: RouteMentors, Params: map[string]string{"min_rating": "4.8"}}, "")
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	priya := strings.Index(out, "Dr. Priya Malhotra")
	rajesh := strings.Index(out, "Dr. Rajesh Sharma")
	anita := strings.Index(out, "Prof. Anita Verma")
	require.NotEqual(t, -1, priya)
	assert.Less(t, priya, rajesh)
	assert.Less(t, rajesh, anita)
	assert.NotContains(t, out, "Mr. Vikram Singh")
	assert.Contains(t, out, "₹2,500/hr")
}

func TestMentorsViewRejectsBadRating(t *testing.T) {
	h := newHarness(t, Route{Name: RouteMentors, Params: map[string]string{"min_rating": "high"}}, "")
	h.signIn(t)

	err := h.app.Run(context.Background())
	require.Error(t, err)
	assert.NotContains(t, h.out.String(), "Something went wrong")
}

// failing answers path with status and leaves every other route to the fixture.
func failing(path string, status int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"Service unavailable"}`))
		})
	}
}

func TestMissingAssessmentEndsViewWithOneMessage(t *testing.T) {
	h := newHarness(t, Route{Name: RouteAssessment, Params: map[string]string{"id": "does-not-exist"}}, "")
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Equal(t, 1, strings.Count(out, "Something went wrong"))
	assert.Contains(t, out, "Something went wrong: Assessment not found")
}

func TestFailedDetailFetchEndsView(t *testing.T) {
	h := newHarnessWith(t, Route{Name: RouteMentor, Params: map[string]string{"id": "4"}}, "",
		failing("/api/mentors/4", http.StatusInternalServerError))
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Something went wrong: Service unavailable")
	assert.True(t, h.sessions.IsAuthenticated())
}

func TestFailedListFetchDegrades(t *testing.T) {
	h := newHarnessWith(t, Route{Name: RouteBookings}, "",
		failing("/api/bookings/me", http.StatusInternalServerError))
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "== My sessions ==")
	assert.Contains(t, out, "(could not load bookings)")
	assert.NotContains(t, out, "Something went wrong")
}

func TestFailedAvailabilityDegradesProfile(t *testing.T) {
	h := newHarnessWith(t, Route{Name: RouteMentor, Params: map[string]string{"id": "4"}}, "",
		failing("/api/mentors/4/availability", http.StatusNotFound))
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "== Dr. Priya Malhotra ==")
	assert.Contains(t, out, "(could not load availability)")
}

func TestUnreachableAPIEndsViewWithOneMessage(t *testing.T) {
	h := newHarness(t, Route{Name: RouteBookings, Params: map[string]string{"cancel": "b1"}}, "")
	h.signIn(t)
	h.app.Client = apiclient.New("http://127.0.0.1:1", h.creds)

	require.NoError(t, h.app.Run(context.Background()))

	assert.Equal(t, 1, strings.Count(h.out.String(), "Something went wrong"))
}

func TestBookAndCancelSession(t *testing.T) {
	h := newHarness(t, Route{Name: RouteMentor, Params: map[string]string{"id": "2"}}, lines("y", "1", "b", "1", "1"))
	h.signIn(t)
	ctx := context.Background()

	require.NoError(t, h.app.Run(ctx))

	out := h.out.String()
	assert.Contains(t, out, "Available slots")
	assert.Contains(t, out, "with Prof. Anita Verma (pending)")
	assert.Contains(t, out, "== My sessions ==")

	mine, err := h.client.Bookings.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "2", mine[0].MentorID)
	assert.True(t, mine[0].ScheduledAt.After(time.Now()))
	assert.Equal(t, 60, mine[0].DurationMinutes)

	h.out.Reset()
	h.router.Navigate(RouteBookings, "cancel", mine[0].ID)
	require.NoError(t, h.app.Run(ctx))
	assert.Contains(t, h.out.String(), "Booking cancelled.")

	b, err := h.client.Bookings.Get(ctx, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestBookingsEmpty(t *testing.T) {
	h := newHarness(t, Route{Name: RouteBookings}, "")
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "No sessions booked.")
}

func TestProgressWithComparisonAndReport(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "progress.pdf")
	h := newHarness(t, Route{Name: RouteProgress, Params: map[string]string{
		"subject": "history", "topic": "Modern India", "pdf": pdf,
	}}, "")
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "== Progress ==")
	assert.Regexp(t, `Assessments\s+2\n`, out)
	assert.Contains(t, out, "History / Modern India over 2 attempts")
	assert.Contains(t, out, "Change: +3.7")
	assert.Contains(t, out, "Report written to "+pdf)

	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestProgressComparisonNeedsTwoAttempts(t *testing.T) {
	h := newHarness(t, Route{Name: RouteProgress, Params: map[string]string{
		"subject": "polity", "topic": "Constitution",
	}}, "")
	h.signIn(t)

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "(have 0)")
}

func TestSessionExpiryReturnsToSignIn(t *testing.T) {
	h := newHarness(t, Route{Name: RouteDashboard}, "")
	h.signIn(t)
	h.clock.Advance(2 * time.Hour)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Your session has expired. Please sign in again.")
	assert.Contains(t, out, "Please sign in to continue.")
	assert.False(t, h.sessions.IsAuthenticated())

	token, err := h.creds.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSessionExpiryResumesRouteAfterSignIn(t *testing.T) {
	h := newHarness(t, Route{Name: RouteBookings}, lines(fakeapi.DemoEmail, fakeapi.DemoPassword))
	h.signIn(t)
	h.clock.Advance(2 * time.Hour)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	signIn := strings.Index(out, "== Sign in ==")
	require.NotEqual(t, -1, signIn)
	assert.Equal(t, 2, strings.Count(out, "== My sessions =="))
	assert.Greater(t, strings.LastIndex(out, "== My sessions =="), signIn)
	assert.Contains(t, out, "No sessions booked.")
	assert.Nil(t, h.app.pending)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Critical Thinking", skillLabel("critical_thinking"))
	assert.Equal(t, "#######...", bar(72))
	assert.Equal(t, "##########", bar(140))
	assert.Equal(t, "₹800", rupees(800))
	assert.Equal(t, "₹12,000", rupees(12000))
	assert.Equal(t, "Mon 27 Oct", dayLabel("2025-10-27"))
	assert.Equal(t, "soon", dayLabel("soon"))
	assert.Equal(t, "Demo", firstName("Demo Aspirant"))
	assert.Equal(t, "there", firstName("  "))

	now := time.Date(2025, 10, 24, 9, 0, 0, 0, time.UTC)
	up := upcomingBookings([]domain.Booking{
		{ID: "late", ScheduledAt: now.Add(48 * time.Hour), Status: domain.BookingConfirmed},
		{ID: "gone", ScheduledAt: now.Add(-time.Hour), Status: domain.BookingPending},
		{ID: "off", ScheduledAt: now.Add(time.Hour), Status: domain.BookingCancelled},
		{ID: "soon", ScheduledAt: now.Add(2 * time.Hour), Status: domain.BookingPending},
	}, now)
	require.Len(t, up, 2)
	assert.Equal(t, "soon", up[0].ID)
	assert.Equal(t, "late", up[1].ID)
}
