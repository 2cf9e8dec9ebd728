// Package views renders the prepdesk screens in a terminal. Each route has one
// view; a view either navigates to another route, which the App then renders,
// or finishes, which ends the run.
package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/attempt"
	"github.com/upscprep/prepdesk/internal/forms"
	"github.com/upscprep/prepdesk/internal/session"
	"github.com/upscprep/prepdesk/internal/uploads"
)

// ErrNoAttempt is returned when submitting without a loaded assessment.
var ErrNoAttempt = errors.New("no assessment is being taken")

// Deps are the collaborators a view may use. Main builds them once and
// shares them across views.
type Deps struct {
	Client   *apiclient.Client
	Session  *session.Store
	Creds    *session.Credentials
	Attempt  *attempt.Store
	Router   *Router
	Uploader uploads.Uploader
	Prompter *Prompter
	Out      io.Writer
	Logger   *slog.Logger
	Now      func() time.Time
}

type view func(ctx context.Context, route Route) error

// App runs views until one finishes.
type App struct {
	Deps
	views map[string]view

	// pending is the protected route to resume after signing in.
	pending *Route
}

// New creates an App.
func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	a := &App{Deps: d}
	a.views = map[string]view{
		RouteLogin:              a.login,
		RouteRegister:           a.register,
		RouteDashboard:          a.dashboard,
		RouteAssessments:        a.assessments,
		RouteAssessmentNew:      a.newAssessment,
		RouteAssessment:         a.assessment,
		RouteAssessmentTake:     a.takeAssessment,
		RouteAssessmentFeedback: a.feedback,
		RouteMentors:            a.mentors,
		RouteMentor:             a.mentor,
		RouteBookings:           a.bookings,
		RouteProgress:           a.progress,
	}
	return a
}

// AuthLostHandler returns the hook the API client runs after a failed token
// refresh: the identity is dropped and the router moves to the sign-in view.
func AuthLostHandler(router *Router, sessions *session.Store, logger *slog.Logger) func() {
	return func() {
		if err := sessions.SignOut(context.Background()); err != nil {
			logger.Error("Failed to clear session after refresh failure", "error", err)
		}
		router.Navigate(RouteLogin, "expired", "true")
	}
}

// Run renders the current route and follows navigation until a view finishes
// or input runs out.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		route := a.Router.Current()
		if !public[route.Name] && !a.Session.IsAuthenticated() {
			a.Logger.Debug("Redirecting to sign-in", "from", route.Name)
			a.pending = &route
			a.Router.Navigate(RouteLogin)
			continue
		}

		render, ok := a.views[route.Name]
		if !ok {
			return fmt.Errorf("unknown route %q", route.Name)
		}

		before := a.Router.Seq()
		err := render(ctx, route)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, apiclient.ErrSessionExpired):
			// The auth-lost hook has already moved the router to sign-in.
			if !public[route.Name] {
				a.pending = &route
			}
			fmt.Fprintln(a.Out, "Your session has expired. Please sign in again.")
			continue
		case errors.Is(err, context.Canceled):
			return err
		case isRequestError(err):
			a.Logger.Error("View failed", "route", route.Name, "error", err)
			fmt.Fprintf(a.Out, "Something went wrong: %s\n", describe(err))
			return nil
		default:
			a.Logger.Error("View failed", "route", route.Name, "error", err)
			return err
		}

		if a.Router.Seq() == before {
			return nil
		}
	}
}

// isRequestError reports whether err came back from the API or from the
// network. Those end the current view, not the process.
func isRequestError(err error) bool {
	var apiErr *apiclient.APIError
	var urlErr *url.Error
	return errors.As(err, &apiErr) || errors.As(err, &urlErr)
}

// describe turns an error into the single line shown to the user.
func describe(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return err.Error()
}

// printValidation lists the invalid fields of a form.
func (a *App) printValidation(err error) bool {
	var verr *forms.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for _, f := range verr.Fields {
		fmt.Fprintf(a.Out, "  ! %s\n", f.Message)
	}
	return true
}

// degrade logs a failed read and lets the view render without that data.
// Session loss is never degraded.
func (a *App) degrade(what string, err error) error {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return err
	}
	a.Logger.Warn("Failed to load data", "what", what, "error", err)
	fmt.Fprintf(a.Out, "(could not load %s)\n", what)
	return nil
}

func (a *App) heading(title string) {
	fmt.Fprintf(a.Out, "\n== %s ==\n", title)
}
