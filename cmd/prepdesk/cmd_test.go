package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/session"
	"github.com/upscprep/prepdesk/internal/storage"
	"github.com/upscprep/prepdesk/internal/views"
)

type fakeApp struct {
	runs int
}

func (f *fakeApp) Run(context.Context) error {
	f.runs++
	return nil
}

func setup(t *testing.T) (*commandLine, *fakeApp, *bytes.Buffer) {
	t.Helper()
	store := storage.NewMemory()
	creds := session.NewCredentials(store)
	app := &fakeApp{}
	out := &bytes.Buffer{}
	return &commandLine{
		out:      out,
		sessions: session.NewStore(store, creds, slog.New(slog.NewTextHandler(io.Discard, nil))),
		router:   views.NewRouter(views.Route{Name: views.RouteDashboard}),
		app:      app,
	}, app, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantRoute  string
	wantParams map[string]string
}

func Test_commandLine_routes(t *testing.T) {
	tests := []cliTest{
		{name: "no command", args: nil, wantRoute: views.RouteDashboard},
		{name: "login", args: []string{"login"}, wantRoute: views.RouteLogin},
		{name: "register", args: []string{"register"}, wantRoute: views.RouteRegister},
		{name: "assessments", args: []string{"assessments", "-status", "completed", "-q", "india"},
			wantRoute: views.RouteAssessments, wantParams: map[string]string{"status": "completed", "q": "india"}},
		{name: "assessments: bad status", args: []string{"assessments", "-status", "lol"},
			wantErrStr: `-status must be all, completed or in_progress, got "lol"`},
		{name: "new: prefilled", args: []string{"new", "-subject", "polity", "-topic", "Constitution"},
			wantRoute: views.RouteAssessmentNew, wantParams: map[string]string{"subject": "polity", "topic": "Constitution"}},
		{name: "show", args: []string{"show", "a1"}, wantRoute: views.RouteAssessment, wantParams: map[string]string{"id": "a1"}},
		{name: "take", args: []string{"take", "a1"}, wantRoute: views.RouteAssessmentTake, wantParams: map[string]string{"id": "a1"}},
		{name: "take: no id", args: []string{"take"}, wantErr: errHelp},
		{name: "feedback: two ids", args: []string{"feedback", "a1", "a2"}, wantErr: errHelp},
		{name: "mentors", args: []string{"mentors", "-subject", "Polity", "-min-rating", "4.5"},
			wantRoute: views.RouteMentors, wantParams: map[string]string{"subject": "Polity", "min_rating": "4.5"}},
		{name: "mentors: bad rating", args: []string{"mentors", "-min-rating", "high"},
			wantErrStr: `-min-rating must be a number, got "high"`},
		{name: "mentor", args: []string{"mentor", "4"}, wantRoute: views.RouteMentor, wantParams: map[string]string{"id": "4"}},
		{name: "bookings: cancel", args: []string{"bookings", "-cancel", "b1"},
			wantRoute: views.RouteBookings, wantParams: map[string]string{"cancel": "b1"}},
		{name: "progress: pdf", args: []string{"progress", "-pdf", "out.pdf"},
			wantRoute: views.RouteProgress, wantParams: map[string]string{"pdf": "out.pdf"}},
		{name: "progress: subject without topic", args: []string{"progress", "-subject", "history"},
			wantErrStr: "-subject and -topic must be given together"},
		{name: "unknown flag", args: []string{"mentors", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "flag help", args: []string{"mentors", "-h"}, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help", args: []string{"help"}, wantErr: errHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, app, _ := setup(t)
			err := cli.run(context.Background(), append([]string{"prepdesk"}, tt.args...))

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, app.runs)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
				assert.Zero(t, app.runs)
			default:
				require.NoError(t, err)
				assert.Equal(t, 1, app.runs)
				route := cli.router.Current()
				assert.Equal(t, tt.wantRoute, route.Name)
				if tt.wantParams == nil {
					assert.Empty(t, route.Params)
				} else {
					assert.Equal(t, tt.wantParams, route.Params)
				}
			}
		})
	}
}

func Test_commandLine_session(t *testing.T) {
	ctx := context.Background()
	cli, app, out := setup(t)

	require.NoError(t, cli.run(ctx, []string{"prepdesk", "whoami"}))
	assert.Contains(t, out.String(), "Not signed in.")

	require.NoError(t, cli.sessions.SetIdentity(ctx, &domain.Identity{
		ID: "u1", Email: "asha@example.com", FullName: "Asha Rao", Role: domain.RoleMentor,
	}))
	out.Reset()
	require.NoError(t, cli.run(ctx, []string{"prepdesk", "whoami"}))
	assert.Equal(t, "Asha Rao <asha@example.com> (Mentor)\n", out.String())

	out.Reset()
	require.NoError(t, cli.run(ctx, []string{"prepdesk", "logout"}))
	assert.Contains(t, out.String(), "Signed out.")
	assert.False(t, cli.sessions.IsAuthenticated())
	assert.Zero(t, app.runs)
}

func Test_commandLine_version(t *testing.T) {
	cli, _, out := setup(t)

	require.NoError(t, cli.run(context.Background(), []string{"prepdesk", "version"}))
	assert.Contains(t, out.String(), "prepdesk "+version)
}
