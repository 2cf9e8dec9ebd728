package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/common-nighthawk/go-figure"

	"github.com/upscprep/prepdesk/internal/session"
	"github.com/upscprep/prepdesk/internal/views"
)

const version = "1.0.0"

var errHelp = errors.New("help provided")

type runner interface {
	Run(ctx context.Context) error
}

type commandLine struct {
	out      io.Writer
	sessions *session.Store
	router   *views.Router
	app      runner
}

func (cli *commandLine) printBanner() {
	fmt.Fprintln(cli.out, figure.NewFigure("PREPDESK", "", true).String())
	fmt.Fprintf(cli.out, "prepdesk %s, UPSC preparation in your terminal\n\n", version)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, `Usage: prepdesk <command> [flags]

Account
  login                     sign in
  register                  create an account
  logout                    sign out and forget the stored session
  whoami                    show the signed-in user

Assessments
  dashboard                 overview (default)
  assessments [-status all|completed|in_progress] [-q TEXT]
  new [-subject ID] [-topic NAME] [-difficulty easy|medium|hard]
  show ID                   assessment details
  take ID                   answer and submit an assessment
  feedback ID               evaluation of a submitted assessment
  progress [-subject ID -topic NAME] [-pdf FILE]

Mentors
  mentors [-subject NAME] [-min-rating N] [-q TEXT]
  mentor ID                 profile, availability and booking
  bookings [-cancel ID]

  help | version`)
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.router.Navigate(views.RouteDashboard)
		return cli.app.Run(ctx)
	}

	switch args[1] {
	case "help", "-h", "-help", "--help":
		cli.printBanner()
		cli.printUsage()
		return errHelp
	case "version":
		cli.printBanner()
		return nil
	case "logout":
		if err := cli.sessions.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Signed out.")
		return nil
	case "whoami":
		id, ok := cli.sessions.Identity()
		if !ok {
			fmt.Fprintln(cli.out, "Not signed in.")
			return nil
		}
		fmt.Fprintf(cli.out, "%s <%s> (%s)\n", id.FullName, id.Email, id.Role.Label())
		return nil
	}

	route, err := cli.route(args[1], args[2:])
	if err != nil {
		return err
	}
	cli.router.NavigateTo(route)
	return cli.app.Run(ctx)
}

// route maps a command and its flags to the view it opens.
func (cli *commandLine) route(cmd string, args []string) (views.Route, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	params := map[string]string{}
	str := func(name, usage string) *string { return fs.String(name, "", usage) }

	var name string
	var flags map[string]*string
	needsID := false

	switch cmd {
	case "login":
		name = views.RouteLogin
	case "register":
		name = views.RouteRegister
	case "dashboard":
		name = views.RouteDashboard
	case "assessments":
		name = views.RouteAssessments
		flags = map[string]*string{
			"status": str("status", "all, completed or in_progress"),
			"q":      str("q", "search subject and topic"),
		}
	case "new":
		name = views.RouteAssessmentNew
		flags = map[string]*string{
			"subject":    str("subject", "subject id, e.g. polity"),
			"topic":      str("topic", "topic name, e.g. Constitution"),
			"difficulty": str("difficulty", "easy, medium or hard"),
		}
	case "show":
		name, needsID = views.RouteAssessment, true
	case "take":
		name, needsID = views.RouteAssessmentTake, true
	case "feedback":
		name, needsID = views.RouteAssessmentFeedback, true
	case "mentors":
		name = views.RouteMentors
		flags = map[string]*string{
			"subject":    str("subject", "only mentors teaching this subject"),
			"min_rating": str("min-rating", "only mentors rated at least this"),
			"q":          str("q", "search name and bio"),
		}
	case "mentor":
		name, needsID = views.RouteMentor, true
	case "bookings":
		name = views.RouteBookings
		flags = map[string]*string{
			"cancel": str("cancel", "booking id to cancel"),
		}
	case "progress":
		name = views.RouteProgress
		flags = map[string]*string{
			"subject": str("subject", "compare attempts on this subject (needs -topic)"),
			"topic":   str("topic", "compare attempts on this topic (needs -subject)"),
			"pdf":     str("pdf", "write a PDF report to this file"),
		}
	default:
		fmt.Fprintf(cli.out, "unknown command %q\n\n", cmd)
		cli.printUsage()
		return views.Route{}, errHelp
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return views.Route{}, errHelp
		}
		return views.Route{}, err
	}
	for key, v := range flags {
		if *v != "" {
			params[key] = *v
		}
	}

	if needsID {
		if fs.NArg() != 1 {
			fmt.Fprintf(cli.out, "Usage: prepdesk %s ID\n", cmd)
			return views.Route{}, errHelp
		}
		params["id"] = fs.Arg(0)
	}

	switch cmd {
	case "assessments":
		switch params["status"] {
		case "", views.FilterAll, views.FilterCompleted, views.FilterInProgress:
		default:
			return views.Route{}, fmt.Errorf("-status must be all, completed or in_progress, got %q", params["status"])
		}
	case "mentors":
		if raw, ok := params["min_rating"]; ok {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return views.Route{}, fmt.Errorf("-min-rating must be a number, got %q", raw)
			}
		}
	case "progress":
		if (params["subject"] == "") != (params["topic"] == "") {
			return views.Route{}, errors.New("-subject and -topic must be given together")
		}
	}

	return views.Route{Name: name, Params: params}, nil
}
