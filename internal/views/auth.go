package views

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/forms"
)

func (a *App) login(ctx context.Context, route Route) error {
	a.heading("Sign in")
	switch {
	case route.Param("registered") == "true":
		fmt.Fprintln(a.Out, "Registration successful! Please sign in.")
	case route.Param("expired") == "true":
		fmt.Fprintln(a.Out, "Please sign in to continue.")
	}

	email, err := a.Prompter.Ask("Email")
	if err != nil {
		return err
	}
	password, err := a.Prompter.Password("Password")
	if err != nil {
		return err
	}

	form := forms.Login{Email: email, Password: password}
	if err := forms.Validate(form); err != nil {
		if a.printValidation(err) {
			a.Router.Navigate(RouteLogin)
			return nil
		}
		return err
	}

	pair, err := a.Client.Auth.Login(ctx, form.Email, form.Password)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			fmt.Fprintf(a.Out, "Sign in failed: %s\n", apiErr.Message)
			a.Router.Navigate(RouteLogin)
			return nil
		}
		return err
	}

	if err := a.Creds.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return err
	}
	if err := a.Session.SetIdentity(ctx, &pair.User); err != nil {
		a.Logger.Warn("Failed to persist session", "error", err)
	}
	a.Logger.Info("Signed in", "user_id", pair.User.ID, "role", pair.User.Role)
	fmt.Fprintf(a.Out, "Welcome back, %s!\n", pair.User.FullName)

	if a.pending != nil {
		next := *a.pending
		a.pending = nil
		a.Router.NavigateTo(next)
		return nil
	}
	a.Router.Navigate(RouteDashboard)
	return nil
}

var roleChoices = []domain.Role{domain.RoleCandidate, domain.RoleMentor}

func (a *App) register(ctx context.Context, _ Route) error {
	a.heading("Create your account")

	name, err := a.Prompter.Ask("Full name")
	if err != nil {
		return err
	}
	email, err := a.Prompter.Ask("Email")
	if err != nil {
		return err
	}
	password, err := a.Prompter.Password("Password")
	if err != nil {
		return err
	}
	confirm, err := a.Prompter.Password("Confirm password")
	if err != nil {
		return err
	}
	labels := make([]string, len(roleChoices))
	for i, r := range roleChoices {
		labels[i] = r.Label()
	}
	fmt.Fprintln(a.Out, "I am a:")
	pick, err := a.Prompter.Choose("Role", labels, false)
	if err != nil {
		return err
	}

	form := forms.Register{
		FullName:        name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		Role:            string(roleChoices[pick]),
	}
	if err := forms.Validate(form); err != nil {
		if a.printValidation(err) {
			a.Router.Navigate(RouteRegister)
			return nil
		}
		return err
	}

	if _, err := a.Client.Auth.Register(ctx, form.Registration()); err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			fmt.Fprintf(a.Out, "Registration failed: %s\n", apiErr.Message)
			a.Router.Navigate(RouteRegister)
			return nil
		}
		return err
	}

	a.Logger.Info("Account registered", "role", form.Role)
	a.Router.Navigate(RouteLogin, "registered", "true")
	return nil
}
