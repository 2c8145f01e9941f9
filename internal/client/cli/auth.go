package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studentcrm/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var errPasswordMismatch = errors.New("passwords do not match")

// Register collects the registration form and submits it. A password that
// differs from its confirmation is rejected without contacting the server.
func (a *App) Register(ctx context.Context) error {
	var reg api.Registration
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &reg.FirstName},
		{"Last name", &reg.LastName},
		{"Email", &reg.Email},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	var err error
	if reg.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}
	if reg.ConfirmPassword, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}
	if reg.Password != reg.ConfirmPassword {
		fmt.Fprintln(a.out, "Passwords do not match.")
		return errPasswordMismatch
	}

	if reg.SecurityQuestion, err = getSimpleText(a.reader, "Security question", a.out); err != nil {
		return err
	}
	if reg.SecurityAnswer, err = getSimpleText(a.reader, "Security answer", a.out); err != nil {
		return err
	}

	msg, err := a.api.Register(ctx, reg)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Login prompts for credentials, signs in and remembers who is logged in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	msg, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, msg)

	if s, err := a.api.Session(ctx); err == nil {
		a.setUser(s)
	}
	return nil
}

// Logout ends the session on the server and forgets the local user.
func (a *App) Logout(ctx context.Context) error {
	msg, err := a.api.Logout(ctx)
	a.setUser(nil)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// WhoAmI prints the account behind the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s> (id %d)\n", s.FirstName, s.Email, s.UserID)
	return nil
}

// requireSession asks the server whether the session is valid. When it is
// not, the login prompt runs in place of the caller's command and ok is
// false.
func (a *App) requireSession(ctx context.Context) (*api.SessionInfo, bool) {
	s, err := a.api.Session(ctx)
	if err == nil {
		a.setUser(s)
		return s, true
	}

	if errors.Is(err, api.ErrUnauthenticated) {
		a.setUser(nil)
		fmt.Fprintln(a.out, "Please log in to continue.")
		_ = a.Login(ctx)
		return nil, false
	}

	a.report(ctx, err)
	return nil, false
}

// report prints the server's message for err, or a generic one when the
// failure came from the transport.
func (a *App) report(ctx context.Context, err error) {
	if msg, ok := api.Message(err); ok {
		fmt.Fprintln(a.out, msg)
		return
	}
	a.log.Debug(ctx, "request failed", "error", err)
	if errors.Is(err, api.ErrUnavailable) {
		a.setMode(ModeOffline)
	}
	fmt.Fprintln(a.out, msgGeneric)
}
