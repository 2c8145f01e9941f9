package cli

import (
	"context"
	"fmt"
)

type recoveryStep int

const (
	awaitingEmail recoveryStep = iota
	awaitingAnswer
	awaitingNewPassword
	recoveryDone
)

// Forgot walks through password recovery: email, security answer, new
// password. Any server rejection ends the wizard; a local confirmation
// mismatch asks for the new password again.
func (a *App) Forgot(ctx context.Context) error {
	var email string
	step := awaitingEmail

	for step != recoveryDone {
		switch step {
		case awaitingEmail:
			v, err := getSimpleText(a.reader, "Email", a.out)
			if err != nil {
				return err
			}
			q, err := a.api.FetchQuestion(ctx, v)
			if err != nil {
				a.report(ctx, err)
				return err
			}
			email = v
			fmt.Fprintf(a.out, "Security question: %s\n", q)
			step = awaitingAnswer

		case awaitingAnswer:
			answer, err := getSimpleText(a.reader, "Security answer", a.out)
			if err != nil {
				return err
			}
			msg, err := a.api.VerifyAnswer(ctx, email, answer)
			if err != nil {
				a.report(ctx, err)
				return err
			}
			fmt.Fprintln(a.out, msg)
			step = awaitingNewPassword

		case awaitingNewPassword:
			pw, err := getPassword(a.reader, "New password", a.out)
			if err != nil {
				return err
			}
			confirm, err := getPassword(a.reader, "Confirm new password", a.out)
			if err != nil {
				return err
			}
			if pw != confirm {
				fmt.Fprintln(a.out, "Passwords do not match.")
				continue
			}
			msg, err := a.api.ResetPassword(ctx, email, pw, confirm)
			if err != nil {
				a.report(ctx, err)
				return err
			}
			fmt.Fprintln(a.out, msg)
			step = recoveryDone
		}
	}
	return nil
}
