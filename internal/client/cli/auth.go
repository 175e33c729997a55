package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/itemgate/internal/client/flows"
)

// Register prompts for an e-mail, a password and its confirmation and
// submits them. No session is created; the user logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	r := a.register.Submit(ctx, email, password, confirm)
	a.render(r)
	if r.Done {
		a.say("Type 'login' to continue.")
	}
	return nil
}

// Login asks for the method and runs the matching half of the login flow.
// The remembered e-mail is offered as the default.
func (a *App) Login(ctx context.Context) error {
	method, err := getSimpleText(a.reader, "Login with (p)assword or (o)tp?", a.out)
	if err != nil {
		return err
	}

	last, err := a.prefs.LastEmail(ctx)
	if err != nil {
		a.log.Warn(ctx, "reading last email failed", "error", err)
	}
	email, err := GetTextWithDefault(a.reader, "Enter email", last, a.out)
	if err != nil {
		return err
	}

	var r flows.Result
	switch strings.ToLower(method) {
	case "p", "password":
		a.login.ChoosePasswordMode()
		password, err := getPassword(a.reader, "Enter password", a.out)
		if err != nil {
			return err
		}
		r = a.login.SubmitPasswordLogin(ctx, email, password)

	case "o", "otp":
		a.render(a.login.ChooseOtpMode(ctx, email))
		if a.login.Mode() != flows.LoginOTP {
			return nil
		}
		otp, err := getSimpleText(a.reader, "Enter OTP", a.out)
		if err != nil {
			return err
		}
		r = a.login.SubmitOtpLogin(ctx, email, otp)

	default:
		a.say("Unknown login method:", method)
		return nil
	}

	a.render(r)
	if !r.Done {
		return nil
	}

	if err := a.prefs.RememberLogin(ctx, email, nowFn()); err != nil {
		a.log.Warn(ctx, "saving last email failed", "error", err)
	}
	a.items.Reset()
	a.render(a.items.Fetch(ctx, 1))
	a.printItems()
	return nil
}

// Forget removes the remembered e-mail.
func (a *App) Forget(ctx context.Context) error {
	if err := a.prefs.Forget(ctx); err != nil {
		a.log.Error(ctx, "clearing preferences failed", "error", err)
		a.say("Could not clear saved data.")
		return err
	}
	a.say("Saved e-mail forgotten.")
	return nil
}

// Logout destroys the session and every piece of state derived from it.
func (a *App) Logout(ctx context.Context) error {
	a.gate.Cancel()
	a.enroll.Close()
	a.items.Reset()
	a.login.Reset()
	a.store.Clear()
	a.log.Info(ctx, "logged out")
	a.say("Logged out.")
	return nil
}
