package cli

import (
	"context"
)

// Mfa generates and registers an MFA key for the current account.
func (a *App) Mfa(ctx context.Context) error {
	a.render(a.enroll.Start(ctx))
	return nil
}

func (a *App) CopyKey(ctx context.Context) error {
	a.render(a.enroll.CopyKey(ctx))
	return nil
}

func (a *App) AuthApp(ctx context.Context) error {
	a.render(a.enroll.OpenAuthApp(ctx))
	return nil
}

// showKey is called by the enrollment flow as soon as a key exists.
func (a *App) showKey(key string) {
	a.say("Your MFA key:", key)
	a.say("Enter it in the Auth App. Use 'copykey' to copy it or 'authapp' to open the app.")
}
