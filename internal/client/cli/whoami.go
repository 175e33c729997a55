package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/client/flows"
	"github.com/dmitrijs2005/itemgate/internal/client/session"
)

// nowFn is a test seam for the clock.
var nowFn = time.Now

// WhoAmI prints the session and whatever the token itself says.
func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.store.Current()
	if !ok {
		a.say("Not logged in.")
		return nil
	}

	a.say("email:", s.Email)
	a.say("mfa registered:", s.IsMfaRegistered)
	a.say("mfa verified:", s.MfaVerified)

	info, err := session.Describe(s.Token)
	if err != nil {
		a.log.Debug(ctx, "token is not a jwt", "error", err)
		a.say("token: opaque")
		return nil
	}
	if info.Subject != "" {
		a.say("subject:", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		exp := flows.FormatTime(info.ExpiresAt)
		if info.Expired(nowFn()) {
			exp += " (expired)"
		}
		a.say("expires:", exp)
	}
	if info.MfaVerified != nil {
		a.say(fmt.Sprintf("token mfa verified: %t", *info.MfaVerified))
	}
	return nil
}
