package flows

import (
	"context"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/client/validation"
	"github.com/dmitrijs2005/itemgate/internal/logging"
)

const (
	MsgRegistered         = "User registered successfully. Redirecting to login..."
	MsgRegistrationFailed = "Registration failed. Try again."
)

// RegisterFlow creates accounts. It never creates a session.
type RegisterFlow struct {
	auth services.AuthService
	log  logging.Logger
}

func NewRegisterFlow(auth services.AuthService, log logging.Logger) *RegisterFlow {
	return &RegisterFlow{auth: auth, log: orNop(log)}
}

// Submit validates and registers. Done is set when the user should proceed
// to login.
func (f *RegisterFlow) Submit(ctx context.Context, email, password, confirm string) Result {
	if errs := validation.Register(email, password, confirm); !errs.OK() {
		return invalid(errs)
	}

	if err := f.auth.Register(ctx, email, password); err != nil {
		f.log.Warn(ctx, "registration failed", "email", email, "error", err)
		return status(client.MessageOr(err, MsgRegistrationFailed))
	}

	f.log.Info(ctx, "registered", "email", email)
	return Result{Status: MsgRegistered, Done: true}
}
