package flows

import (
	"strings"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/dmitrijs2005/itemgate/internal/client/validation"
	"github.com/dmitrijs2005/itemgate/internal/logging"
)

const msgLoginFirst = "Please log in first."

// Result is the user-visible outcome of a flow operation.
type Result struct {
	// Status is the one-line message to show, possibly empty.
	Status string
	// Errors holds per-field validation messages. A non-empty Errors means
	// nothing was sent to the gateway.
	Errors validation.Errors
	// Done reports that the flow finished: a login created a session, or a
	// registration succeeded and the user should now log in.
	Done bool
}

func status(msg string) Result { return Result{Status: msg} }

func invalid(errs validation.Errors) Result { return Result{Errors: errs} }

// join appends the non-empty messages line by line.
func join(msgs ...string) string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m != "" {
			out = append(out, m)
		}
	}
	return strings.Join(out, "\n")
}

// SessionStore is the part of session.Store the flows depend on.
type SessionStore interface {
	Current() (models.Session, bool)
	Replace(s models.Session) error
	MarkMfaRegistered() bool
}

func orNop(l logging.Logger) logging.Logger {
	if l == nil {
		return logging.Nop()
	}
	return l
}
