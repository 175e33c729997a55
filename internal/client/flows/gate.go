package flows

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/logging"
)

type GateState int

const (
	GateIdle GateState = iota
	GateOtpPrompt
	GateVerifying
)

func (s GateState) String() string {
	switch s {
	case GateOtpPrompt:
		return "otp-prompt"
	case GateVerifying:
		return "verifying"
	default:
		return "idle"
	}
}

const (
	MsgMfaRequiredCreate = "You must register with MFA before creating items. A key will be generated now."
	MsgMfaRequiredDelete = "You must register with MFA before deleting items. A key will be generated now."
	MsgEnterOTP          = "Please enter OTP."
	MsgNoAction          = "No action selected."
	MsgVerifyingOTP      = "Verifying OTP..."
	MsgOtpFailed         = "OTP verification failed."
	MsgItemIDRequired    = "Item id is required."
	MsgConfirmDelete     = "Are you sure you want to delete this item?"
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(question string) bool

// Gate puts a fresh OTP exchange in front of every item create or delete.
// The requested action is held while the OTP is collected and replayed
// exactly once after the token upgrade.
type Gate struct {
	// run serializes operations; mu guards the fields so State and Status
	// stay readable while a Confirm is in flight.
	run sync.Mutex
	mu  sync.Mutex

	state   GateState
	pending models.PendingAction
	status  string

	auth   services.AuthService
	store  SessionStore
	items  *ItemsView
	enroll *EnrollmentFlow
	log    logging.Logger
}

func NewGate(auth services.AuthService, store SessionStore, items *ItemsView, enroll *EnrollmentFlow, log logging.Logger) *Gate {
	return &Gate{auth: auth, store: store, items: items, enroll: enroll, log: orNop(log)}
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending returns the held action, or nil.
func (g *Gate) Pending() models.PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

func (g *Gate) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Gate) set(state GateState, pending models.PendingAction, msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state, g.pending, g.status = state, pending, msg
}

func (g *Gate) setStatus(state GateState, msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state, g.status = state, msg
}

// RequestCreate opens the gate for the current draft.
func (g *Gate) RequestCreate(ctx context.Context) Result {
	g.run.Lock()
	defer g.run.Unlock()

	if strings.TrimSpace(g.items.Draft().Title) == "" {
		return status(MsgTitleRequired)
	}
	if r, ok := g.requireMfa(ctx, MsgMfaRequiredCreate); !ok {
		return r
	}
	return g.open(models.CreateAction{})
}

// RequestDelete asks confirm and then opens the gate for deleting id.
func (g *Gate) RequestDelete(ctx context.Context, id string, confirm ConfirmFunc) Result {
	g.run.Lock()
	defer g.run.Unlock()

	if strings.TrimSpace(id) == "" {
		return status(MsgItemIDRequired)
	}
	if r, ok := g.requireMfa(ctx, MsgMfaRequiredDelete); !ok {
		return r
	}
	if confirm != nil && !confirm(MsgConfirmDelete) {
		return Result{}
	}
	return g.open(models.DeleteAction{ItemID: id})
}

// requireMfa lets the request through only for MFA-registered sessions.
// Otherwise enrollment starts and the request is dropped.
func (g *Gate) requireMfa(ctx context.Context, notice string) (Result, bool) {
	s, ok := g.store.Current()
	if !ok {
		return status(msgLoginFirst), false
	}
	if s.IsMfaRegistered {
		return Result{}, true
	}

	g.log.Info(ctx, "protected action without mfa, starting enrollment", "email", s.Email)
	r := g.enroll.Start(ctx)
	return status(join(notice, r.Status)), false
}

// Open holds action and waits for an OTP. A held action is replaced.
func (g *Gate) Open(action models.PendingAction) Result {
	g.run.Lock()
	defer g.run.Unlock()
	return g.open(action)
}

func (g *Gate) open(action models.PendingAction) Result {
	if prev := g.Pending(); prev != nil {
		g.log.Debug(context.Background(), "pending action replaced", "previous", prev.String(), "next", action.String())
	}
	g.set(GateOtpPrompt, action, "")
	return Result{}
}

// Cancel drops the held action without touching the network.
func (g *Gate) Cancel() {
	g.run.Lock()
	defer g.run.Unlock()
	g.set(GateIdle, nil, "")
}

// Confirm exchanges otp for an MFA-verified token and then runs the held
// action once. A rejected OTP keeps the gate open with the same action and
// leaves the session alone.
func (g *Gate) Confirm(ctx context.Context, otp string) Result {
	g.run.Lock()
	defer g.run.Unlock()

	otp = strings.TrimSpace(otp)
	if otp == "" {
		g.setStatus(g.State(), MsgEnterOTP)
		return status(MsgEnterOTP)
	}
	action := g.Pending()
	if action == nil {
		g.setStatus(GateIdle, MsgNoAction)
		return status(MsgNoAction)
	}
	s, ok := g.store.Current()
	if !ok {
		g.set(GateIdle, nil, msgLoginFirst)
		return status(msgLoginFirst)
	}

	g.setStatus(GateVerifying, MsgVerifyingOTP)

	upgraded, err := g.auth.OtpLogin(ctx, s.Email, otp)
	if err == nil {
		err = g.store.Replace(upgraded)
	}
	if err != nil {
		g.log.Warn(ctx, "otp exchange failed", "email", s.Email, "action", action.String(), "error", err)
		msg := client.MessageOr(err, MsgOtpFailed)
		g.setStatus(GateOtpPrompt, msg)
		return status(msg)
	}
	g.log.Info(ctx, "session upgraded", "email", upgraded.Email, "mfa_verified", upgraded.MfaVerified)

	var r Result
	switch a := action.(type) {
	case models.CreateAction:
		r = g.items.create(ctx)
	case models.DeleteAction:
		r = g.items.remove(ctx, a.ItemID)
	}

	g.set(GateIdle, nil, "")
	return r
}
