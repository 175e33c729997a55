package flows

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/client/validation"
	"github.com/dmitrijs2005/itemgate/internal/logging"
)

type LoginMode int

const (
	LoginIdle LoginMode = iota
	LoginPassword
	LoginOTP
)

func (m LoginMode) String() string {
	switch m {
	case LoginPassword:
		return "password"
	case LoginOTP:
		return "otp"
	default:
		return "idle"
	}
}

type loginEvent int

const (
	evChoosePassword loginEvent = iota
	evOtpAccepted
	evOtpRefused
	evLoggedIn
)

// loginTransitions lists every legal mode change. Events missing for a mode
// leave the mode unchanged.
var loginTransitions = map[LoginMode]map[loginEvent]LoginMode{
	LoginIdle: {
		evChoosePassword: LoginPassword,
		evOtpAccepted:    LoginOTP,
		evOtpRefused:     LoginIdle,
	},
	LoginPassword: {
		evChoosePassword: LoginPassword,
		evOtpAccepted:    LoginOTP,
		evOtpRefused:     LoginIdle,
		evLoggedIn:       LoginIdle,
	},
	LoginOTP: {
		evChoosePassword: LoginPassword,
		evOtpAccepted:    LoginOTP,
		evOtpRefused:     LoginIdle,
		evLoggedIn:       LoginIdle,
	},
}

const (
	MsgUserNotFound        = "User not found. Please register first in the main app."
	MsgMfaNotRegistered    = "You are not registered with MFA. Register with MFA to login using OTP."
	MsgMfaRegisteredEnter  = "MFA registered. Please enter OTP from Auth App."
	MsgCheckAccountFailed  = "Something went wrong while checking your account."
	MsgPasswordLoginFailed = "Password login failed. Check credentials."
	MsgOtpLoginFailed      = "OTP login failed."
	MsgChooseLoginMethod   = "Choose a login method first."
	MsgLoggedIn            = "Logged in."
)

// LoginFlow is the credential-check state machine in front of the items
// view. It is safe for concurrent use.
type LoginFlow struct {
	mu    sync.Mutex
	mode  LoginMode
	auth  services.AuthService
	store SessionStore
	log   logging.Logger
}

func NewLoginFlow(auth services.AuthService, store SessionStore, log logging.Logger) *LoginFlow {
	return &LoginFlow{auth: auth, store: store, log: orNop(log)}
}

func (f *LoginFlow) Mode() LoginMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Reset returns the flow to idle, e.g. after logout.
func (f *LoginFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = LoginIdle
}

func (f *LoginFlow) fire(ev loginEvent) {
	if next, ok := loginTransitions[f.mode][ev]; ok {
		f.mode = next
	}
}

func (f *LoginFlow) ChoosePasswordMode() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fire(evChoosePassword)
	return Result{}
}

// ChooseOtpMode probes the account and switches to OTP entry only when it
// has MFA registered. It never creates a session.
func (f *LoginFlow) ChooseOtpMode(ctx context.Context, email string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if errs := validation.CheckAccount(email); !errs.OK() {
		f.fire(evOtpRefused)
		return invalid(errs)
	}

	st, err := f.auth.CheckAccount(ctx, email)
	if err != nil {
		f.log.Error(ctx, "account check failed", "email", email, "error", err)
		f.fire(evOtpRefused)
		return status(MsgCheckAccountFailed)
	}

	switch {
	case !st.Exists:
		f.fire(evOtpRefused)
		return status(MsgUserNotFound)
	case !st.IsMfaRegistered:
		f.fire(evOtpRefused)
		return status(MsgMfaNotRegistered)
	default:
		f.fire(evOtpAccepted)
		return status(MsgMfaRegisteredEnter)
	}
}

// SubmitPasswordLogin creates a session that is never MFA-verified.
func (f *LoginFlow) SubmitPasswordLogin(ctx context.Context, email, password string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mode != LoginPassword {
		return status(MsgChooseLoginMethod)
	}
	if errs := validation.PasswordLogin(email, password); !errs.OK() {
		return invalid(errs)
	}

	s, err := f.auth.PasswordLogin(ctx, email, password)
	if err == nil {
		err = f.store.Replace(s)
	}
	if err != nil {
		f.log.Warn(ctx, "password login failed", "email", email, "error", err)
		return status(client.MessageOr(err, MsgPasswordLoginFailed))
	}

	f.log.Info(ctx, "logged in", "email", s.Email, "method", "password")
	f.fire(evLoggedIn)
	return Result{Status: MsgLoggedIn, Done: true}
}

// SubmitOtpLogin creates a session whose MfaVerified mirrors the server.
func (f *LoginFlow) SubmitOtpLogin(ctx context.Context, email, otp string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mode != LoginOTP {
		return status(MsgChooseLoginMethod)
	}
	if errs := validation.OtpLogin(email, otp); !errs.OK() {
		return invalid(errs)
	}

	s, err := f.auth.OtpLogin(ctx, email, otp)
	if err == nil {
		err = f.store.Replace(s)
	}
	if err != nil {
		f.log.Warn(ctx, "otp login failed", "email", email, "error", err)
		return status(client.MessageOr(err, MsgOtpLoginFailed))
	}

	f.log.Info(ctx, "logged in", "email", s.Email, "method", "otp", "mfa_verified", s.MfaVerified)
	f.fire(evLoggedIn)
	return Result{Status: MsgLoggedIn, Done: true}
}
