package flows

import (
	"context"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/logging"
	"github.com/dmitrijs2005/itemgate/internal/mfakey"
	"github.com/pkg/browser"
)

// EnrollOutcome is the result of the last Start.
type EnrollOutcome int

const (
	EnrollNone EnrollOutcome = iota
	EnrollRegistered
	// EnrollPartial: the key was stored but the server did not set the
	// account's MFA flag.
	EnrollPartial
	EnrollFailed
)

func (o EnrollOutcome) String() string {
	switch o {
	case EnrollRegistered:
		return "registered"
	case EnrollPartial:
		return "partial"
	case EnrollFailed:
		return "failed"
	default:
		return "none"
	}
}

const (
	MsgKeyRegistered     = "MFA key registered. Now open the Auth App and enter this key to see OTPs."
	MsgKeyFlagNotSet     = "Key saved, but MFA flag not set. Please check with admin."
	MsgKeyFailed         = "Failed to register MFA key. Try again later."
	MsgKeyGenerateFailed = "Failed to generate MFA key."
	MsgKeyCopied         = "Key copied. Use it in the Auth App."
	MsgKeyCopyFailed     = "Unable to copy. Please copy the key manually."
	MsgNoKey             = "No MFA key yet. Run mfa to generate one."
	MsgAuthAppMissing    = "Auth App URL is not configured. Please contact your administrator."
	MsgAuthAppOpened     = "Auth App opened in your browser."
	MsgAuthAppFailed     = "Unable to open the browser. Visit the Auth App manually."
)

// Seams for tests.
var (
	generateKey    = mfakey.Generate
	writeClipboard = clipboard.WriteAll
	openBrowserURL = browser.OpenURL
)

// EnrollmentFlow generates an MFA enrollment key for the logged-in user and
// registers it with the gateway. It never moves on to OTP entry by itself.
type EnrollmentFlow struct {
	mu         sync.Mutex
	auth       services.AuthService
	store      SessionStore
	authAppURL string
	log        logging.Logger

	key     string
	outcome EnrollOutcome

	// OnKey, if set, receives the key as soon as it exists, before the
	// gateway has answered. It is called with the flow locked.
	OnKey func(key string)
}

func NewEnrollmentFlow(auth services.AuthService, store SessionStore, authAppURL string, log logging.Logger) *EnrollmentFlow {
	return &EnrollmentFlow{auth: auth, store: store, authAppURL: authAppURL, log: orNop(log)}
}

// Start generates a fresh key, publishes it and registers it. The key stays
// available whatever the gateway answers.
func (f *EnrollmentFlow) Start(ctx context.Context) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.store.Current()
	if !ok {
		return status(msgLoginFirst)
	}

	key, err := generateKey(s.Email)
	if err != nil {
		f.log.Error(ctx, "mfa key generation failed", "error", err)
		f.outcome = EnrollFailed
		return status(MsgKeyGenerateFailed)
	}
	f.key = key
	if f.OnKey != nil {
		f.OnKey(key)
	}

	registered, err := f.auth.RegisterMfaKey(ctx, s.Email, key)
	switch {
	case err != nil:
		f.log.Error(ctx, "mfa key registration failed", "email", s.Email, "error", err)
		f.outcome = EnrollFailed
		return status(client.MessageOr(err, MsgKeyFailed))
	case !registered:
		f.log.Warn(ctx, "mfa key stored without registration flag", "email", s.Email)
		f.outcome = EnrollPartial
		return status(MsgKeyFlagNotSet)
	}

	f.store.MarkMfaRegistered()
	f.outcome = EnrollRegistered
	f.log.Info(ctx, "mfa key registered", "email", s.Email)
	return status(MsgKeyRegistered)
}

func (f *EnrollmentFlow) Key() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

func (f *EnrollmentFlow) Outcome() EnrollOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// CopyKey puts the key on the system clipboard. Failure is not fatal.
func (f *EnrollmentFlow) CopyKey(ctx context.Context) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.key == "" {
		return status(MsgNoKey)
	}
	if err := writeClipboard(f.key); err != nil {
		f.log.Warn(ctx, "clipboard write failed", "error", err)
		return status(MsgKeyCopyFailed)
	}
	return status(MsgKeyCopied)
}

// OpenAuthApp opens the configured Auth App in the system browser.
func (f *EnrollmentFlow) OpenAuthApp(ctx context.Context) Result {
	if f.authAppURL == "" {
		return status(MsgAuthAppMissing)
	}
	if err := openBrowserURL(f.authAppURL); err != nil {
		f.log.Warn(ctx, "open auth app failed", "url", f.authAppURL, "error", err)
		return status(MsgAuthAppFailed)
	}
	return status(MsgAuthAppOpened)
}

// Close discards the key.
func (f *EnrollmentFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.key = ""
	f.outcome = EnrollNone
}
