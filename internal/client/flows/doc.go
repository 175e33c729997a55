// Package flows holds the client-side state machines of itemgate: login,
// registration, MFA enrollment, the OTP gate in front of protected item
// actions, and the paginated items view.
//
// Flows never print. Every operation returns a Result that the shell
// renders, and raw errors go to the injected logging.Logger.
//
// Lock order is Gate → ItemsView / EnrollmentFlow; no flow calls back into
// the gate.
package flows
