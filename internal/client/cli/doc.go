// Package cli provides the interactive itemgate command-line client.
//
// It wires configuration, the local preferences database, the gateway
// client, the services and the flows into a REPL. Typical flow: register or
// log in, list items, and create or delete items; every create or delete
// first asks for a fresh OTP from the Auth App.
//
// Key features:
//   - Login with password or OTP, registration
//   - MFA key enrollment, with clipboard copy and Auth App shortcut
//   - Paginated item listing, create, edit, delete
//   - Token inspection (whoami)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
