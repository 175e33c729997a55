// Package client talks to the API gateway.
//
// # Overview
//
//  1. Client is the transport-agnostic contract for every gateway endpoint
//     the item client consumes (account probe, logins, registration, MFA key
//     registration, item CRUD).
//  2. HTTPClient implements it over HTTP/JSON. The bearer token is read from
//     a TokenSource on every request, so replacing the session is the only
//     thing needed to change what the next request carries.
//  3. InitDatabase and RunMigrations bootstrap the local preferences
//     database with embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers become *APIError,
// which carries the gateway's "message" field and unwraps to ErrUnauthorized,
// ErrForbidden or ErrNotFound for the matching status codes. MessageOr turns
// any error into the text shown to the user.
package client
