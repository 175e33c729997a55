// Package models defines the client-side domain types and the JSON shapes
// exchanged with the API gateway.
package models

// Session is the authenticated identity held by the client.
//
// A session exists only while Token is non-empty. MfaVerified is true only
// right after a successful OTP exchange; password logins never set it.
type Session struct {
	Token           string
	Email           string
	IsMfaRegistered bool
	MfaVerified     bool
}

// Valid reports whether s represents a live session.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
