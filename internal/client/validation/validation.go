// Package validation checks user input before anything reaches the gateway.
// Each check returns field-scoped Errors; an empty result means "valid".
package validation

import (
	"net/mail"
	"sort"
	"strings"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
	FieldOTP      = "otp"

	MinPasswordLength = 6
	OTPLength         = 6
)

const (
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Invalid email format"
	MsgPasswordShort   = "Password must be at least 6 characters"
	MsgConfirmRequired = "Confirm password is required"
	MsgPasswordsDiffer = "Passwords do not match"
	MsgOTPLength       = "OTP must be 6 digits"
	MsgOTPDigits       = "OTP must contain only digits"
)

// Errors maps a field name to its first error message.
type Errors map[string]string

func (e Errors) OK() bool { return len(e) == 0 }

// Error renders the errors in a stable field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

func (e Errors) add(field, msg string) {
	if msg == "" {
		return
	}
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Email returns the message for an invalid address, or "".
func Email(email string) string {
	if email == "" {
		return MsgEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return MsgEmailInvalid
	}
	local, domain, _ := strings.Cut(email, "@")
	if local == "" || !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return MsgEmailInvalid
	}
	return ""
}

// Password returns the message for a too-short password, or "".
func Password(password string) string {
	if len(password) < MinPasswordLength {
		return MsgPasswordShort
	}
	return ""
}

// OTP returns the message for a code that is not exactly six digits, or "".
func OTP(otp string) string {
	if len(otp) != OTPLength {
		return MsgOTPLength
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return MsgOTPDigits
		}
	}
	return ""
}

func CheckAccount(email string) Errors {
	errs := Errors{}
	errs.add(FieldEmail, Email(email))
	return errs
}

func PasswordLogin(email, password string) Errors {
	errs := Errors{}
	errs.add(FieldEmail, Email(email))
	errs.add(FieldPassword, Password(password))
	return errs
}

func OtpLogin(email, otp string) Errors {
	errs := Errors{}
	errs.add(FieldEmail, Email(email))
	errs.add(FieldOTP, OTP(otp))
	return errs
}

// Register validates every field at once. A confirmation mismatch is
// reported on the confirm field.
func Register(email, password, confirm string) Errors {
	errs := Errors{}
	errs.add(FieldEmail, Email(email))
	errs.add(FieldPassword, Password(password))
	if confirm == "" {
		errs.add(FieldConfirm, MsgConfirmRequired)
	} else if password != confirm {
		errs.add(FieldConfirm, MsgPasswordsDiffer)
	}
	return errs
}
