package models

// MfaStatus answers GET /auth/mfa-status.
type MfaStatus struct {
	Exists          bool `json:"exists"`
	IsMfaRegistered bool `json:"isMfaRegistered,omitempty"`
}

// Credentials is the body of POST /auth/login/password and /auth/register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OtpCredentials is the body of POST /auth/login/otp.
type OtpCredentials struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginResult is returned by both login endpoints. The password endpoint
// does not send mfaVerified.
type LoginResult struct {
	Token           string `json:"token"`
	Email           string `json:"email"`
	IsMfaRegistered bool   `json:"isMfaRegistered"`
	MfaVerified     bool   `json:"mfaVerified"`
}

// MfaKeyRequest is the body of POST /auth/mfa/register-key.
type MfaKeyRequest struct {
	Email       string `json:"email"`
	ReadableKey string `json:"readableKey"`
}

// MfaKeyResult answers POST /auth/mfa/register-key.
type MfaKeyResult struct {
	IsMfaRegistered bool `json:"isMfaRegistered"`
}
