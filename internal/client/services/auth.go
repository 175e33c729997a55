// Package services contains the gateway-facing application services of the
// itemgate client. This file defines the authentication service: account
// probe, password and OTP login, registration and MFA key registration.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
)

// AuthService defines authentication operations for the flows.
//
// Contract:
//   - CheckAccount: report whether the e-mail exists and has MFA registered.
//   - PasswordLogin: authenticate with a password. The resulting session is
//     never MFA-verified, whatever the server sends.
//   - OtpLogin: authenticate with an OTP. MfaVerified mirrors the server.
//   - Register: create a new account; no session is created.
//   - RegisterMfaKey: bind an enrollment key to the e-mail and report the
//     server's isMfaRegistered flag.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	CheckAccount(ctx context.Context, email string) (models.MfaStatus, error)
	PasswordLogin(ctx context.Context, email, password string) (models.Session, error)
	OtpLogin(ctx context.Context, email, otp string) (models.Session, error)
	Register(ctx context.Context, email, password string) error
	RegisterMfaKey(ctx context.Context, email, key string) (bool, error)
}

type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) CheckAccount(ctx context.Context, email string) (models.MfaStatus, error) {
	st, err := a.client.MfaStatus(ctx, email)
	if err != nil {
		return models.MfaStatus{}, fmt.Errorf("mfa status: %w", err)
	}
	return *st, nil
}

func (a *authService) PasswordLogin(ctx context.Context, email, password string) (models.Session, error) {
	res, err := a.client.LoginPassword(ctx, email, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("password login: %w", err)
	}
	s := sessionFrom(email, res)
	s.MfaVerified = false
	return s, nil
}

func (a *authService) OtpLogin(ctx context.Context, email, otp string) (models.Session, error) {
	res, err := a.client.LoginOTP(ctx, email, otp)
	if err != nil {
		return models.Session{}, fmt.Errorf("otp login: %w", err)
	}
	return sessionFrom(email, res), nil
}

func (a *authService) Register(ctx context.Context, email, password string) error {
	if err := a.client.Register(ctx, email, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (a *authService) RegisterMfaKey(ctx context.Context, email, key string) (bool, error) {
	res, err := a.client.RegisterMfaKey(ctx, email, key)
	if err != nil {
		return false, fmt.Errorf("register mfa key: %w", err)
	}
	return res.IsMfaRegistered, nil
}

// sessionFrom builds a session from a login answer, falling back to the
// submitted e-mail when the server omits it.
func sessionFrom(email string, res *models.LoginResult) models.Session {
	s := models.Session{
		Token:           res.Token,
		Email:           res.Email,
		IsMfaRegistered: res.IsMfaRegistered,
		MfaVerified:     res.MfaVerified,
	}
	if s.Email == "" {
		s.Email = email
	}
	return s
}
