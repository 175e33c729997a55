package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/itemgate/internal/dbx"
)

// LastLogin is the remembered identity of the previous successful login.
type LastLogin struct {
	Email string
	At    time.Time
}

// PreferencesService keeps client-side conveniences that survive restarts.
// Tokens and enrollment keys are never stored here.
type PreferencesService interface {
	LastLogin(ctx context.Context) (LastLogin, error)
	LastEmail(ctx context.Context) (string, error)
	// RememberLogin stores email and the login time together.
	RememberLogin(ctx context.Context, email string, at time.Time) error
	Forget(ctx context.Context) error
}

type preferencesService struct {
	db *sql.DB
}

func NewPreferencesService(db *sql.DB) PreferencesService {
	return &preferencesService{db: db}
}

func (p *preferencesService) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(p.db)
}

func (p *preferencesService) LastLogin(ctx context.Context) (LastLogin, error) {
	r := p.repo()

	email, err := r.Get(ctx, metadata.KeyLastEmail)
	if err != nil {
		return LastLogin{}, err
	}
	ll := LastLogin{Email: string(email)}

	at, err := r.Get(ctx, metadata.KeyLastLoginAt)
	if err != nil {
		return LastLogin{}, err
	}
	if len(at) > 0 {
		if t, err := time.Parse(time.RFC3339, string(at)); err == nil {
			ll.At = t
		}
	}
	return ll, nil
}

func (p *preferencesService) LastEmail(ctx context.Context) (string, error) {
	ll, err := p.LastLogin(ctx)
	return ll.Email, err
}

func (p *preferencesService) RememberLogin(ctx context.Context, email string, at time.Time) error {
	if email == "" {
		return nil
	}
	return dbx.WithTx(ctx, p.db, func(ctx context.Context, tx dbx.DBTX) error {
		r := metadata.NewSQLiteRepository(tx)
		if err := r.Set(ctx, metadata.KeyLastEmail, []byte(email)); err != nil {
			return err
		}
		if err := r.Set(ctx, metadata.KeyLastLoginAt, []byte(at.UTC().Format(time.RFC3339))); err != nil {
			return fmt.Errorf("remember login time: %w", err)
		}
		return nil
	})
}

func (p *preferencesService) Forget(ctx context.Context) error {
	return p.repo().Clear(ctx)
}
