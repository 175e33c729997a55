package client

import (
	"context"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
)

// Client is the gateway API consumed by the services layer.
type Client interface {
	MfaStatus(ctx context.Context, email string) (*models.MfaStatus, error)
	LoginPassword(ctx context.Context, email, password string) (*models.LoginResult, error)
	LoginOTP(ctx context.Context, email, otp string) (*models.LoginResult, error)
	Register(ctx context.Context, email, password string) error
	RegisterMfaKey(ctx context.Context, email, readableKey string) (*models.MfaKeyResult, error)

	ListItems(ctx context.Context, page, limit int) (*models.ItemsPage, error)
	CreateItem(ctx context.Context, in models.ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, id string, in models.ItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token() string
}
