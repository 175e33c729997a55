// Package metadata stores small key/value preferences of the client, such
// as the last e-mail used to log in.
package metadata

import "context"

const (
	KeyLastEmail   = "last_email"
	KeyLastLoginAt = "last_login_at"
)

type Repository interface {
	// Get returns nil, nil for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
