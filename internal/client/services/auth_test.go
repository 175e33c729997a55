package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for unit tests of the services.
// Methods not overridden panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	StatusRet *models.MfaStatus
	StatusErr error

	LoginRet *models.LoginResult
	LoginErr error

	RegisterErr error

	KeyRet *models.MfaKeyResult
	KeyErr error

	PageRet *models.ItemsPage
	ItemRet *models.Item
	ItemErr error

	LastEmail    string
	LastPassword string
	LastOTP      string
	LastKey      string
	LastPage     int
	LastLimit    int
	LastID       string
	LastInput    models.ItemInput
}

func (f *fakeClient) MfaStatus(ctx context.Context, email string) (*models.MfaStatus, error) {
	f.LastEmail = email
	return f.StatusRet, f.StatusErr
}

func (f *fakeClient) LoginPassword(ctx context.Context, email, password string) (*models.LoginResult, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) LoginOTP(ctx context.Context, email, otp string) (*models.LoginResult, error) {
	f.LastEmail, f.LastOTP = email, otp
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, password string) error {
	f.LastEmail, f.LastPassword = email, password
	return f.RegisterErr
}

func (f *fakeClient) RegisterMfaKey(ctx context.Context, email, key string) (*models.MfaKeyResult, error) {
	f.LastEmail, f.LastKey = email, key
	return f.KeyRet, f.KeyErr
}

func (f *fakeClient) ListItems(ctx context.Context, page, limit int) (*models.ItemsPage, error) {
	f.LastPage, f.LastLimit = page, limit
	return f.PageRet, f.ItemErr
}

func (f *fakeClient) CreateItem(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	f.LastInput = in
	return f.ItemRet, f.ItemErr
}

func (f *fakeClient) UpdateItem(ctx context.Context, id string, in models.ItemInput) (*models.Item, error) {
	f.LastID, f.LastInput = id, in
	return f.ItemRet, f.ItemErr
}

func (f *fakeClient) DeleteItem(ctx context.Context, id string) error {
	f.LastID = id
	return f.ItemErr
}

func TestCheckAccount(t *testing.T) {
	fc := &fakeClient{StatusRet: &models.MfaStatus{Exists: true, IsMfaRegistered: true}}
	svc := NewAuthService(fc)

	st, err := svc.CheckAccount(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, st.Exists)
	assert.True(t, st.IsMfaRegistered)
	assert.Equal(t, "a@x.com", fc.LastEmail)
}

func TestCheckAccount_Error(t *testing.T) {
	svc := NewAuthService(&fakeClient{StatusErr: client.ErrUnavailable})

	_, err := svc.CheckAccount(context.Background(), "a@x.com")
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestPasswordLogin_NeverMfaVerified(t *testing.T) {
	for _, serverSays := range []bool{false, true} {
		fc := &fakeClient{LoginRet: &models.LoginResult{
			Token: "tok", Email: "a@x.com", IsMfaRegistered: true, MfaVerified: serverSays,
		}}
		svc := NewAuthService(fc)

		s, err := svc.PasswordLogin(context.Background(), "a@x.com", "secret1")
		require.NoError(t, err)
		assert.False(t, s.MfaVerified, "server mfaVerified=%v", serverSays)
		assert.True(t, s.IsMfaRegistered)
		assert.Equal(t, "tok", s.Token)
		assert.Equal(t, "secret1", fc.LastPassword)
	}
}

func TestOtpLogin_MirrorsServerFlag(t *testing.T) {
	for _, serverSays := range []bool{false, true} {
		fc := &fakeClient{LoginRet: &models.LoginResult{Token: "otp", MfaVerified: serverSays}}
		svc := NewAuthService(fc)

		s, err := svc.OtpLogin(context.Background(), "a@x.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, serverSays, s.MfaVerified)
		assert.Equal(t, "a@x.com", s.Email, "falls back to submitted e-mail")
		assert.Equal(t, "123456", fc.LastOTP)
	}
}

func TestLogin_ErrorsWrapped(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 401, Message: "Invalid OTP"}
	svc := NewAuthService(&fakeClient{LoginErr: apiErr})

	_, err := svc.OtpLogin(context.Background(), "a@x.com", "000000")
	require.Error(t, err)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "Invalid OTP", client.MessageOr(err, "fallback"))

	_, err = svc.PasswordLogin(context.Background(), "a@x.com", "secret1")
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestRegister(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc)
	require.NoError(t, svc.Register(context.Background(), "n@x.com", "secret1"))
	assert.Equal(t, "n@x.com", fc.LastEmail)

	fc.RegisterErr = errors.New("boom")
	require.Error(t, svc.Register(context.Background(), "n@x.com", "secret1"))
}

func TestRegisterMfaKey(t *testing.T) {
	fc := &fakeClient{KeyRet: &models.MfaKeyResult{IsMfaRegistered: true}}
	svc := NewAuthService(fc)

	ok, err := svc.RegisterMfaKey(context.Background(), "a@x.com", "AXXXABCDEFGHJKLM")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AXXXABCDEFGHJKLM", fc.LastKey)

	fc.KeyRet = &models.MfaKeyResult{}
	ok, err = svc.RegisterMfaKey(context.Background(), "a@x.com", "k")
	require.NoError(t, err)
	assert.False(t, ok)

	fc.KeyErr = client.ErrUnavailable
	_, err = svc.RegisterMfaKey(context.Background(), "a@x.com", "k")
	require.ErrorIs(t, err, client.ErrUnavailable)
}
