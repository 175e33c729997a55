package flows

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/client/session"
	"github.com/dmitrijs2005/itemgate/internal/testutil/fakegateway"
	"github.com/stretchr/testify/require"
)

// harness wires every flow to a fake gateway over real HTTP.
type harness struct {
	gw     *fakegateway.Gateway
	store  *session.Store
	auth   services.AuthService
	view   *ItemsView
	login  *LoginFlow
	reg    *RegisterFlow
	enroll *EnrollmentFlow
	gate   *Gate
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	gw := fakegateway.New(t)
	store := session.NewStore()
	c, err := client.NewHTTPClient(gw.URL(), store)
	require.NoError(t, err)

	auth := services.NewAuthService(c)
	view := NewItemsView(services.NewItemService(c), nil)
	enroll := NewEnrollmentFlow(auth, store, "https://auth.example.test", nil)

	return &harness{
		gw:     gw,
		store:  store,
		auth:   auth,
		view:   view,
		login:  NewLoginFlow(auth, store, nil),
		reg:    NewRegisterFlow(auth, nil),
		enroll: enroll,
		gate:   NewGate(auth, store, view, enroll, nil),
	}
}

// loginWithPassword installs a password session for an existing account.
func (h *harness) loginWithPassword(t *testing.T, email string) models.Session {
	t.Helper()
	token := h.gw.IssueToken(email, false)
	s := models.Session{Token: token, Email: email, IsMfaRegistered: h.gw.MfaRegistered(email)}
	require.NoError(t, h.store.Replace(s))
	return s
}

func current(t *testing.T, st *session.Store) models.Session {
	t.Helper()
	s, ok := st.Current()
	require.True(t, ok, "expected a session")
	return s
}

// itemWrites counts item create, update and delete calls seen by gw.
func itemWrites(gw *fakegateway.Gateway) int {
	n := 0
	for _, r := range gw.Requests() {
		if strings.HasPrefix(r.Path, "/items") && r.Method != http.MethodGet {
			n++
		}
	}
	return n
}

// indexOf returns the position of the first recorded request matching
// method and path, or -1.
func indexOf(reqs []fakegateway.Request, method, path string) int {
	for i, r := range reqs {
		if r.Method == method && r.Path == path {
			return i
		}
	}
	return -1
}
