// Package fakegateway is an in-process stand-in for the API gateway used by
// tests. It keeps accounts, tokens and items in memory, enforces the same
// bearer and MFA rules as the real gateway, and records every request.
package fakegateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/gorilla/mux"
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

type account struct {
	password      string
	mfaKey        string
	mfaRegistered bool
}

type grant struct {
	email       string
	mfaVerified bool
}

type failure struct {
	status  int
	message string
}

type Gateway struct {
	server *httptest.Server

	mu            sync.Mutex
	accounts      map[string]*account
	grants        map[string]grant
	items         []models.Item
	otp           string
	keySetsFlag   bool
	failures      map[string]failure
	requests      []Request
	nextToken     int
	nextItem      int
	createdAtBase time.Time
}

// New starts a gateway that is shut down when t finishes. The valid OTP is
// "123456" until changed with SetOTP.
func New(t testing.TB) *Gateway {
	t.Helper()

	g := &Gateway{
		accounts:      map[string]*account{},
		grants:        map[string]grant{},
		failures:      map[string]failure{},
		otp:           "123456",
		keySetsFlag:   true,
		createdAtBase: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	r := mux.NewRouter()
	r.Use(g.record)
	r.HandleFunc("/auth/mfa-status", g.mfaStatus).Methods(http.MethodGet)
	r.HandleFunc("/auth/login/password", g.loginPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/login/otp", g.loginOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", g.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/mfa/register-key", g.registerKey).Methods(http.MethodPost)
	r.HandleFunc("/items", g.listItems).Methods(http.MethodGet)
	r.HandleFunc("/items", g.createItem).Methods(http.MethodPost)
	r.HandleFunc("/items/{id}", g.updateItem).Methods(http.MethodPut)
	r.HandleFunc("/items/{id}", g.deleteItem).Methods(http.MethodDelete)

	g.server = httptest.NewServer(r)
	t.Cleanup(g.server.Close)
	return g
}

func (g *Gateway) URL() string { return g.server.URL }

func (g *Gateway) AddAccount(email, password string, mfaRegistered bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accounts[email] = &account{password: password, mfaRegistered: mfaRegistered}
}

func (g *Gateway) SetOTP(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.otp = code
}

// SetKeyRegistrationFlag chooses whether a stored MFA key also flips the
// account's registered flag. Default true.
func (g *Gateway) SetKeyRegistrationFlag(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keySetsFlag = v
}

// Fail makes every request matching method and path answer status with
// message until ClearFailures. An empty message sends no JSON body.
func (g *Gateway) Fail(method, path string, status int, message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[method+" "+path] = failure{status: status, message: message}
}

func (g *Gateway) ClearFailures() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = map[string]failure{}
}

// SeedItems adds n items owned by email.
func (g *Gateway) SeedItems(email string, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < n; i++ {
		g.addItemLocked(email, fmt.Sprintf("Seed %d", g.nextItem+1), "")
	}
}

func (g *Gateway) Items() []models.Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Item(nil), g.items...)
}

func (g *Gateway) MfaKey(email string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if a, ok := g.accounts[email]; ok {
		return a.mfaKey
	}
	return ""
}

func (g *Gateway) MfaRegistered(email string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.accounts[email]
	return ok && a.mfaRegistered
}

func (g *Gateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Request(nil), g.requests...)
}

// RequestsTo filters recorded requests by method and exact path.
func (g *Gateway) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range g.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (g *Gateway) ClearRequests() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = nil
}

// IssueToken mints a token for email directly, bypassing the login endpoints.
func (g *Gateway) IssueToken(email string, mfaVerified bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issueLocked(email, mfaVerified)
}

func (g *Gateway) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		g.mu.Lock()
		g.requests = append(g.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		f, failing := g.failures[r.Method+" "+r.URL.Path]
		g.mu.Unlock()

		if failing {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) mfaStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	g.mu.Lock()
	a, ok := g.accounts[email]
	g.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"exists": false})
		return
	}
	writeJSON(w, http.StatusOK, models.MfaStatus{Exists: true, IsMfaRegistered: a.mfaRegistered})
}

func (g *Gateway) loginPassword(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if !decode(w, r, &in) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.accounts[in.Email]
	if !ok || a.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":           g.issueLocked(in.Email, false),
		"email":           in.Email,
		"isMfaRegistered": a.mfaRegistered,
		// A misbehaving gateway; the client must ignore this on password logins.
		"mfaVerified": true,
	})
}

func (g *Gateway) loginOTP(w http.ResponseWriter, r *http.Request) {
	var in models.OtpCredentials
	if !decode(w, r, &in) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.accounts[in.Email]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if !a.mfaRegistered {
		writeError(w, http.StatusBadRequest, "MFA not registered")
		return
	}
	if in.OTP != g.otp {
		writeError(w, http.StatusUnauthorized, "Invalid OTP")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResult{
		Token:           g.issueLocked(in.Email, true),
		Email:           in.Email,
		IsMfaRegistered: a.mfaRegistered,
		MfaVerified:     true,
	})
}

func (g *Gateway) register(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if !decode(w, r, &in) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.accounts[in.Email]; exists {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}
	g.accounts[in.Email] = &account{password: in.Password}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

func (g *Gateway) registerKey(w http.ResponseWriter, r *http.Request) {
	var in models.MfaKeyRequest
	if !decode(w, r, &in) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.grantLocked(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	a, ok := g.accounts[in.Email]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	a.mfaKey = in.ReadableKey
	if g.keySetsFlag {
		a.mfaRegistered = true
	}
	writeJSON(w, http.StatusOK, models.MfaKeyResult{IsMfaRegistered: a.mfaRegistered})
}

func (g *Gateway) listItems(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.grantLocked(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	total := len(g.items)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, models.ItemsPage{
		Items:      append([]models.Item{}, g.items[start:end]...),
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
		TotalItems: total,
	})
}

func (g *Gateway) createItem(w http.ResponseWriter, r *http.Request) {
	var in models.ItemInput
	if !decode(w, r, &in) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	gr, ok := g.requireMfaLocked(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	item := g.addItemLocked(gr.email, in.Title, in.Description)
	writeJSON(w, http.StatusCreated, item)
}

func (g *Gateway) updateItem(w http.ResponseWriter, r *http.Request) {
	var in models.ItemInput
	if !decode(w, r, &in) {
		return
	}
	id := mux.Vars(r)["id"]

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.grantLocked(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	for i := range g.items {
		if g.items[i].ID == id {
			g.items[i].Title = in.Title
			g.items[i].Description = in.Description
			g.items[i].UpdatedAt = g.items[i].UpdatedAt.Add(time.Minute)
			writeJSON(w, http.StatusOK, g.items[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Item not found")
}

func (g *Gateway) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.requireMfaLocked(w, r); !ok {
		return
	}
	for i := range g.items {
		if g.items[i].ID == id {
			g.items = append(g.items[:i], g.items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Item not found")
}

func (g *Gateway) issueLocked(email string, mfaVerified bool) string {
	g.nextToken++
	prefix := "pw"
	if mfaVerified {
		prefix = "otp"
	}
	token := fmt.Sprintf("%s-token-%d", prefix, g.nextToken)
	g.grants[token] = grant{email: email, mfaVerified: mfaVerified}
	return token
}

func (g *Gateway) grantLocked(r *http.Request) (grant, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return grant{}, false
	}
	gr, ok := g.grants[token]
	return gr, ok
}

func (g *Gateway) requireMfaLocked(w http.ResponseWriter, r *http.Request) (grant, bool) {
	gr, ok := g.grantLocked(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return grant{}, false
	}
	if !gr.mfaVerified {
		writeError(w, http.StatusForbidden, "MFA verification required")
		return grant{}, false
	}
	return gr, true
}

func (g *Gateway) addItemLocked(email, title, description string) models.Item {
	g.nextItem++
	at := g.createdAtBase.Add(time.Duration(g.nextItem) * time.Minute)
	item := models.Item{
		ID:          fmt.Sprintf("item-%d", g.nextItem),
		Title:       title,
		Description: description,
		CreatedBy:   email,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	g.items = append(g.items, item)
	return item
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
