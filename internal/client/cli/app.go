package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/config"
	"github.com/dmitrijs2005/itemgate/internal/client/flows"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/client/session"
	"github.com/dmitrijs2005/itemgate/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	store *session.Store
	prefs services.PreferencesService

	login    *flows.LoginFlow
	register *flows.RegisterFlow
	enroll   *flows.EnrollmentFlow
	gate     *flows.Gate
	items    *flows.ItemsView

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the preferences database and wires the gateway client,
// services and flows described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DataFile)
	if err != nil {
		log.Error(ctx, "error initializing database", "file", c.DataFile, "error", err)
		return nil, err
	}

	store := session.NewStore()
	api, err := client.NewHTTPClient(c.APIGatewayURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "gateway")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(api)
	is := services.NewItemService(api)
	ps := services.NewPreferencesService(db)

	a := &App{
		config: c,
		log:    log,
		db:     db,
		store:  store,
		prefs:  ps,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	a.items = flows.NewItemsView(is, log.With("flow", "items"))
	a.login = flows.NewLoginFlow(as, store, log.With("flow", "login"))
	a.register = flows.NewRegisterFlow(as, log.With("flow", "register"))
	a.enroll = flows.NewEnrollmentFlow(as, store, c.AuthAppURL, log.With("flow", "enroll"))
	a.enroll.OnKey = a.showKey
	a.gate = flows.NewGate(as, store, a.items, a.enroll, log.With("flow", "gate"))
	return a, nil
}

// Run starts the REPL on the app's input and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to itemgate (type 'help' for commands)")
	if ll, err := a.prefs.LastLogin(ctx); err == nil && ll.Email != "" && !ll.At.IsZero() {
		printlnFn(fmt.Sprintf("Last login: %s at %s", ll.Email, flows.FormatTime(ll.At)))
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.Active()
}

func (a *App) getStatus() string {
	s, ok := a.store.Current()
	if !ok {
		return ""
	}
	st := s.Email
	if s.IsMfaRegistered {
		st += " mfa"
	}
	return fmt.Sprintf("(%s)", st)
}

func (a *App) say(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// render prints field errors in a stable order, then the status line.
func (a *App) render(r flows.Result) {
	fields := make([]string, 0, len(r.Errors))
	for f := range r.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		a.say(fmt.Sprintf("  %s: %s", f, r.Errors[f]))
	}
	if r.Status != "" {
		a.say(r.Status)
	}
}
