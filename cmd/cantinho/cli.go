package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cantinho/common/logger"
	commonmetrics "cantinho/common/metrics"
	"cantinho/internal/activity"
	"cantinho/internal/config"
	"cantinho/internal/db"
	"cantinho/internal/metrics"
	"cantinho/internal/remote"
	"cantinho/internal/session"
	"cantinho/internal/todo"
	"cantinho/internal/validation"

	"go.opentelemetry.io/otel"
	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

var errNotSignedIn = errors.New("not signed in, run `cantinho login` first")

type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	tokenPath string
	jsonOut   bool

	loadConfig func() (*config.Config, error)

	// openReminders returns the reminder repository and a function releasing it.
	openReminders func(ctx context.Context, c *cli) (todo.Repository, func(), error)

	cfg           *config.Config
	logger        *slog.Logger
	infraMetrics  *commonmetrics.Metrics
	domainMetrics *metrics.Metrics
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		in:            in,
		out:           out,
		errOut:        errOut,
		tokenPath:     defaultTokenPath(),
		loadConfig:    config.Load,
		openReminders: openDatabaseReminders,
	}
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cantinho", "session.json")
}

// setup runs before every command.
func (c *cli) setup() error {
	c.logger = logger.NewWriter(c.errOut)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Instruments stay no-op: the CLI never installs a meter provider.
	c.infraMetrics, err = commonmetrics.New("cantinho-cli", c.logger)
	if err != nil {
		return err
	}
	c.domainMetrics, err = metrics.New(otel.Meter("cantinho-cli"))
	return err
}

func (c *cli) client() *remote.Client {
	return remote.NewClient(c.cfg.Remote.BaseURL, c.cfg.Remote.Timeout(), c.infraMetrics.Remote)
}

// session restores the stored token into a manager bound to client.
func (c *cli) session(ctx context.Context, client *remote.Client) (*session.Manager, error) {
	m := session.NewManager(client, session.NewFileStore(c.tokenPath), validation.New(), activity.NewRecorder(nil, c.logger), c.domainMetrics, c.logger)
	if err := m.Restore(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// signedIn is session plus the requirement that someone is signed in.
func (c *cli) signedIn(ctx context.Context) (*remote.Client, *session.Manager, error) {
	client := c.client()
	m, err := c.session(ctx, client)
	if err != nil {
		return nil, nil, err
	}
	if !m.IsAuthenticated() {
		return nil, nil, errNotSignedIn
	}
	return client, m, nil
}

func (c *cli) reminders(ctx context.Context) (*todo.Store, func(), error) {
	repo, release, err := c.openReminders(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	store := todo.NewStore(repo, activity.NewRecorder(nil, c.logger), c.domainMetrics, c.logger)
	if err := store.Init(ctx); err != nil {
		release()
		return nil, nil, err
	}
	return store, release, nil
}

func openDatabaseReminders(ctx context.Context, c *cli) (todo.Repository, func(), error) {
	database, err := db.New(ctx, c.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx, database, (*todo.Reminder)(nil)); err != nil {
		db.Close(database)
		return nil, nil, err
	}
	return todo.NewRepository(database, c.infraMetrics), func() { db.Close(database) }, nil
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
