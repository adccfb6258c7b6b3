package testhelpers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/config"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
)

var checkoutPostgres = service{
	image: "postgres:16-alpine",
	port:  "5432",
	env: map[string]string{
		"POSTGRES_USER":     "checkout",
		"POSTGRES_PASSWORD": "checkout",
		"POSTGRES_DB":       "checkout_test",
	},
	readyOn:    "database system is ready to accept connections",
	readyCount: 2,
	startup:    time.Minute,
}

// checkoutTables lists every table the schema creates, children first.
const checkoutTables = `idempotency_keys, checkout_sessions, payments,
	invoice_line_items, invoices, payment_methods`

type TestDatabase struct {
	started
	DB     *postgres.DB
	Config *config.DatabaseConfig
}

// SetupTestDatabase starts Postgres and applies every migration under
// db/migrations in name order.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	ctx := context.Background()
	pg := checkoutPostgres.start(t)

	cfg := &config.DatabaseConfig{
		Host:            pg.host,
		Port:            pg.port,
		User:            checkoutPostgres.env["POSTGRES_USER"],
		Password:        checkoutPostgres.env["POSTGRES_PASSWORD"],
		Name:            checkoutPostgres.env["POSTGRES_DB"],
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	db, err := postgres.Connect(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	for _, path := range migrationFiles(t) {
		ddl, err := os.ReadFile(path) //nolint:gosec // paths come from the repo's migration dir
		require.NoError(t, err)
		_, err = db.Pool.Exec(ctx, string(ddl))
		require.NoError(t, err, "apply %s", filepath.Base(path))
	}

	return &TestDatabase{started: pg, DB: db, Config: cfg}
}

func (td *TestDatabase) Cleanup(t *testing.T) {
	td.DB.Close()
	td.terminate(t)
}

// CleanTables empties every checkout table between tests.
func (td *TestDatabase) CleanTables(t *testing.T) {
	_, err := td.DB.Pool.Exec(context.Background(),
		"TRUNCATE TABLE "+checkoutTables+" RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

func migrationFiles(t *testing.T) []string {
	t.Helper()
	_, self, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(self), "..", "..")

	files, err := filepath.Glob(filepath.Join(root, "db", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no migrations found under %s", root)
	sort.Strings(files)
	return files
}
