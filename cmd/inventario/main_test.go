package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softura/inventario/config"
	"github.com/softura/inventario/models"
)

// writeSQLiteConfig writes a config file pointing at a fresh SQLite file.
func writeSQLiteConfig(t *testing.T) (cfgPath, dsn string) {
	t.Helper()
	dir := t.TempDir()
	dsn = "file:" + filepath.Join(dir, "inventario.db") + "?_foreign_keys=on"
	content := fmt.Sprintf(`
server:
  port: 5001
database:
  driver: sqlite
  dsn: %q
log:
  level: error
  format: json
`, dsn)
	cfgPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath, dsn
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// init-db
// =============================================================================

func TestRunInitDB(t *testing.T) {
	cfgPath, dsn := writeSQLiteConfig(t)
	args := []string{"init-db", "--config", cfgPath, "--env-file="}

	var stderr bytes.Buffer
	require.Equal(t, ExitSuccess, run(args, &stderr), stderr.String())
	// A second run leaves the seeded categories alone.
	require.Equal(t, ExitSuccess, run(args, &stderr), stderr.String())

	db, err := models.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, discardLogger())
	require.NoError(t, err)
	defer models.Close(db)

	categories, err := models.NewProductsRepository(db).GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, len(models.DefaultCategories))
	assert.Equal(t, "Electricidad", categories[0].Name)
}

func TestRunConfigErrors(t *testing.T) {
	badPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("database:\n  driver: oracle\n"), 0644))

	testCases := []struct {
		name         string
		args         []string
		expectedCode int
		expectedText string
	}{
		{
			name:         "Unsupported driver",
			args:         []string{"init-db", "--config", badPath, "--env-file="},
			expectedCode: ExitConfigError,
			expectedText: `unsupported database driver "oracle"`,
		},
		{
			name:         "Unknown command",
			args:         []string{"migrate"},
			expectedCode: ExitConfigError,
			expectedText: "unknown command",
		},
		{
			name:         "Unexpected argument",
			args:         []string{"serve", "extra"},
			expectedCode: ExitConfigError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer

			code := run(tc.args, &stderr)

			assert.Equal(t, tc.expectedCode, code)
			assert.Contains(t, stderr.String(), tc.expectedText)
		})
	}
}

// =============================================================================
// Server
// =============================================================================

func TestNewServerServesPages(t *testing.T) {
	cfgPath, _ := writeSQLiteConfig(t)
	require.Equal(t, ExitSuccess, run([]string{"init-db", "--config", cfgPath, "--env-file="}, io.Discard))

	cfg, err := config.Load(cfgPath, "")
	require.NoError(t, err)
	s, err := NewServer(cfg, discardLogger())
	require.NoError(t, err)
	defer models.Close(s.db)

	assert.Equal(t, "0.0.0.0:5001", s.httpServer.Addr)

	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crear", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ferretería")

	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerStopsWhenContextIsCancelled(t *testing.T) {
	cfgPath, _ := writeSQLiteConfig(t)
	cfg, err := config.Load(cfgPath, "")
	require.NoError(t, err)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	s, err := NewServer(cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, s.Start(ctx))
}

func TestSessionSecret(t *testing.T) {
	t.Run("Configured secret is used", func(t *testing.T) {
		assert.Equal(t, []byte("s3cr3t"), sessionSecret(config.SessionConfig{Secret: "s3cr3t"}, discardLogger()))
	})

	t.Run("Missing secret is generated per call", func(t *testing.T) {
		first := sessionSecret(config.SessionConfig{}, discardLogger())
		second := sessionSecret(config.SessionConfig{}, discardLogger())
		assert.Len(t, first, 72)
		assert.NotEqual(t, first, second)
	})
}

func TestServerError(t *testing.T) {
	err := &ServerError{Op: "Start", Err: models.ErrStorageUnavailable, ExitCode: ExitHTTPServerError}

	assert.Equal(t, "Start: storage unavailable", err.Error())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}
