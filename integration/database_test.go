//go:build database

package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newRemoteSource serves the example school list over HTTP so the source
// cache is exercised.
func newRemoteSource(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../examples/schools.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/schools.json"
}

// exerciseBackends runs the cache and history commands against the backend
// configured through the environment.
func exerciseBackends(t *testing.T) {
	sourceURL := newRemoteSource(t)

	_, err := runCommand(t, "cache", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, "history", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, "rank", sourceURL, "--limit", "5")
	require.NoError(t, err)

	// The second run is served from the cache
	_, err = runCommand(t, "insight", sourceURL)
	require.NoError(t, err)

	out, err := runCommand(t, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, "Total Entries: 1")

	out, err = runCommand(t, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")

	exportPath := filepath.Join(t.TempDir(), "history.parquet")
	_, err = runCommand(t, "history", "export", "--output-file", exportPath)
	require.NoError(t, err)
	assert.FileExists(t, exportPath+".ranking_runs.parquet")
	assert.FileExists(t, exportPath+".school_scores.parquet")
}

// TestElcfinderWithMySQL tests the elcfinder CLI with a MySQL backend.
func TestElcfinderWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "elcfinder",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/elcfinder?parseTime=true", host, port.Port())

	t.Setenv("ELCFINDER_CACHE_BACKEND", "mysql")
	t.Setenv("ELCFINDER_CACHE_DB_CONNECT", connStr)
	t.Setenv("ELCFINDER_HISTORY_BACKEND", "mysql")
	t.Setenv("ELCFINDER_HISTORY_DB_CONNECT", connStr)

	exerciseBackends(t)
}

// TestElcfinderWithPostgres tests the elcfinder CLI with a PostgreSQL backend.
func TestElcfinderWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())

	t.Setenv("ELCFINDER_CACHE_BACKEND", "postgresql")
	t.Setenv("ELCFINDER_CACHE_DB_CONNECT", connStr)
	t.Setenv("ELCFINDER_HISTORY_BACKEND", "postgresql")
	t.Setenv("ELCFINDER_HISTORY_DB_CONNECT", connStr)

	exerciseBackends(t)
}
