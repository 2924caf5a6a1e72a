package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeekdaySentinel/internal/backtest"
	"WeekdaySentinel/internal/collector"
	"WeekdaySentinel/internal/config"
	"WeekdaySentinel/internal/model"
)

func testConfig(t *testing.T, baseURL string) (*config.Config, string) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	dbPath := filepath.Join(t.TempDir(), "prices.db")
	cfg.DataSource.BaseURL = baseURL
	cfg.Cache.SQLitePath = dbPath
	return cfg, dbPath
}

func assertCacheClosed(t *testing.T, dbPath string) {
	t.Helper()
	_, err := os.Stat(dbPath)
	require.NoError(t, err, "cache database was created")
	_, err = os.Stat(dbPath + "-wal")
	assert.True(t, os.IsNotExist(err), "WAL is checkpointed and removed on close")
}

func TestExecute_RetrievalFailureClosesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg, dbPath := testConfig(t, srv.URL)
	err := execute(context.Background(), cfg, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRetrieval)
	assertCacheClosed(t, dbPath)
}

func TestExecute_BadCronClosesCache(t *testing.T) {
	cfg, dbPath := testConfig(t, "http://127.0.0.1:0")
	cfg.Schedule.Cron = "every tuesday"

	err := execute(context.Background(), cfg, true)
	require.Error(t, err)
	assertCacheClosed(t, dbPath)
}

func TestExecute_InvalidConfig(t *testing.T) {
	cfg, dbPath := testConfig(t, "http://127.0.0.1:0")
	cfg.SetStartingBalance(0)

	err := execute(context.Background(), cfg, false)
	require.Error(t, err)
	assert.True(t, backtest.IsConfigurationError(err))
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "nothing is opened for invalid parameters")
}

func TestExecute_DaemonRequiresCron(t *testing.T) {
	cfg, _ := testConfig(t, "http://127.0.0.1:0")
	assert.Error(t, execute(context.Background(), cfg, true))
}

func TestRunOnce(t *testing.T) {
	end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	runner := backtest.NewRunner(&collector.MockFetcher{Daily: collector.GenerateMockDays(80, end, 28)})
	p := backtest.DefaultParams()
	p.Days = 28

	var buf bytes.Buffer
	require.NoError(t, runOnce(context.Background(), runner, p, &buf))
	assert.Contains(t, buf.String(), "SUMMARY")
	assert.Contains(t, buf.String(), "28 from mock")

	runner = backtest.NewRunner(&collector.MockFetcher{Err: assert.AnError})
	buf.Reset()
	assert.ErrorIs(t, runOnce(context.Background(), runner, p, &buf), model.ErrRetrieval)
	assert.Empty(t, buf.String())
}
