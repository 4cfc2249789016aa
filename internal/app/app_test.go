package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/config"
	"github.com/ayo6706/transfer-simulator/internal/simulation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	return &config.Config{
		Workers:            2,
		Amount:             decimal.RequireFromString("0.01"),
		Accounts:           2,
		Seed:               1,
		LogLevel:           "info",
		Format:             config.FormatText,
		PublicRateLimitRPS: 10,
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 0

	var out bytes.Buffer
	err := run(context.Background(), cfg, zaptest.NewLogger(t), &out)
	require.ErrorIs(t, err, simulation.ErrInvalidConfig)
	assert.Zero(t, out.Len())
}

func TestRun_TimeoutInterruptsRun(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.ProgressInterval = 10 * time.Millisecond
	cfg.MetricsAddr = "127.0.0.1:0"

	var out bytes.Buffer
	err := run(context.Background(), cfg, zaptest.NewLogger(t), &out)
	require.ErrorIs(t, err, simulation.ErrInterrupted)
	assert.Zero(t, out.Len(), "no report is written for an interrupted run")
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, testConfig(), zaptest.NewLogger(t), &bytes.Buffer{})
	require.ErrorIs(t, err, simulation.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_MonitorListenFailure(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsAddr = "not-an-address"

	err := run(context.Background(), cfg, zaptest.NewLogger(t), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on not-an-address")
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "", "WARN", "error"} {
		logger, err := newLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}
	_, err := newLogger("trace")
	assert.Error(t, err)
}
