package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/polkiloo/ffmarket/internal/server/http/dto"
)

const healthPath = "/health"

// Options configure the health monitor.
type Options struct {
	ServerURL  string
	Interval   time.Duration
	Timeout    time.Duration
	MaxRetries int
}

// Monitor polls the server health endpoint and alerts after repeated failures.
type Monitor struct {
	endpoint   string
	interval   time.Duration
	maxRetries int
	client     *http.Client
	logger     *slog.Logger

	failures int
}

// NewMonitor validates options and constructs Monitor.
func NewMonitor(opts Options, logger *slog.Logger) (*Monitor, error) {
	base, err := url.Parse(opts.ServerURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", opts.ServerURL)
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		endpoint:   base.JoinPath(healthPath).String(),
		interval:   opts.Interval,
		maxRetries: opts.MaxRetries,
		client:     &http.Client{Timeout: opts.Timeout},
		logger:     logger,
	}, nil
}

// Probe performs a single health request.
func (m *Monitor) Probe(ctx context.Context) (*dto.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var report dto.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, errors.New("invalid JSON response")
	}
	if report.Status != "ok" {
		return nil, fmt.Errorf("unhealthy status: %s", report.Status)
	}
	return &report, nil
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("starting health monitor",
		slog.String("url", m.endpoint),
		slog.Duration("interval", m.interval),
		slog.Int("max_retries", m.maxRetries),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.check(ctx)
		select {
		case <-ctx.Done():
			m.logger.Info("stopping health monitor")
			return
		case <-ticker.C:
		}
	}
}

// check probes once and alerts when the failure threshold is reached.
func (m *Monitor) check(ctx context.Context) {
	report, err := m.Probe(ctx)
	if err == nil {
		if m.failures > 0 {
			m.logger.Info("server recovered", slog.String("version", report.Version), slog.String("supabase", report.Supabase))
		} else {
			m.logger.Info("server healthy", slog.String("version", report.Version), slog.String("supabase", report.Supabase))
		}
		m.failures = 0
		return
	}
	if ctx.Err() != nil {
		return
	}

	m.failures++
	m.logger.Warn("health check failed",
		slog.Int("attempt", m.failures),
		slog.Int("max_retries", m.maxRetries),
		slog.String("error", err.Error()),
	)
	if m.failures < m.maxRetries {
		return
	}

	m.logger.Error("server unresponsive, check server logs and restart manually", slog.Int("attempts", m.failures))
	m.failures = 0
}
