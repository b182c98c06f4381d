// Package session holds the per-run context shared by every command:
// configuration, logger, remote client, inventory and metrics.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/config"
	"github.com/ramonehamilton/EDH-Companion/internal/console"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/inventory"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
	"github.com/ramonehamilton/EDH-Companion/internal/metrics"
	"github.com/ramonehamilton/EDH-Companion/internal/report"
)

// ErrInterrupted reports a run canceled by the operator. Nothing is saved
// after it is returned.
var ErrInterrupted = errors.New("interrupted")

// Session is the explicit run context. It is built once per command and
// discarded at the end of the run together with everything fetched.
type Session struct {
	Config  *config.Config
	Logger  *zap.Logger
	Console *console.Console
	Client  *remote.Client
	Metrics *metrics.FetchMetrics

	inventory *inventory.Index
}

// New validates cfg and builds the remote client. A nil logger is replaced
// by a no-op one.
func New(cfg *config.Config, logger *zap.Logger, con *console.Console) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts, err := cfg.RemoteOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m := metrics.NewFetchMetrics()
	return &Session{
		Config:  cfg,
		Logger:  logger,
		Console: con,
		Client:  remote.NewClient(opts, logger.Named("remote"), m),
		Metrics: m,
	}, nil
}

// Inventory loads the configured inventory on first use.
func (s *Session) Inventory() (*inventory.Index, error) {
	if s.inventory != nil {
		return s.inventory, nil
	}
	idx, err := inventory.Load(s.Config.Files.Inventory)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Inventory loaded",
		zap.String("path", s.Config.Files.Inventory),
		zap.Int("cards", idx.Len()))
	s.inventory = idx
	return idx, nil
}

// OutputPath joins name to the configured output directory.
func (s *Session) OutputPath(name string) string {
	return filepath.Join(s.Config.Files.OutputDir, name)
}

// Checkpoint returns ErrInterrupted once ctx is done. Commands call it before
// writing any artifact.
func (s *Session) Checkpoint(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	return nil
}

// Save writes one artifact once the run is known to be still live. It
// returns the path actually written.
func (s *Session) Save(ctx context.Context, path string, write func(io.Writer) error) (string, error) {
	if err := s.Checkpoint(ctx); err != nil {
		return "", err
	}
	return report.WriteFile(path, write)
}

// Interrupted maps a cancellation coming out of a pipeline to ErrInterrupted.
func Interrupted(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrInterrupted
	}
	return err
}

// LogMetrics writes the fetch statistics of the run.
func (s *Session) LogMetrics() {
	stats := s.Metrics.Snapshot()
	fields := []zap.Field{
		zap.Uint64("requests", stats.Requests),
		zap.Uint64("retries", stats.Retries),
		zap.Float64("mean_ms", stats.MeanMs),
		zap.Float64("p95_ms", stats.P95Ms),
		zap.Float64("max_ms", stats.MaxMs),
		zap.Duration("elapsed", stats.Elapsed),
	}
	for _, o := range stats.Outcomes {
		fields = append(fields, zap.Uint64("outcome_"+o.Outcome, o.Count))
	}
	s.Logger.Info("Fetch statistics", fields...)
}
