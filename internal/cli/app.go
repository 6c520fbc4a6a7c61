package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/factcheck/internal/export"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/ppiankov/factcheck/internal/store"
	"github.com/rs/zerolog"
)

// app bundles what every command needs
type app struct {
	cfg      *model.Config
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	pipeline *pipeline.Pipeline
	exporter *export.Exporter
}

// newApp loads configuration and opens the result store and pipeline.
// m may be nil for commands that expose no metrics.
func newApp(ctx context.Context, m *metrics.Metrics) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Logging)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	p := pipeline.NewPipeline(cfg, pipeline.Options{
		Store:   st,
		Metrics: m,
		Logger:  &logger,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		pipeline: p,
		exporter: export.NewExporter(cfg.Export, m),
	}, nil
}

func (a *app) Close() {
	if err := a.pipeline.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close result store")
	}
}

// writeArtifact writes to path, or stdout when path is empty or "-"
func writeArtifact(art *export.Artifact, path string) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(art.Data)
		if err == nil && !strings.HasSuffix(string(art.Data), "\n") && art.Format != export.FormatXLSX {
			_, err = fmt.Fprintln(os.Stdout)
		}
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, art.Data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
