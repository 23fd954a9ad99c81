package repojanitor

import (
	"context"
	"log/slog"
)

// Janitor runs the retention pipeline against a source.
type Janitor struct {
	cfg    *Config
	source Source
}

// NewJanitor creates a janitor for the given configuration and source.
func NewJanitor(cfg *Config, source Source) *Janitor {
	return &Janitor{cfg: cfg, source: source}
}

// Cleanup performs one full pass: list, extract, plan, execute. It only
// fails on a pagination safety abort; everything else degrades to a
// partial run, reflected in the report.
func (j *Janitor) Cleanup(ctx context.Context) (*Report, error) {
	entries, err := j.source.List(ctx)
	if err != nil {
		return nil, err
	}

	components, groups := Extract(entries, j.cfg.PathDepth)
	slog.Debug("component listing extracted",
		"entries", len(entries), "components", len(components), "groups", len(groups))

	decisions := Plan(components, groups, j.cfg.RetentionCount, j.cfg.KeepPathPatterns)
	report := Execute(ctx, j.source, decisions, j.cfg.DryRun)

	slog.Info("cleanup run finished",
		"kept", report.Kept,
		"deleted", report.Deleted,
		"wouldDelete", report.WouldDelete,
		"failures", len(report.Failures))
	return report, nil
}
