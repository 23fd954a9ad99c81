package repojanitor

import (
	"context"
	"log/slog"
)

// Report summarizes one cleanup run.
type Report struct {
	Kept        int
	Deleted     int
	WouldDelete int
	Failures    []string
}

const groupSeparator = "----------------------------------------"

// Execute applies the planned decisions. Kept components and dry-run
// deletions only produce log lines; live deletions go through the source.
// A failed deletion is logged and counted, then the run moves on to the
// next decision.
func Execute(ctx context.Context, source Source, decisions []Decision, dryRun bool) *Report {
	report := &Report{}

	current := ""
	for _, d := range decisions {
		if d.Component.Group != current {
			if current != "" {
				slog.Info(groupSeparator)
			}
			current = d.Component.Group
		}

		c := d.Component
		switch {
		case d.Action == ActionKeep:
			report.Kept++
			slog.Info("keeping component",
				"version", c.Version, "id", c.ID, "group", c.Group, "lastModified", c.LastModified)
		case dryRun:
			report.WouldDelete++
			slog.Info("would delete component",
				"version", c.Version, "id", c.ID, "group", c.Group, "lastModified", c.LastModified)
		default:
			if err := source.Delete(ctx, c.ID); err != nil {
				slog.Warn("failed to delete component", "id", c.ID, "group", c.Group, "error", err)
				report.Failures = append(report.Failures, c.ID)
				continue
			}
			report.Deleted++
			slog.Info("deleted component",
				"version", c.Version, "id", c.ID, "group", c.Group, "lastModified", c.LastModified)
		}
	}

	return report
}
