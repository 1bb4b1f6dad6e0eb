package samplegen

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/okian/rugbylens/pkg/logger"
)

// Run generates cfg.Matches files into cfg.Dir and, when cfg.BaseURL is set,
// uploads them as one session. A summary is printed to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	if cfg.Matches <= 0 {
		return fmt.Errorf("matches must be positive, got %d", cfg.Matches)
	}
	if cfg.EventsPerMatch <= 0 {
		return fmt.Errorf("events per match must be positive, got %d", cfg.EventsPerMatch)
	}
	l := logger.Named("samplegen")
	stats := &Stats{StartTime: time.Now()}

	l.Info(ctx, "generating sample matches",
		logger.String("dir", cfg.Dir),
		logger.Int("matches", cfg.Matches),
		logger.Int("eventsPerMatch", cfg.EventsPerMatch),
		logger.Any("seed", cfg.Seed))

	paths, err := generate(ctx, cfg, stats, l)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	stats.Duration = time.Since(stats.StartTime)
	fmt.Fprintf(out, "wrote %d files, %s rows, %s in %s\n",
		stats.FilesWritten, humanize.Comma(int64(stats.RowsWritten)),
		humanize.IBytes(uint64(stats.BytesWritten)), stats.Duration.Round(time.Millisecond))

	if cfg.BaseURL == "" {
		return nil
	}

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	sum, err := client.Upload(ctx, paths)
	if err != nil {
		return err
	}
	l.Info(ctx, "uploaded sample matches",
		logger.String("sessionID", sum.SessionID),
		logger.Int64("rows", sum.Rows))

	fmt.Fprintf(out, "session %s: %s rows from %d files\n", sum.SessionID, humanize.Comma(sum.Rows), len(sum.Files))
	if len(sum.Teams) > 0 {
		fmt.Fprintf(out, "teams:   %s\n", strings.Join(sum.Teams, ", "))
	}
	if len(sum.Actions) > 0 {
		fmt.Fprintf(out, "actions: %s\n", strings.Join(sum.Actions, ", "))
	}
	fmt.Fprintf(out, "open %s/dashboard?session=%s\n", strings.TrimRight(cfg.BaseURL, "/"), sum.SessionID)
	return nil
}

func generate(ctx context.Context, cfg *Config, stats *Stats, l logger.Logger) ([]string, error) {
	g := NewGenerator(cfg.Seed)
	paths := make([]string, 0, cfg.Matches)
	for i, fx := range g.Fixtures(cfg.Matches) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := g.Match(i+1, fx[0], fx[1], cfg.EventsPerMatch)
		w, err := WriteMatch(cfg.Dir, m)
		if err != nil {
			return nil, err
		}
		stats.FilesWritten++
		stats.RowsWritten += w.Rows
		stats.BytesWritten += w.Size
		paths = append(paths, w.Path)
		if cfg.Verbose {
			l.Info(ctx, "wrote match file",
				logger.String("path", w.Path),
				logger.Int("rows", w.Rows),
				logger.String("size", humanize.IBytes(uint64(w.Size))))
		}
	}
	return paths, nil
}
