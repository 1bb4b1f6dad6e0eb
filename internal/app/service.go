// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the report CLI.
package service

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/okian/rugbylens/internal/adapters/render/echarts"
	"github.com/okian/rugbylens/internal/adapters/render/table"
	"github.com/okian/rugbylens/internal/adapters/repository"
	"github.com/okian/rugbylens/internal/domain/filter"
	"github.com/okian/rugbylens/internal/domain/ingest"
	"github.com/okian/rugbylens/internal/domain/model"
	"github.com/okian/rugbylens/internal/domain/pivot"
	"github.com/okian/rugbylens/internal/domain/plot"
	"github.com/okian/rugbylens/pkg/logger"
	"github.com/okian/rugbylens/pkg/metrics"
)

const defaultOverviewRows = 20

// Service owns upload sessions and runs the exploration pipeline over them.
type Service struct {
	store    repository.Store
	engine   *filter.Engine
	renderer *echarts.Renderer

	// Configuration
	catalog      filter.Catalog
	bandwidth    float64
	densityStep  float64
	chart        echarts.Config
	overviewRows int

	// Counters
	uploads  atomic.Int64
	replaces atomic.Int64
	rows     atomic.Int64
	failures atomic.Int64
	runs     atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the session store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the action catalog. A catalog without priorities is ignored.
func WithCatalog(c filter.Catalog) Option {
	return func(s *Service) {
		if len(c.Priority) > 0 {
			s.catalog = c
		}
	}
}

// WithDefaultBandwidth sets the density bandwidth used when a request leaves it unset.
func WithDefaultBandwidth(b float64) Option {
	return func(s *Service) {
		if b >= filter.MinBandwidth && b <= filter.MaxBandwidth {
			s.bandwidth = b
		}
	}
}

// WithDensityStep sets the density grid cell size in field units.
func WithDensityStep(step float64) Option {
	return func(s *Service) {
		if step > 0 {
			s.densityStep = step
		}
	}
}

// WithChartSize sets the rendered chart page size, e.g. "1200px", "800px".
func WithChartSize(width, height string) Option {
	return func(s *Service) {
		if width != "" {
			s.chart.Width = width
		}
		if height != "" {
			s.chart.Height = height
		}
	}
}

// WithOverviewRows sets how many leading rows Overview returns.
func WithOverviewRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.overviewRows = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:      filter.DefaultCatalog(),
		bandwidth:    filter.DefaultBandwidth,
		densityStep:  plot.DefaultStep,
		chart:        echarts.DefaultConfig(),
		overviewRows: defaultOverviewRows,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.engine = filter.New(filter.WithCatalog(s.catalog), filter.WithDefaultBandwidth(s.bandwidth))
	s.renderer = echarts.New(s.chart)
	return s
}

// Upload ingests files into a new session.
func (s *Service) Upload(ctx context.Context, uploads []ingest.Upload) (SessionInfo, error) {
	t, err := s.ingest(ctx, uploads)
	if err != nil {
		return SessionInfo{}, err
	}
	sess, err := s.store.Create(ctx, t)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("create session: %w", err)
	}
	s.uploads.Add(1)

	s.logger.Info(ctx, "session created",
		logger.String("session_id", sess.ID),
		logger.Strings("files", t.Files),
		logger.Int("rows", t.Len()),
	)
	return sessionInfo(sess), nil
}

// Replace re-ingests files into an existing session, dropping its old table.
func (s *Service) Replace(ctx context.Context, id string, uploads []ingest.Upload) (SessionInfo, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return SessionInfo{}, err
	}
	t, err := s.ingest(ctx, uploads)
	if err != nil {
		return SessionInfo{}, err
	}
	sess, err := s.store.Replace(ctx, id, t)
	if err != nil {
		return SessionInfo{}, err
	}
	s.replaces.Add(1)

	s.logger.Info(ctx, "session replaced",
		logger.String("session_id", id),
		logger.Strings("files", t.Files),
		logger.Int("rows", t.Len()),
	)
	return sessionInfo(sess), nil
}

func (s *Service) ingest(ctx context.Context, uploads []ingest.Upload) (*model.Table, error) {
	start := time.Now()
	t, err := ingest.Read(ctx, uploads)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordIngestionError()
		s.logger.Warn(ctx, "ingestion failed", logger.Int("files", len(uploads)), logger.Error(err))
		return nil, err
	}
	metrics.RecordIngestLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordUpload(len(t.Files), t.Len())
	s.rows.Add(int64(t.Len()))
	return t, nil
}

// Explore runs the filter cascade, the pivot and the figure for one state.
func (s *Service) Explore(ctx context.Context, id string, state filter.State) (View, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}

	l := s.logger.With(logger.String("session_id", id))
	start := time.Now()
	res, err := s.engine.Run(sess.Table, state)
	if err != nil {
		l.Debug(ctx, "pipeline rejected state", logger.Error(err))
		return View{}, err
	}
	sel := res.Selection
	field := sel.Display.Field()
	column := string(sel.Display)

	v := View{
		SessionID:     id,
		Options:       res.Options,
		Selection:     sel,
		Stages:        res.Stages,
		Rows:          detailRows(res.Rows),
		Pivot:         pivot.Build(res.Rows, field),
		PivotCaption:  pivot.PivotCaption(sel.ActionType, column),
		Counts:        pivot.Counts(res.Rows, field),
		CountsCaption: pivot.CountsCaption(sel.ActionType, column),
		Figure: plot.Build(res.Rows, plot.Spec{
			Team:      sel.Team,
			Action:    sel.Action,
			Display:   field,
			Heatmap:   sel.Heatmap,
			Bandwidth: *sel.Bandwidth,
			Step:      s.densityStep,
		}),
	}

	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordPipelineRun(string(v.Figure.Mode), ms)
	for _, sc := range res.Stages {
		metrics.RecordStageRows(sc.Stage, sc.Rows)
	}
	s.runs.Add(1)

	l.Debug(ctx, "pipeline run",
		logger.String("team", sel.Team),
		logger.String("action", sel.Action),
		logger.Int("rows", len(res.Rows)),
		logger.Float64("latency_ms", ms),
	)
	return v, nil
}

// Plot explores and renders the figure as an HTML page.
func (s *Service) Plot(ctx context.Context, id string, state filter.State) ([]byte, error) {
	v, err := s.Explore(ctx, id, state)
	if err != nil {
		return nil, err
	}
	if v.Figure.Empty() {
		s.logger.Debug(ctx, "plot has nothing to draw",
			logger.String("session_id", id), logger.String("mode", string(v.Figure.Mode)), logger.Int("rows", len(v.Rows)))
	}
	start := time.Now()
	page, err := s.renderer.Bytes(v.Figure)
	if err != nil {
		return nil, fmt.Errorf("render plot: %w", err)
	}
	metrics.RecordRenderLatency("html", float64(time.Since(start).Microseconds())/1000)
	return page, nil
}

// PivotText explores and writes the pivot and value counts as text tables.
func (s *Service) PivotText(ctx context.Context, id string, state filter.State, w io.Writer) error {
	v, err := s.Explore(ctx, id, state)
	if err != nil {
		return err
	}
	return s.WriteView(w, v)
}

// WriteView writes a view's pivot and counts tables.
func (s *Service) WriteView(w io.Writer, v View) error {
	start := time.Now()
	if err := table.WritePivot(w, v.PivotCaption, v.Pivot); err != nil {
		return fmt.Errorf("write pivot: %w", err)
	}
	if err := table.WriteCounts(w, v.CountsCaption, string(v.Selection.Display), v.Counts); err != nil {
		return fmt.Errorf("write counts: %w", err)
	}
	metrics.RecordRenderLatency("text", float64(time.Since(start).Microseconds())/1000)
	return nil
}

// Overview summarizes a session's table.
func (s *Service) Overview(ctx context.Context, id string) (Overview, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Overview{}, err
	}
	return overview(sess, s.overviewRows), nil
}

// Close deletes a session.
func (s *Service) Close(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "session closed", logger.String("session_id", id))
	return nil
}

// Sweep drops expired sessions when the store supports it.
func (s *Service) Sweep(ctx context.Context) int {
	sw, ok := s.store.(interface{ Sweep(context.Context) int })
	if !ok {
		return 0
	}
	n := sw.Sweep(ctx)
	if n > 0 {
		s.logger.Debug(ctx, "expired sessions swept", logger.Int("count", n))
	}
	return n
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	active := s.store.Count(ctx)
	metrics.UpdateActiveSessions(active)

	return map[string]interface{}{
		"activeSessions":   active,
		"uploads":          s.uploads.Load(),
		"replacements":     s.replaces.Load(),
		"rowsIngested":     s.rows.Load(),
		"ingestionErrors":  s.failures.Load(),
		"pipelineRuns":     s.runs.Load(),
		"defaultBandwidth": s.bandwidth,
		"densityStep":      s.densityStep,
	}
}
