// Package cli implements the report command: the dashboard pipeline run over
// local CSV files with results printed to the terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	service "github.com/okian/rugbylens/internal/app"
	"github.com/okian/rugbylens/internal/config"
	"github.com/okian/rugbylens/internal/domain/filter"
	"github.com/okian/rugbylens/internal/domain/ingest"
	"github.com/okian/rugbylens/pkg/logger"
)

var (
	cCaption = color.New(color.FgCyan, color.Bold)
	cMuted   = color.New(color.Faint)
	cWarn    = color.New(color.FgYellow)
)

// flags holds the persistent filter flags shared by every subcommand.
type flags struct {
	state     filter.State
	timeMin   int
	timeMax   int
	bandwidth float64
	display   string
	logLevel  string
	noColor   bool
}

// NewRootCommand builds the report command tree writing to out and logging to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "report",
		Short: "Rugby match event reports",
		Long: `Load match event CSV files and print the dashboard's filter options,
player pivot and value counts, or write its chart page. File base names
identify matches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if f.noColor {
				color.NoColor = true
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&f.state.Team, "team", "", "team to analyse (default: first team in the data)")
	pf.BoolVar(&f.state.ExcludeTeam, "exclude", false, "select every team except --team")
	pf.StringVar(&f.state.Match, "match", "", "match file name (default: All)")
	pf.StringVar(&f.state.Action, "action", "", "action name (default: first selectable action)")
	pf.StringVar(&f.state.Player, "player", "", "player name (default: All)")
	pf.IntVar(&f.timeMin, "time-min", 0, "lower match minute (default: data minimum)")
	pf.IntVar(&f.timeMax, "time-max", 0, "upper match minute (default: data maximum)")
	pf.StringVar(&f.state.ActionType, "action-type", "", "action type (default: All)")
	pf.StringVar(&f.display, "display", string(filter.DisplayResult), "grouping column: ActionResultName or ActionTypeName")
	pf.BoolVar(&f.state.Heatmap, "heatmap", false, "draw a density surface instead of points")
	pf.Float64Var(&f.bandwidth, "bandwidth", 0, "density bandwidth in [0.1, 1.0] (default from config)")
	pf.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored captions")

	root.AddCommand(
		newOptionsCmd(f),
		newPivotCmd(f),
		newPlotCmd(f),
		newOverviewCmd(f),
	)
	return root
}

// Execute runs the report command against os.Args.
func Execute(ctx context.Context) int {
	if err := NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// selection converts the flags into a filter state. Unset time flags keep
// the data bounds and an unset bandwidth takes the configured default.
func (f *flags) selection(cmd *cobra.Command) filter.State {
	s := f.state
	s.Display = filter.DisplayField(f.display)
	if cmd.Flags().Changed("time-min") {
		v := f.timeMin
		s.TimeMin = &v
	}
	if cmd.Flags().Changed("time-max") {
		v := f.timeMax
		s.TimeMax = &v
	}
	if cmd.Flags().Changed("bandwidth") {
		v := f.bandwidth
		s.Bandwidth = &v
	}
	return s
}

// load builds an in-process service from configuration and ingests paths
// into a fresh session.
func (f *flags) load(cmd *cobra.Command, paths []string) (*service.Service, string, error) {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, "", fmt.Errorf("invalid --log-level %q: %w", f.logLevel, err)
	}
	l, err := logger.New(logger.Options{Format: cfg.LogFormat, Writer: cmd.ErrOrStderr()}, level)
	if err != nil {
		return nil, "", err
	}

	svc := service.New(
		service.WithLogger(l),
		service.WithCatalog(cfg.Catalog()),
		service.WithDefaultBandwidth(cfg.DefaultBandwidth),
		service.WithDensityStep(cfg.DensityStep),
		service.WithChartSize(cfg.ChartWidth, cfg.ChartHeight),
		service.WithOverviewRows(cfg.OverviewRows),
	)

	uploads := make([]ingest.Upload, 0, len(paths))
	for _, p := range paths {
		file, err := os.Open(p)
		if err != nil {
			closeAll(uploads)
			return nil, "", err
		}
		uploads = append(uploads, ingest.Upload{Name: filepath.Base(p), Reader: file})
	}
	defer closeAll(uploads)

	info, err := svc.Upload(ctx, uploads)
	if err != nil {
		return nil, "", err
	}
	return svc, info.ID, nil
}

func closeAll(uploads []ingest.Upload) {
	for _, u := range uploads {
		if c, ok := u.Reader.(io.Closer); ok {
			_ = c.Close()
		}
	}
}
