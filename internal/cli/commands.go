package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/rugbylens/internal/adapters/render/table"
	service "github.com/okian/rugbylens/internal/app"
	"github.com/okian/rugbylens/internal/domain/filter"
)

const plotPermission = 0o644

func newOptionsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "options <file.csv>...",
		Short: "Print the selectable filter values for the current selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := explore(cmd, f, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeSelection(out, v.Selection)
			o := v.Options
			lists := []struct {
				label  string
				values []string
			}{
				{"TEAM", o.Teams},
				{"MATCH", o.Matches},
				{"ACTION", o.Actions},
				{"PLAYER", o.Players},
				{"ACTION TYPE", o.ActionTypes},
			}
			for _, l := range lists {
				fmt.Fprintln(out)
				if err := table.WriteList(out, l.label, l.values); err != nil {
					return err
				}
			}
			if o.Time != nil {
				cMuted.Fprintf(out, "\nminutes %d to %d\n", o.Time.Min, o.Time.Max)
			} else {
				cWarn.Fprintln(out, "\nno match times in the current selection")
			}
			return nil
		},
	}
}

func newPivotCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "pivot <file.csv>...",
		Short: "Print the player pivot and value counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := explore(cmd, f, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeSelection(out, v.Selection)
			if len(v.Rows) == 0 {
				cWarn.Fprintln(out, "no events match the selection")
				return nil
			}
			cCaption.Fprintf(out, "\n%s\n", v.PivotCaption)
			if err := table.WritePivot(out, "", v.Pivot); err != nil {
				return err
			}
			cCaption.Fprintf(out, "\n%s\n", v.CountsCaption)
			return table.WriteCounts(out, "", string(v.Selection.Display), v.Counts)
		},
	}
}

func newPlotCmd(f *flags) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "plot <file.csv>...",
		Short: "Write the chart page as HTML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, id, err := f.load(cmd, args)
			if err != nil {
				return err
			}
			page, err := svc.Plot(cmd.Context(), id, f.selection(cmd))
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, page, plotPermission); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			cMuted.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", outPath, humanize.IBytes(uint64(len(page))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "plot.html", "output HTML file")
	return cmd
}

func newOverviewCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "overview <file.csv>...",
		Short: "Summarise the loaded files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, id, err := f.load(cmd, args)
			if err != nil {
				return err
			}
			ov, err := svc.Overview(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cCaption.Fprintf(out, "%s rows from %d files\n", humanize.Comma(int64(ov.TotalRows)), len(ov.Files))
			fmt.Fprintf(out, "  files   : %s\n", strings.Join(ov.Files, ", "))
			fmt.Fprintf(out, "  columns : %s\n", strings.Join(ov.Columns, ", "))
			if len(ov.MissingColumns) > 0 {
				cWarn.Fprintf(out, "  missing : %s\n", strings.Join(ov.MissingColumns, ", "))
			}
			for _, l := range []struct {
				label  string
				values []string
			}{
				{"ACTION", ov.ActionNames},
				{"RESULT", ov.ResultNames},
				{"ACTION TYPE", ov.ActionTypes},
			} {
				fmt.Fprintln(out)
				if err := table.WriteList(out, l.label, l.values); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func explore(cmd *cobra.Command, f *flags, args []string) (service.View, error) {
	svc, id, err := f.load(cmd, args)
	if err != nil {
		return service.View{}, err
	}
	return svc.Explore(cmd.Context(), id, f.selection(cmd))
}

func writeSelection(out io.Writer, s filter.State) {
	team := s.Team
	if s.ExcludeTeam {
		team = "all but " + team
	}
	cMuted.Fprintf(out, "team=%s match=%s action=%s player=%s action_type=%s display=%s\n",
		team, s.Match, s.Action, s.Player, s.ActionType, s.Display)
}
