package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rugbylens/internal/cli"
)

const header = "actionName,ActionResultName,ActionTypeName,teamName,playerName,playerShirtNumber,MatchTime,x_coord,y_coord,x_coord_end,y_coord_end"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func fixtures(t *testing.T) (string, []string) {
	dir := t.TempDir()
	a := writeFile(t, dir, "A.csv", header+"\n"+
		"Tackle,Won,Dominant,X,P1,3,10,50,30,0,0\n"+
		"Tackle,Lost,Passive,Y,P2,7,20,60,40,65,42\n"+
		"Sub In,,,X,P9,19,50,,,,\n")
	b := writeFile(t, dir, "B.csv", header+"\n"+
		"Carry,Gain,Pick & Go,Y,P4,8,31,70,20,75,22\n"+
		"Tackle,Won,Dominant,Y,P2,7,44,20,10,0,0\n")
	return dir, []string{a, b}
}

func run(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := cli.NewRootCommand(&out, &errOut)
	root.SetArgs(append(args, "--no-color"))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestReportCommands(t *testing.T) {
	color.NoColor = true

	Convey("Given two match files", t, func() {
		dir, files := fixtures(t)

		Convey("When listing options with defaults", func() {
			out, _, err := run(append([]string{"options"}, files...)...)

			Convey("Then the first team and action are selected", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "team=X")
				So(out, ShouldContainSubstring, "action=Tackle")
				So(out, ShouldContainSubstring, "Carry")
				So(out, ShouldNotContainSubstring, "Sub In")
				So(out, ShouldContainSubstring, "minutes 10 to 10")
			})
		})

		Convey("When printing the pivot for team Y", func() {
			out, _, err := run(append([]string{"pivot", "--team", "Y", "--time-min", "0", "--time-max", "80"}, files...)...)

			Convey("Then captions and players are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "team=Y")
				So(out, ShouldContainSubstring, "Player involvement in All Actions by ActionResultName:")
				So(out, ShouldContainSubstring, "Results for All Actions by ActionResultName:")
				So(out, ShouldContainSubstring, "P2")
			})
		})

		Convey("When the selection matches nothing", func() {
			out, _, err := run(append([]string{"pivot", "--team", "Y", "--player", "Nobody"}, files...)...)

			Convey("Then a notice is printed instead of tables", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "no events match the selection")
			})
		})

		Convey("When the time window lies after the last event", func() {
			out, _, err := run(append([]string{"pivot", "--team", "Y", "--time-min", "90", "--time-max", "95"}, files...)...)

			Convey("Then nothing matches", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "no events match the selection")
			})
		})

		Convey("When writing a plot", func() {
			target := filepath.Join(dir, "chart.html")
			out, _, err := run(append([]string{"plot", "--team", "Y", "--heatmap", "--out", target}, files...)...)

			Convey("Then the HTML page is written", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "wrote "+target)
				page, err := os.ReadFile(target)
				So(err, ShouldBeNil)
				So(string(page), ShouldContainSubstring, "<html")
			})
		})

		Convey("When printing the overview", func() {
			out, _, err := run(append([]string{"overview"}, files...)...)

			Convey("Then totals and files are listed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "5 rows from 2 files")
				So(out, ShouldContainSubstring, "A.csv, B.csv")
				So(out, ShouldContainSubstring, "Sub In")
			})
		})

		Convey("When flags are invalid", func() {
			_, _, err := run(append([]string{"pivot", "--bandwidth", "3", "--heatmap"}, files...)...)
			So(err, ShouldNotBeNil)

			_, _, err = run(append([]string{"pivot", "--bandwidth", "0", "--heatmap"}, files...)...)
			So(err, ShouldNotBeNil)

			_, _, err = run(append([]string{"pivot", "--time-min", "40", "--time-max", "10"}, files...)...)
			So(err, ShouldNotBeNil)

			_, _, err = run(append([]string{"options", "--log-level", "loud"}, files...)...)
			So(err, ShouldNotBeNil)
		})

		Convey("When no files are given", func() {
			_, _, err := run("pivot")
			So(err, ShouldNotBeNil)
		})

		Convey("When a file is missing", func() {
			_, _, err := run("options", filepath.Join(dir, "missing.csv"))
			So(err, ShouldNotBeNil)
		})
	})
}
