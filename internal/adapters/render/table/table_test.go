package table_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okian/rugbylens/internal/adapters/render/table"
	"github.com/okian/rugbylens/internal/domain/model"
	"github.com/okian/rugbylens/internal/domain/pivot"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWritePivot(t *testing.T) {
	Convey("Given a pivot with a zero cell", t, func() {
		present := model.FieldPlayerShirtNumber | model.FieldPlayerName | model.FieldActionResultName
		p := pivot.Build([]model.Detail{
			{PlayerShirtNumber: 3, PlayerName: "Ava", ActionResultName: "Won", Present: present},
			{PlayerShirtNumber: 3, PlayerName: "Ava", ActionResultName: "Won", Present: present},
			{PlayerShirtNumber: 9, PlayerName: "Bo", ActionResultName: "Lost", Present: present},
		}, model.FieldActionResultName)

		var buf bytes.Buffer
		err := table.WritePivot(&buf, pivot.PivotCaption("All", "ActionResultName"), p)
		out := buf.String()

		Convey("Then the caption, header and rows are written", func() {
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Player involvement in All Actions by ActionResultName:")
			So(strings.ToUpper(out), ShouldContainSubstring, "TOTAL")
			So(out, ShouldContainSubstring, "Ava")
			So(out, ShouldContainSubstring, "Bo")
		})

		Convey("Then zero counts are not printed as 0", func() {
			for _, line := range strings.Split(out, "\n") {
				if strings.Contains(line, "Ava") || strings.Contains(line, "Bo") {
					So(line, ShouldNotContainSubstring, " 0 ")
				}
			}
		})
	})
}

func TestWriteCounts(t *testing.T) {
	Convey("Given value counts", t, func() {
		var buf bytes.Buffer
		err := table.WriteCounts(&buf, "Results for All Actions by ActionResultName:", "ActionResultName",
			[]pivot.ValueCount{{Value: "Won", Count: 12}, {Value: "Lost", Count: 4}})

		Convey("Then each value and count appears", func() {
			So(err, ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "Won")
			So(out, ShouldContainSubstring, "12")
			So(strings.Index(out, "Won"), ShouldBeLessThan, strings.Index(out, "Lost"))
		})
	})

	Convey("Given a list of teams", t, func() {
		var buf bytes.Buffer
		err := table.WriteList(&buf, "Teams", []string{"Lions", "Tigers"})

		Convey("Then one row per value is written", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Lions")
			So(buf.String(), ShouldContainSubstring, "Tigers")
		})
	})
}
