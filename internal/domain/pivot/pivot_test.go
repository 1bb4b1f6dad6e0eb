package pivot_test

import (
	"testing"

	"github.com/okian/rugbylens/internal/domain/model"
	"github.com/okian/rugbylens/internal/domain/pivot"
	. "github.com/smartystreets/goconvey/convey"
)

const keyed = model.FieldPlayerShirtNumber | model.FieldPlayerName |
	model.FieldActionResultName | model.FieldActionTypeName

func detail(shirt int, name, result, typ string) model.Detail {
	return model.Detail{
		PlayerShirtNumber: shirt, PlayerName: name,
		ActionResultName: result, ActionTypeName: typ,
		Present: keyed,
	}
}

func TestBuild(t *testing.T) {
	Convey("Given tackles by three players", t, func() {
		rows := []model.Detail{
			detail(7, "P2", "Won", "Dominant"),
			detail(3, "P1", "Lost", "Passive"),
			detail(3, "P1", "Won", "Dominant"),
			detail(3, "P1", "Won", "Passive"),
			detail(3, "Another", "Won", "Passive"),
		}

		tbl := pivot.Build(rows, model.FieldActionResultName)

		Convey("Then Total is the first column and values follow sorted", func() {
			So(tbl.Columns, ShouldResemble, []string{pivot.TotalColumn, "Lost", "Won"})
		})

		Convey("Then rows are ordered by shirt number then name", func() {
			So(tbl.Rows, ShouldHaveLength, 3)
			So(tbl.Rows[0].PlayerKey, ShouldResemble, pivot.PlayerKey{ShirtNumber: 3, PlayerName: "Another"})
			So(tbl.Rows[1].PlayerKey, ShouldResemble, pivot.PlayerKey{ShirtNumber: 3, PlayerName: "P1"})
			So(tbl.Rows[2].PlayerKey, ShouldResemble, pivot.PlayerKey{ShirtNumber: 7, PlayerName: "P2"})
		})

		Convey("Then every Total equals the sum of its row", func() {
			for _, r := range tbl.Rows {
				sum := 0
				for _, n := range r.Counts[1:] {
					sum += n
				}
				So(r.Counts[0], ShouldEqual, sum)
			}
			So(tbl.Rows[1].Counts[0], ShouldEqual, 3)
		})

		Convey("Then zero cells render blank", func() {
			So(tbl.Cell(2, 1), ShouldEqual, "")
			So(tbl.Cell(2, 2), ShouldEqual, "1")
			So(tbl.Cell(1, 2), ShouldEqual, "2")
		})

		Convey("When grouping by action type instead", func() {
			byType := pivot.Build(rows, model.FieldActionTypeName)

			Convey("Then the columns follow that field", func() {
				So(byType.Columns, ShouldResemble, []string{pivot.TotalColumn, "Dominant", "Passive"})
			})
		})
	})

	Convey("Given rows missing the display value or a key", t, func() {
		noResult := detail(3, "P1", "", "Dominant")
		noResult.Present &^= model.FieldActionResultName
		noShirt := detail(0, "P9", "Won", "Dominant")
		noShirt.Present &^= model.FieldPlayerShirtNumber

		tbl := pivot.Build([]model.Detail{noResult, noShirt, detail(4, "P4", "Won", "")}, model.FieldActionResultName)

		Convey("Then only complete rows are counted", func() {
			So(tbl.Rows, ShouldHaveLength, 1)
			So(tbl.Rows[0].PlayerName, ShouldEqual, "P4")
		})
	})

	Convey("Given the single-row scenario", t, func() {
		tbl := pivot.Build([]model.Detail{detail(3, "P1", "Won", "Dominant")}, model.FieldActionResultName)

		Convey("Then one row with Total 1 results", func() {
			So(tbl.Rows, ShouldHaveLength, 1)
			So(tbl.Rows[0].ShirtNumber, ShouldEqual, 3)
			So(tbl.Rows[0].Counts[0], ShouldEqual, 1)
		})
	})

	Convey("Given no rows", t, func() {
		tbl := pivot.Build(nil, model.FieldActionResultName)

		Convey("Then only the Total column exists", func() {
			So(tbl.Columns, ShouldResemble, []string{pivot.TotalColumn})
			So(tbl.Rows, ShouldBeEmpty)
		})
	})
}

func TestCounts(t *testing.T) {
	Convey("Given results with a tie", t, func() {
		rows := []model.Detail{
			detail(1, "A", "Lost", ""),
			detail(1, "A", "Won", ""),
			detail(2, "B", "Won", ""),
			detail(2, "B", "Penalty", ""),
		}

		counts := pivot.Counts(rows, model.FieldActionResultName)

		Convey("Then the most frequent value comes first and ties keep first-seen order", func() {
			So(counts, ShouldResemble, []pivot.ValueCount{
				{Value: "Won", Count: 2},
				{Value: "Lost", Count: 1},
				{Value: "Penalty", Count: 1},
			})
		})
	})

	Convey("Given captions", t, func() {
		So(pivot.PivotCaption("All", "ActionResultName"), ShouldEqual, "Player involvement in All Actions by ActionResultName:")
		So(pivot.CountsCaption("Dominant", "ActionTypeName"), ShouldEqual, "Results for Dominant Actions by ActionTypeName:")
	})
}
