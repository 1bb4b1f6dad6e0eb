package model_test

import (
	"testing"

	model "github.com/okian/rugbylens/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	convey.Convey("Given an Event struct", t, func() {
		convey.Convey("When all end coordinates are present and non-zero", func() {
			e := model.Event{
				XCoordEnd: 65,
				YCoordEnd: 42,
				Present:   model.FieldXCoordEnd | model.FieldYCoordEnd,
			}

			convey.Convey("Then it should have an end location", func() {
				convey.So(e.HasEnd(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the end point is the (0,0) sentinel", func() {
			e := model.Event{Present: model.FieldXCoordEnd | model.FieldYCoordEnd}

			convey.Convey("Then it should not have an end location", func() {
				convey.So(e.HasEnd(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When only one end coordinate is zero", func() {
			e := model.Event{XCoordEnd: 0, YCoordEnd: 12, Present: model.FieldXCoordEnd | model.FieldYCoordEnd}

			convey.Convey("Then it should still have an end location", func() {
				convey.So(e.HasEnd(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the end columns are missing", func() {
			e := model.Event{XCoordEnd: 10, YCoordEnd: 10}

			convey.Convey("Then it should not have an end location", func() {
				convey.So(e.HasEnd(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When reading categorical fields", func() {
			e := model.Event{TeamName: "X", ActionName: "Tackle", Present: model.FieldTeamName}

			convey.Convey("Then only present fields should be returned", func() {
				team, ok := e.Text(model.FieldTeamName)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(team, convey.ShouldEqual, "X")

				_, ok = e.Text(model.FieldActionName)
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestTable(t *testing.T) {
	convey.Convey("Given a table with repeated values", t, func() {
		tbl := &model.Table{
			Columns: []string{model.ColSourceFile, model.ColTeamName},
			Rows: []model.Event{
				{SourceFile: "b.csv", TeamName: "Y", Present: model.FieldTeamName},
				{SourceFile: "a.csv", TeamName: "X", Present: model.FieldTeamName},
				{SourceFile: "b.csv", TeamName: "Y", Present: model.FieldTeamName},
				{SourceFile: "a.csv"},
			},
		}

		convey.Convey("Then distinct values keep first-seen order and skip missing", func() {
			convey.So(model.Distinct(tbl.Rows, model.FieldTeamName), convey.ShouldResemble, []string{"Y", "X"})
			convey.So(model.DistinctFiles(tbl.Rows), convey.ShouldResemble, []string{"b.csv", "a.csv"})
		})

		convey.Convey("Then column lookups reflect the union", func() {
			convey.So(tbl.HasColumn(model.ColTeamName), convey.ShouldBeTrue)
			convey.So(tbl.HasColumn(model.ColMatchTime), convey.ShouldBeFalse)
		})

		convey.Convey("Then head is bounded by the row count", func() {
			convey.So(tbl.Head(2), convey.ShouldHaveLength, 2)
			convey.So(tbl.Head(10), convey.ShouldHaveLength, 4)
			convey.So(tbl.Head(0), convey.ShouldBeEmpty)
		})

		convey.Convey("Then known columns map to fields", func() {
			f, ok := model.FieldForColumn(model.ColMatchTime)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(f, convey.ShouldEqual, model.FieldMatchTime)

			_, ok = model.FieldForColumn("venue")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(model.ExpectedColumns(), convey.ShouldHaveLength, 11)
		})
	})
}
