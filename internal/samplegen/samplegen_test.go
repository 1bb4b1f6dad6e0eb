package samplegen_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/okian/rugbylens/internal/adapters/http/api"
	service "github.com/okian/rugbylens/internal/app"
	"github.com/okian/rugbylens/internal/domain/ingest"
	"github.com/okian/rugbylens/internal/domain/model"
	"github.com/okian/rugbylens/internal/samplegen"
	"github.com/okian/rugbylens/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.InitWith(logger.Options{Writer: io.Discard})
}

func column(name string) int {
	for i, c := range samplegen.Header {
		if c == name {
			return i
		}
	}
	return -1
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		g := samplegen.NewGenerator(7)
		fixtures := g.Fixtures(6)
		m := g.Match(1, fixtures[0][0], fixtures[0][1], 300)

		Convey("Then equal seeds give equal matches", func() {
			g2 := samplegen.NewGenerator(7)
			f2 := g2.Fixtures(6)
			So(f2, ShouldResemble, fixtures)
			So(g2.Match(1, f2[0][0], f2[0][1], 300), ShouldResemble, m)
		})

		Convey("Then every fixture has two different teams", func() {
			So(len(fixtures), ShouldEqual, 6)
			for _, fx := range fixtures {
				So(fx[0], ShouldNotEqual, fx[1])
				So(samplegen.Teams, ShouldContain, fx[0])
				So(samplegen.Teams, ShouldContain, fx[1])
			}
		})

		Convey("Then rows carry both teams in time order", func() {
			// events plus four period markers
			So(len(m.Rows), ShouldEqual, 304)
			teams := map[string]bool{}
			prev := -1.0
			for _, r := range m.Rows {
				So(len(r), ShouldEqual, len(samplegen.Header))
				teams[r[column(model.ColTeamName)]] = true
				ts, err := strconv.ParseFloat(r[column(model.ColMatchTime)], 64)
				So(err, ShouldBeNil)
				So(ts, ShouldBeGreaterThanOrEqualTo, prev)
				prev = ts
			}
			So(teams, ShouldContainKey, m.Home)
			So(teams, ShouldContainKey, m.Away)
			So(len(teams), ShouldEqual, 2)
		})

		Convey("Then stationary actions use the 0,0 end sentinel", func() {
			checked := 0
			for _, r := range m.Rows {
				switch r[column(model.ColActionName)] {
				case "Tackle", "Ruck", "Scrum":
					So(r[column(model.ColXCoordEnd)], ShouldEqual, "0.0")
					So(r[column(model.ColYCoordEnd)], ShouldEqual, "0.0")
					checked++
				case "Kick", "Pass", "Carry":
					So(r[column(model.ColXCoordEnd)]+r[column(model.ColYCoordEnd)], ShouldNotEqual, "0.00.0")
				}
			}
			So(checked, ShouldBeGreaterThan, 0)
		})

		Convey("Then shirt numbers stay within the squad", func() {
			for _, r := range m.Rows {
				s := r[column(model.ColPlayerShirtNumber)]
				if s == "" {
					continue
				}
				n, err := strconv.Atoi(s)
				So(err, ShouldBeNil)
				So(n, ShouldBeBetweenOrEqual, 1, 23)
			}
		})
	})
}

func TestWriteMatchRoundTrip(t *testing.T) {
	Convey("Given a written match file", t, func() {
		dir := t.TempDir()
		g := samplegen.NewGenerator(3)
		m := g.Match(2, "Bath", "Sale Sharks", 120)
		w, err := samplegen.WriteMatch(filepath.Join(dir, "out"), m)
		So(err, ShouldBeNil)
		So(filepath.Base(w.Path), ShouldEqual, "R02_Bath_v_Sale-Sharks.csv")
		So(w.Size, ShouldBeGreaterThan, 0)

		Convey("Then ingestion reads every row back", func() {
			f, err := os.Open(w.Path)
			So(err, ShouldBeNil)
			defer f.Close()

			tbl, err := ingest.Read(context.Background(), []ingest.Upload{{Name: m.Name, Reader: f}})
			So(err, ShouldBeNil)
			So(len(tbl.Rows), ShouldEqual, w.Rows)
			So(tbl.Files, ShouldResemble, []string{m.Name})
			for _, col := range samplegen.Header {
				So(tbl.Columns, ShouldContain, col)
			}
			So(model.Distinct(tbl.Rows, model.FieldTeamName), ShouldHaveLength, 2)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a run without a server", t, func() {
		dir := t.TempDir()
		var out bytes.Buffer
		cfg := &samplegen.Config{Dir: dir, Matches: 2, EventsPerMatch: 50, Seed: 1}

		err := samplegen.Run(context.Background(), cfg, &out)

		Convey("Then files are written and summarised", func() {
			So(err, ShouldBeNil)
			entries, err := os.ReadDir(dir)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(out.String(), ShouldContainSubstring, "wrote 2 files, 108 rows")
		})
	})

	Convey("Given invalid counts", t, func() {
		err := samplegen.Run(context.Background(), &samplegen.Config{Dir: t.TempDir()}, io.Discard)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a running server", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))
		mux := http.NewServeMux()
		api.NewServer(svc, svc, api.WithLogger(logger.Nop())).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		var out bytes.Buffer
		cfg := &samplegen.Config{Dir: t.TempDir(), Matches: 2, EventsPerMatch: 40, Seed: 9, BaseURL: srv.URL}
		err := samplegen.Run(context.Background(), cfg, &out)

		Convey("Then the files are uploaded as one session", func() {
			So(err, ShouldBeNil)
			So(svc.GetStats()["activeSessions"], ShouldEqual, 1)
			So(out.String(), ShouldContainSubstring, "88 rows from 2 files")
			So(out.String(), ShouldContainSubstring, "/dashboard?session=")
			So(out.String(), ShouldNotContainSubstring, "Sub In")
		})
	})

	Convey("Given a server that rejects uploads", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":"schema_error","message":"missing column teamName"}`))
		}))
		defer srv.Close()

		client := samplegen.NewClient(srv.URL, 0)
		dir := t.TempDir()
		w, err := samplegen.WriteMatch(dir, samplegen.NewGenerator(1).Match(1, "Bath", "Gloucester", 10))
		So(err, ShouldBeNil)
		_, err = client.Upload(context.Background(), []string{w.Path})

		Convey("Then the API message is surfaced", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "status 422: missing column teamName")
		})
	})
}
