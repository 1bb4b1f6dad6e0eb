package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/rugbylens/internal/config"
	"github.com/okian/rugbylens/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc := newService(cfg, logger.Nop())

		convey.Convey("When building the handler", func() {
			h := newHandler(ctx, cfg, svc, logger.Nop())

			convey.Convey("Then every surface is routed", func() {
				for _, path := range []string{"/healthz", "/stats", "/dashboard", "/api-docs", "/openapi.yaml", "/docs/"} {
					w := httptest.NewRecorder()
					h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})

			convey.Convey("And unknown sessions are 404", func() {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/nope/view", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When the background updaters run until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then they return without panicking", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
				convey.So(func() { startSessionSweeper(ctx, svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating system metrics", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}
