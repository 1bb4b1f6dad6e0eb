package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/rugbylens/internal/domain/filter"
	"github.com/okian/rugbylens/internal/domain/pivot"
	"github.com/okian/rugbylens/pkg/logger"
)

// ExploreHandler serves filtered views of a session.
type ExploreHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewExploreHandler creates a new explore handler.
func NewExploreHandler(deps Dependencies, l logger.Logger) *ExploreHandler {
	return &ExploreHandler{deps: deps, logger: l}
}

// HandleView handles GET /sessions/{id}/view requests.
func (h *ExploreHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	const op = "api.view"
	state, err := parseState(r.URL.Query())
	if err != nil {
		fail(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.Explore(r.Context(), r.PathValue("id"), state)
	if err != nil {
		fail(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandlePlot handles GET /sessions/{id}/plot requests.
func (h *ExploreHandler) HandlePlot(w http.ResponseWriter, r *http.Request) {
	const op = "api.plot"
	state, err := parseState(r.URL.Query())
	if err != nil {
		fail(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := h.deps.Plot(r.Context(), r.PathValue("id"), state)
	if err != nil {
		fail(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

type pivotResponse struct {
	PivotCaption  string             `json:"pivot_caption"`
	Pivot         pivot.Table        `json:"pivot"`
	CountsCaption string             `json:"counts_caption"`
	Counts        []pivot.ValueCount `json:"counts"`
}

// HandlePivot handles GET /sessions/{id}/pivot requests. format=json returns
// the tables as JSON; the default is aligned text.
func (h *ExploreHandler) HandlePivot(w http.ResponseWriter, r *http.Request) {
	const op = "api.pivot"
	q := r.URL.Query()
	state, err := parseState(q)
	if err != nil {
		fail(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	id := r.PathValue("id")

	switch format := q.Get("format"); format {
	case "json":
		v, err := h.deps.Explore(r.Context(), id, state)
		if err != nil {
			fail(r.Context(), w, h.logger, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, pivotResponse{
			PivotCaption:  v.PivotCaption,
			Pivot:         v.Pivot,
			CountsCaption: v.CountsCaption,
			Counts:        v.Counts,
		})
	case "", "text":
		var buf strings.Builder
		if err := h.deps.PivotText(r.Context(), id, state, &buf); err != nil {
			fail(r.Context(), w, h.logger, Wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(buf.String()))
	default:
		fail(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, fmt.Errorf("unknown format %q", format)))
	}
}

// parseState reads filter values from query parameters. Absent parameters
// keep their defaults.
func parseState(q url.Values) (filter.State, error) {
	s := filter.State{
		Team:       q.Get("team"),
		Match:      q.Get("match"),
		Action:     q.Get("action"),
		Player:     q.Get("player"),
		ActionType: q.Get("action_type"),
		Display:    filter.DisplayField(q.Get("display")),
	}
	var err error
	if s.ExcludeTeam, err = boolParam(q, "exclude"); err != nil {
		return s, err
	}
	if s.Heatmap, err = boolParam(q, "heatmap"); err != nil {
		return s, err
	}
	if s.TimeMin, err = intParam(q, "time_min"); err != nil {
		return s, err
	}
	if s.TimeMax, err = intParam(q, "time_max"); err != nil {
		return s, err
	}
	if v := q.Get("bandwidth"); v != "" {
		b, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("bandwidth: %w", err)
		}
		s.Bandwidth = &b
	}
	return s, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func intParam(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &n, nil
}
