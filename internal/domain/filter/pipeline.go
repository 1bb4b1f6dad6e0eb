// Package filter implements the cascading filter engine: an ordered list of
// named stages, each narrowing the previous stage's output.
package filter

import (
	"math"

	"github.com/okian/rugbylens/internal/domain/model"
)

// Stage names in execution order.
const (
	StageMatch      = "match"
	StageTeam       = "team"
	StageAction     = "action"
	StagePlayer     = "player"
	StageTime       = "time"
	StageProject    = "project"
	StageActionType = "action_type"
)

// Stage is one named narrowing step.
type Stage struct {
	Name string
	// Requires lists columns the stage reads.
	Requires []string
	apply    func(*cascade)
}

// cascade is the per-run context threaded through the stages.
type cascade struct {
	table   *model.Table
	catalog Catalog
	sel     State
	opts    Options
	rows    []model.Event
	details []model.Detail
}

// StageCount records how many rows a stage emitted.
type StageCount struct {
	Stage string `json:"stage"`
	Rows  int    `json:"rows"`
}

// Result is the output of one pipeline run.
type Result struct {
	// Rows is the final projected subset.
	Rows []model.Detail
	// Options are the universes the stages computed.
	Options Options
	// Selection is the state after defaults were resolved.
	Selection State
	// Stages lists each stage's output cardinality in order.
	Stages []StageCount
}

// Engine runs the cascade with a fixed catalog and defaults.
type Engine struct {
	catalog   Catalog
	bandwidth float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCatalog sets the action catalog.
func WithCatalog(c Catalog) Option {
	return func(e *Engine) {
		if len(c.Priority) > 0 {
			e.catalog = c
		}
	}
}

// WithDefaultBandwidth sets the bandwidth used when the state leaves it unset.
func WithDefaultBandwidth(b float64) Option {
	return func(e *Engine) {
		if b >= MinBandwidth && b <= MaxBandwidth {
			e.bandwidth = b
		}
	}
}

// New constructs an Engine with the stock catalog.
func New(opts ...Option) *Engine {
	e := &Engine{catalog: DefaultCatalog(), bandwidth: DefaultBandwidth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's action catalog.
func (e *Engine) Catalog() Catalog { return e.catalog }

// Stages returns the cascade in execution order.
func Stages() []Stage {
	return []Stage{
		{Name: StageMatch, apply: matchStage},
		{Name: StageTeam, Requires: []string{model.ColTeamName}, apply: teamStage},
		{Name: StageAction, Requires: []string{model.ColActionName}, apply: actionStage},
		{Name: StagePlayer, Requires: []string{model.ColPlayerName}, apply: playerStage},
		{Name: StageTime, Requires: []string{model.ColMatchTime}, apply: timeStage},
		{Name: StageProject, Requires: model.DetailColumns(), apply: projectStage},
		{Name: StageActionType, Requires: []string{model.ColActionTypeName}, apply: actionTypeStage},
	}
}

// Run applies every stage to the table. It never mutates the table.
func (e *Engine) Run(t *model.Table, s State) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		t = &model.Table{}
	}
	c := &cascade{
		table:   t,
		catalog: e.catalog,
		sel:     s.withDefaults(e.bandwidth),
		rows:    t.Rows,
	}
	c.opts.DisplayFields = DisplayFields()
	c.opts.Matches = append([]string{All}, t.Files...)
	if len(t.Files) == 0 {
		c.opts.Matches = append([]string{All}, model.DistinctFiles(t.Rows)...)
	}

	stages := Stages()
	res := &Result{Stages: make([]StageCount, 0, len(stages))}
	for _, st := range stages {
		for _, col := range st.Requires {
			if !t.HasColumn(col) {
				return nil, &SchemaError{Stage: st.Name, Column: col}
			}
		}
		st.apply(c)
		n := len(c.rows)
		if c.details != nil {
			n = len(c.details)
		}
		res.Stages = append(res.Stages, StageCount{Stage: st.Name, Rows: n})
	}

	res.Rows = c.details
	res.Options = c.opts
	res.Selection = c.sel
	return res, nil
}

// keep returns the rows satisfying pred. The input slice is never written.
func keep(rows []model.Event, pred func(*model.Event) bool) []model.Event {
	out := make([]model.Event, 0, len(rows))
	for i := range rows {
		if pred(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

func matchStage(c *cascade) {
	if c.sel.Match == All {
		return
	}
	match := c.sel.Match
	c.rows = keep(c.rows, func(e *model.Event) bool { return e.SourceFile == match })
}

func teamStage(c *cascade) {
	// The team list is drawn from the whole table, not the selected match.
	c.opts.Teams = model.Distinct(c.table.Rows, model.FieldTeamName)
	if c.sel.Team == "" && len(c.opts.Teams) > 0 {
		c.sel.Team = c.opts.Teams[0]
	}
	team, exclude := c.sel.Team, c.sel.ExcludeTeam

	// Action names are offered from the match subset before team narrowing.
	c.opts.Actions = c.catalog.Selectable(model.Distinct(c.rows, model.FieldActionName))

	c.rows = keep(c.rows, func(e *model.Event) bool {
		name, ok := e.Text(model.FieldTeamName)
		if exclude {
			return !ok || name != team
		}
		return ok && name == team
	})
}

func actionStage(c *cascade) {
	if c.sel.Action == "" && len(c.opts.Actions) > 0 {
		c.sel.Action = c.opts.Actions[0]
	}
	action := c.sel.Action
	c.rows = keep(c.rows, func(e *model.Event) bool {
		name, ok := e.Text(model.FieldActionName)
		return ok && name == action
	})
}

func playerStage(c *cascade) {
	c.opts.Players = append([]string{All}, model.Distinct(c.rows, model.FieldPlayerName)...)
	if c.sel.Player == All {
		return
	}
	player := c.sel.Player
	c.rows = keep(c.rows, func(e *model.Event) bool {
		name, ok := e.Text(model.FieldPlayerName)
		return ok && name == player
	})
}

func timeStage(c *cascade) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range c.rows {
		if !c.rows[i].Has(model.FieldMatchTime) {
			continue
		}
		lo = math.Min(lo, c.rows[i].MatchTime)
		hi = math.Max(hi, c.rows[i].MatchTime)
	}
	if lo > hi {
		// No numeric times: bounds are undefined and nothing can match.
		c.opts.Time = nil
		c.sel.TimeMin, c.sel.TimeMax = nil, nil
		c.rows = keep(c.rows, func(*model.Event) bool { return false })
		return
	}

	bounds := TimeBounds{Min: int(math.Floor(lo)), Max: int(math.Ceil(hi))}
	c.opts.Time = &bounds

	// The window is the requested range intersected with the bounds; a
	// request outside the data keeps nothing. The selection echoes the
	// request, an unset end taking the bound without inverting the range.
	minT, maxT := bounds.Min, bounds.Max
	reqMin, reqMax := bounds.Min, bounds.Max
	switch {
	case c.sel.TimeMin != nil && c.sel.TimeMax != nil:
		reqMin, reqMax = *c.sel.TimeMin, *c.sel.TimeMax
	case c.sel.TimeMin != nil:
		reqMin = *c.sel.TimeMin
		reqMax = max(reqMin, bounds.Max)
	case c.sel.TimeMax != nil:
		reqMax = *c.sel.TimeMax
		reqMin = min(reqMax, bounds.Min)
	}
	if c.sel.TimeMin != nil {
		minT = max(reqMin, bounds.Min)
	}
	if c.sel.TimeMax != nil {
		maxT = min(reqMax, bounds.Max)
	}
	c.sel.TimeMin, c.sel.TimeMax = &reqMin, &reqMax
	if minT > maxT {
		c.rows = keep(c.rows, func(*model.Event) bool { return false })
		return
	}

	fmin, fmax := float64(minT), float64(maxT)
	c.rows = keep(c.rows, func(e *model.Event) bool {
		return e.Has(model.FieldMatchTime) && e.MatchTime >= fmin && e.MatchTime <= fmax
	})
}

func projectStage(c *cascade) {
	c.details = make([]model.Detail, len(c.rows))
	for i := range c.rows {
		c.details[i] = model.Project(&c.rows[i])
	}
}

func actionTypeStage(c *cascade) {
	c.opts.ActionTypes = append([]string{All}, model.DistinctDetail(c.details, model.FieldActionTypeName)...)
	if c.sel.ActionType == All {
		return
	}
	at := c.sel.ActionType
	out := make([]model.Detail, 0, len(c.details))
	for i := range c.details {
		if v, ok := c.details[i].Text(model.FieldActionTypeName); ok && v == at {
			out = append(out, c.details[i])
		}
	}
	c.details = out
}
