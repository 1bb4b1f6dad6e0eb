package filter

import (
	"math"

	"github.com/okian/rugbylens/internal/domain/model"
)

// All is the pass-through selection for match, player and action type.
const All = "All"

// Bandwidth domain for the density surface.
const (
	MinBandwidth     = 0.1
	MaxBandwidth     = 1.0
	DefaultBandwidth = 0.4
)

// DisplayField selects the categorical column used for grouping.
type DisplayField string

// Display fields offered for grouping.
const (
	DisplayResult DisplayField = model.ColActionResultName
	DisplayType   DisplayField = model.ColActionTypeName
)

// DisplayFields lists the selectable display fields in menu order.
func DisplayFields() []DisplayField { return []DisplayField{DisplayResult, DisplayType} }

// Field maps the display field to its model field.
func (d DisplayField) Field() model.Field {
	if d == DisplayType {
		return model.FieldActionTypeName
	}
	return model.FieldActionResultName
}

// State is the set of user-selected filter values for one interaction.
// Zero values mean "default": the first team and action of their universes,
// All for match, player and action type, the full time bounds, result-name
// grouping and the default bandwidth. An explicit bandwidth is never replaced
// by the default; it must lie in [MinBandwidth, MaxBandwidth].
type State struct {
	Team        string       `json:"team"`
	ExcludeTeam bool         `json:"exclude_team"`
	Match       string       `json:"match"`
	Action      string       `json:"action"`
	Player      string       `json:"player"`
	TimeMin     *int         `json:"time_min,omitempty"`
	TimeMax     *int         `json:"time_max,omitempty"`
	ActionType  string       `json:"action_type"`
	Display     DisplayField `json:"display"`
	Heatmap     bool         `json:"heatmap"`
	Bandwidth   *float64     `json:"bandwidth,omitempty"`
}

// Validate checks values that do not depend on the data.
func (s State) Validate() error {
	switch s.Display {
	case "", DisplayResult, DisplayType:
	default:
		return invalid("unknown display field %q", s.Display)
	}
	if b := s.Bandwidth; b != nil {
		if math.IsNaN(*b) || math.IsInf(*b, 0) {
			return invalid("bandwidth %v is not a finite number", *b)
		}
		if *b < MinBandwidth || *b > MaxBandwidth {
			return invalid("bandwidth %.2f outside [%.1f, %.1f]", *b, MinBandwidth, MaxBandwidth)
		}
	}
	if s.TimeMin != nil && s.TimeMax != nil && *s.TimeMin > *s.TimeMax {
		return invalid("time range [%d, %d] is inverted", *s.TimeMin, *s.TimeMax)
	}
	return nil
}

// withDefaults fills data-independent defaults.
func (s State) withDefaults(bandwidth float64) State {
	if s.Match == "" {
		s.Match = All
	}
	if s.Player == "" {
		s.Player = All
	}
	if s.ActionType == "" {
		s.ActionType = All
	}
	if s.Display == "" {
		s.Display = DisplayResult
	}
	if s.Bandwidth == nil {
		s.Bandwidth = &bandwidth
	}
	return s
}

// TimeBounds is the selectable MatchTime window.
type TimeBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Options are the selectable universes computed while the cascade runs.
type Options struct {
	Teams         []string       `json:"teams"`
	Matches       []string       `json:"matches"`
	Actions       []string       `json:"actions"`
	Players       []string       `json:"players"`
	Time          *TimeBounds    `json:"time,omitempty"`
	ActionTypes   []string       `json:"action_types"`
	DisplayFields []DisplayField `json:"display_fields"`
}
