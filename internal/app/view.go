package service

import (
	"time"

	"github.com/samber/lo"

	"github.com/okian/rugbylens/internal/adapters/repository"
	"github.com/okian/rugbylens/internal/domain/filter"
	"github.com/okian/rugbylens/internal/domain/model"
	"github.com/okian/rugbylens/internal/domain/pivot"
	"github.com/okian/rugbylens/internal/domain/plot"
)

// SessionInfo describes a stored upload.
type SessionInfo struct {
	ID        string    `json:"id"`
	Files     []string  `json:"files"`
	Rows      int       `json:"rows"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func sessionInfo(s repository.Session) SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		Files:     s.Table.Files,
		Rows:      s.Table.Len(),
		Columns:   s.Table.Columns,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// View is everything one interaction shows: the control universes, the
// resolved selection, the detail rows, both tables and the figure.
type View struct {
	SessionID     string              `json:"session_id"`
	Options       filter.Options      `json:"options"`
	Selection     filter.State        `json:"selection"`
	Stages        []filter.StageCount `json:"stages"`
	Rows          []DetailRow         `json:"rows"`
	Pivot         pivot.Table         `json:"pivot"`
	PivotCaption  string              `json:"pivot_caption"`
	Counts        []pivot.ValueCount  `json:"counts"`
	CountsCaption string              `json:"counts_caption"`
	Figure        plot.Figure         `json:"figure"`
}

// DetailRow is a detail projection with missing values left null.
type DetailRow struct {
	PlayerShirtNumber *int     `json:"playerShirtNumber"`
	PlayerName        *string  `json:"playerName"`
	XCoord            *float64 `json:"x_coord"`
	YCoord            *float64 `json:"y_coord"`
	XCoordEnd         *float64 `json:"x_coord_end"`
	YCoordEnd         *float64 `json:"y_coord_end"`
	ActionTypeName    *string  `json:"ActionTypeName"`
	ActionResultName  *string  `json:"ActionResultName"`
}

func detailRows(rows []model.Detail) []DetailRow {
	return lo.Map(rows, func(d model.Detail, _ int) DetailRow {
		return DetailRow{
			PlayerShirtNumber: present(d.Present, model.FieldPlayerShirtNumber, d.PlayerShirtNumber),
			PlayerName:        present(d.Present, model.FieldPlayerName, d.PlayerName),
			XCoord:            present(d.Present, model.FieldXCoord, d.XCoord),
			YCoord:            present(d.Present, model.FieldYCoord, d.YCoord),
			XCoordEnd:         present(d.Present, model.FieldXCoordEnd, d.XCoordEnd),
			YCoordEnd:         present(d.Present, model.FieldYCoordEnd, d.YCoordEnd),
			ActionTypeName:    present(d.Present, model.FieldActionTypeName, d.ActionTypeName),
			ActionResultName:  present(d.Present, model.FieldActionResultName, d.ActionResultName),
		}
	})
}

// Overview is a first look at a session's data.
type Overview struct {
	SessionID      string     `json:"session_id"`
	Files          []string   `json:"files"`
	Columns        []string   `json:"columns"`
	TotalRows      int        `json:"total_rows"`
	Head           []EventRow `json:"head"`
	ActionNames    []string   `json:"action_names"`
	ResultNames    []string   `json:"result_names"`
	ActionTypes    []string   `json:"action_types"`
	MissingColumns []string   `json:"missing_columns"`
}

// EventRow is one unified-table row with missing values left null.
type EventRow struct {
	SourceFile        string            `json:"sourceFile"`
	ActionName        *string           `json:"actionName"`
	ActionResultName  *string           `json:"ActionResultName"`
	ActionTypeName    *string           `json:"ActionTypeName"`
	TeamName          *string           `json:"teamName"`
	PlayerName        *string           `json:"playerName"`
	PlayerShirtNumber *int              `json:"playerShirtNumber"`
	MatchTime         *float64          `json:"MatchTime"`
	XCoord            *float64          `json:"x_coord"`
	YCoord            *float64          `json:"y_coord"`
	XCoordEnd         *float64          `json:"x_coord_end"`
	YCoordEnd         *float64          `json:"y_coord_end"`
	Extra             map[string]string `json:"extra,omitempty"`
}

func eventRow(e model.Event, _ int) EventRow {
	return EventRow{
		SourceFile:        e.SourceFile,
		ActionName:        present(e.Present, model.FieldActionName, e.ActionName),
		ActionResultName:  present(e.Present, model.FieldActionResultName, e.ActionResultName),
		ActionTypeName:    present(e.Present, model.FieldActionTypeName, e.ActionTypeName),
		TeamName:          present(e.Present, model.FieldTeamName, e.TeamName),
		PlayerName:        present(e.Present, model.FieldPlayerName, e.PlayerName),
		PlayerShirtNumber: present(e.Present, model.FieldPlayerShirtNumber, e.PlayerShirtNumber),
		MatchTime:         present(e.Present, model.FieldMatchTime, e.MatchTime),
		XCoord:            present(e.Present, model.FieldXCoord, e.XCoord),
		YCoord:            present(e.Present, model.FieldYCoord, e.YCoord),
		XCoordEnd:         present(e.Present, model.FieldXCoordEnd, e.XCoordEnd),
		YCoordEnd:         present(e.Present, model.FieldYCoordEnd, e.YCoordEnd),
		Extra:             e.Extra,
	}
}

func overview(s repository.Session, n int) Overview {
	t := s.Table
	missing := lo.Filter(model.ExpectedColumns(), func(c string, _ int) bool {
		return !t.HasColumn(c)
	})
	return Overview{
		SessionID:      s.ID,
		Files:          t.Files,
		Columns:        t.Columns,
		TotalRows:      t.Len(),
		Head:           lo.Map(t.Head(n), eventRow),
		ActionNames:    model.Distinct(t.Rows, model.FieldActionName),
		ResultNames:    model.Distinct(t.Rows, model.FieldActionResultName),
		ActionTypes:    model.Distinct(t.Rows, model.FieldActionTypeName),
		MissingColumns: missing,
	}
}

func present[T any](have, f model.Field, v T) *T {
	if have&f != f {
		return nil
	}
	return &v
}
