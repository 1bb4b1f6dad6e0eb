// Package model contains domain models passed between layers.
package model

// Column names as they appear in match event exports. Casing is part of the
// external contract.
const (
	ColSourceFile        = "sourceFile"
	ColActionName        = "actionName"
	ColActionResultName  = "ActionResultName"
	ColActionTypeName    = "ActionTypeName"
	ColTeamName          = "teamName"
	ColPlayerName        = "playerName"
	ColPlayerShirtNumber = "playerShirtNumber"
	ColMatchTime         = "MatchTime"
	ColXCoord            = "x_coord"
	ColYCoord            = "y_coord"
	ColXCoordEnd         = "x_coord_end"
	ColYCoordEnd         = "y_coord_end"
)

// Field is a bit flag identifying one known event column.
type Field uint16

// Known event fields.
const (
	FieldActionName Field = 1 << iota
	FieldActionResultName
	FieldActionTypeName
	FieldTeamName
	FieldPlayerName
	FieldPlayerShirtNumber
	FieldMatchTime
	FieldXCoord
	FieldYCoord
	FieldXCoordEnd
	FieldYCoordEnd
)

// fieldColumns maps fields to their column names in declaration order.
var fieldColumns = []struct {
	field Field
	col   string
}{
	{FieldActionName, ColActionName},
	{FieldActionResultName, ColActionResultName},
	{FieldActionTypeName, ColActionTypeName},
	{FieldTeamName, ColTeamName},
	{FieldPlayerName, ColPlayerName},
	{FieldPlayerShirtNumber, ColPlayerShirtNumber},
	{FieldMatchTime, ColMatchTime},
	{FieldXCoord, ColXCoord},
	{FieldYCoord, ColYCoord},
	{FieldXCoordEnd, ColXCoordEnd},
	{FieldYCoordEnd, ColYCoordEnd},
}

// FieldForColumn returns the field for a known column name.
func FieldForColumn(col string) (Field, bool) {
	for _, fc := range fieldColumns {
		if fc.col == col {
			return fc.field, true
		}
	}
	return 0, false
}

// ExpectedColumns lists the columns downstream stages read, in export order.
func ExpectedColumns() []string {
	cols := make([]string, len(fieldColumns))
	for i, fc := range fieldColumns {
		cols[i] = fc.col
	}
	return cols
}

// Event is one row of match action data.
// A field whose bit is not set in Present is missing for this row, either
// because its source file lacked the column or the value did not parse.
type Event struct {
	SourceFile        string
	TeamName          string
	PlayerName        string
	PlayerShirtNumber int
	ActionName        string
	ActionTypeName    string
	ActionResultName  string
	MatchTime         float64
	XCoord            float64
	YCoord            float64
	XCoordEnd         float64
	YCoordEnd         float64

	// Present records which known fields carry a value.
	Present Field

	// Extra holds columns outside the known set, keyed by column name.
	Extra map[string]string
}

// Has reports whether every field in f is present.
func (e *Event) Has(f Field) bool { return e.Present&f == f }

// HasEnd reports whether the row has an end location, i.e. both end
// coordinates are present and they are not the (0,0) sentinel.
func (e *Event) HasEnd() bool {
	if !e.Has(FieldXCoordEnd | FieldYCoordEnd) {
		return false
	}
	return !(e.XCoordEnd == 0 && e.YCoordEnd == 0)
}

// Text returns the string value of a categorical field and whether it is present.
func (e *Event) Text(f Field) (string, bool) {
	if !e.Has(f) {
		return "", false
	}
	switch f {
	case FieldActionName:
		return e.ActionName, true
	case FieldActionResultName:
		return e.ActionResultName, true
	case FieldActionTypeName:
		return e.ActionTypeName, true
	case FieldTeamName:
		return e.TeamName, true
	case FieldPlayerName:
		return e.PlayerName, true
	default:
		return "", false
	}
}
