package model

// Detail is the reduced projection of an Event used by the pivot and the
// field plot.
type Detail struct {
	PlayerShirtNumber int
	PlayerName        string
	XCoord            float64
	YCoord            float64
	XCoordEnd         float64
	YCoordEnd         float64
	ActionTypeName    string
	ActionResultName  string

	// Present carries the source event's presence bits for projected fields.
	Present Field
}

// detailFields are the fields kept by Project.
const detailFields = FieldPlayerShirtNumber | FieldPlayerName |
	FieldXCoord | FieldYCoord | FieldXCoordEnd | FieldYCoordEnd |
	FieldActionTypeName | FieldActionResultName

// DetailColumns lists the projected columns in display order.
func DetailColumns() []string {
	return []string{
		ColPlayerShirtNumber, ColPlayerName,
		ColXCoord, ColYCoord, ColXCoordEnd, ColYCoordEnd,
		ColActionTypeName, ColActionResultName,
	}
}

// Project reduces an event to its detail columns.
func Project(e *Event) Detail {
	return Detail{
		PlayerShirtNumber: e.PlayerShirtNumber,
		PlayerName:        e.PlayerName,
		XCoord:            e.XCoord,
		YCoord:            e.YCoord,
		XCoordEnd:         e.XCoordEnd,
		YCoordEnd:         e.YCoordEnd,
		ActionTypeName:    e.ActionTypeName,
		ActionResultName:  e.ActionResultName,
		Present:           e.Present & detailFields,
	}
}

// Has reports whether every field in f is present.
func (d *Detail) Has(f Field) bool { return d.Present&f == f }

// HasStart reports whether both start coordinates are present.
func (d *Detail) HasStart() bool { return d.Has(FieldXCoord | FieldYCoord) }

// HasEnd reports whether the row has an end location that is not the (0,0) sentinel.
func (d *Detail) HasEnd() bool {
	if !d.Has(FieldXCoordEnd | FieldYCoordEnd) {
		return false
	}
	return !(d.XCoordEnd == 0 && d.YCoordEnd == 0)
}

// Text returns a categorical value of the projection and whether it is present.
func (d *Detail) Text(f Field) (string, bool) {
	if !d.Has(f) {
		return "", false
	}
	switch f {
	case FieldPlayerName:
		return d.PlayerName, true
	case FieldActionTypeName:
		return d.ActionTypeName, true
	case FieldActionResultName:
		return d.ActionResultName, true
	default:
		return "", false
	}
}

// DistinctDetail returns the distinct present values of a categorical field
// over details, in first-seen order.
func DistinctDetail(rows []Detail, f Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range rows {
		v, ok := rows[i].Text(f)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
