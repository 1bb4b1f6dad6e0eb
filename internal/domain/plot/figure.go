// Package plot describes the field diagram for a filtered subset as a
// renderer-independent Figure.
package plot

import (
	"fmt"

	"github.com/okian/rugbylens/internal/domain/model"
)

// Mode selects how the subset is drawn.
type Mode string

// Render modes.
const (
	ModeScatter Mode = "scatter"
	ModeHeatmap Mode = "heatmap"
)

// Field geometry in normalized coordinates.
const (
	FieldLength = 100.0
	FieldWidth  = 68.0
)

// MissingLabel names the group of rows without a display value.
const MissingLabel = "(none)"

// Palette is the categorical "bright" palette, cycled by group index.
var Palette = []string{
	"#023eff", "#ff7c00", "#1ac938", "#e8000b", "#8b2be2",
	"#9f4800", "#f14cc1", "#a3a3a3", "#ffc400", "#00d7ff",
}

// Marker is a point shape.
type Marker string

// Markers for start and end layers.
const (
	MarkerCircle Marker = "circle"
	MarkerCross  Marker = "cross"
)

// Line styles.
const (
	Solid  = "solid"
	Dashed = "dashed"
)

// Tick is an axis tick; an empty label leaves the tick unlabeled.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Axis is a fixed-bounds axis.
type Axis struct {
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Ticks []Tick  `json:"ticks"`
}

// Gridline is a vertical reference line across the field.
type Gridline struct {
	X     float64 `json:"x"`
	Color string  `json:"color"`
	Style string  `json:"style"`
}

// Point is a field location.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment joins a start point to its end point.
type Segment struct {
	From  Point  `json:"from"`
	To    Point  `json:"to"`
	Color string `json:"color"`
	Style string `json:"style"`
}

// Layer is one group of points sharing color and marker.
type Layer struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Marker Marker  `json:"marker"`
	Size   int     `json:"size"`
	Points []Point `json:"points"`
	// Legend is false for layers that duplicate another layer's grouping.
	Legend bool `json:"legend"`
}

// Figure is the full description of one field plot.
type Figure struct {
	Title      string     `json:"title"`
	Mode       Mode       `json:"mode"`
	XAxis      Axis       `json:"x_axis"`
	YAxis      Axis       `json:"y_axis"`
	Gridlines  []Gridline `json:"gridlines"`
	Layers     []Layer    `json:"layers,omitempty"`
	Connectors []Segment  `json:"connectors,omitempty"`
	Legend     []string   `json:"legend,omitempty"`
	Density    *Density   `json:"density,omitempty"`
}

// Empty reports whether the figure has nothing to draw besides the field.
func (f *Figure) Empty() bool {
	if f.Mode == ModeHeatmap {
		return f.Density == nil || len(f.Density.Cells) == 0
	}
	return len(f.Layers) == 0
}

// Spec parameterizes Build.
type Spec struct {
	Team      string
	Action    string
	Display   model.Field
	Heatmap   bool
	Bandwidth float64
	// Step is the density grid cell size in field units.
	Step float64
}

// DefaultStep is the density grid cell size used when Spec.Step is unset.
const DefaultStep = 2.0

// Title returns the plot title for a team, action and mode.
func Title(team, action string, mode Mode) string {
	if mode == ModeHeatmap {
		return fmt.Sprintf("Heatmap for %s - %s Actions", team, action)
	}
	return fmt.Sprintf("Scatter Plot for %s - %s Actions", team, action)
}

// XAxis is the pitch length axis, split at the 22, 10 and halfway lines.
func XAxis() Axis {
	return Axis{
		Name: "X Coordinate",
		Min:  0,
		Max:  FieldLength,
		Ticks: []Tick{
			{0, "0m"}, {22, "22m"}, {40, "10m"}, {50, "Half"},
			{60, "10m"}, {78, "22m"}, {100, "0m"},
		},
	}
}

// YAxis is the pitch width axis with unlabeled ticks.
func YAxis() Axis {
	ticks := make([]Tick, 0, 7)
	for v := 0.0; v <= 60; v += 10 {
		ticks = append(ticks, Tick{Value: v})
	}
	return Axis{Name: "Y Coordinate", Min: 0, Max: FieldWidth, Ticks: ticks}
}

// Gridlines are the fixed pitch markings.
func Gridlines() []Gridline {
	return []Gridline{
		{X: 22, Color: "grey", Style: Dashed},
		{X: 40, Color: "grey", Style: Dashed},
		{X: 60, Color: "grey", Style: Dashed},
		{X: 78, Color: "grey", Style: Dashed},
		{X: 50, Color: "black", Style: Solid},
	}
}

// Build describes rows as a field plot. The axes never depend on the data.
func Build(rows []model.Detail, s Spec) Figure {
	mode := ModeScatter
	if s.Heatmap {
		mode = ModeHeatmap
	}
	f := Figure{
		Title:     Title(s.Team, s.Action, mode),
		Mode:      mode,
		XAxis:     XAxis(),
		YAxis:     YAxis(),
		Gridlines: Gridlines(),
	}
	if mode == ModeHeatmap {
		step := s.Step
		if step <= 0 {
			step = DefaultStep
		}
		f.Density = Estimate(startPoints(rows), s.Bandwidth, step)
		return f
	}
	scatter(&f, rows, s.Display)
	return f
}

func startPoints(rows []model.Detail) []Point {
	pts := make([]Point, 0, len(rows))
	for i := range rows {
		if rows[i].HasStart() {
			pts = append(pts, Point{X: rows[i].XCoord, Y: rows[i].YCoord})
		}
	}
	return pts
}

func scatter(f *Figure, rows []model.Detail, display model.Field) {
	idx := make(map[string]int)
	var starts, ends []Layer
	for i := range rows {
		d := &rows[i]
		if !d.HasStart() {
			continue
		}
		label, ok := d.Text(display)
		if !ok {
			label = MissingLabel
		}
		g, seen := idx[label]
		if !seen {
			g = len(starts)
			idx[label] = g
			color := Palette[g%len(Palette)]
			starts = append(starts, Layer{Name: label, Color: color, Marker: MarkerCircle, Size: 10, Legend: true})
			ends = append(ends, Layer{Name: label, Color: color, Marker: MarkerCross, Size: 14})
			f.Legend = append(f.Legend, label)
		}
		start := Point{X: d.XCoord, Y: d.YCoord}
		starts[g].Points = append(starts[g].Points, start)

		if !d.Has(model.FieldXCoordEnd | model.FieldYCoordEnd) {
			continue
		}
		// The (0,0) sentinel still gets its end marker but no connector.
		end := Point{X: d.XCoordEnd, Y: d.YCoordEnd}
		ends[g].Points = append(ends[g].Points, end)
		if d.HasEnd() {
			f.Connectors = append(f.Connectors, Segment{From: start, To: end, Color: "grey", Style: Dashed})
		}
	}
	f.Layers = starts
	for _, l := range ends {
		if len(l.Points) > 0 {
			f.Layers = append(f.Layers, l)
		}
	}
}
