// Package echarts renders plot figures as standalone HTML pages with go-echarts.
package echarts

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/okian/rugbylens/internal/domain/plot"
)

// Config holds page settings for rendered charts.
type Config struct {
	Width  string // e.g. "1200px"
	Height string // e.g. "800px"
	Theme  string
}

// DefaultConfig returns the default page settings.
func DefaultConfig() Config {
	return Config{Width: "1200px", Height: "800px", Theme: "white"}
}

// densityColors ramps from white to dark red.
var densityColors = []string{"#fff5f0", "#fcbba1", "#fb6a4a", "#cb181d", "#67000d"}

// gap breaks a line series between segments.
var gap = opts.LineData{Value: "-"}

// Renderer turns figures into HTML.
type Renderer struct {
	cfg Config
}

// New creates a Renderer. Zero fields in cfg fall back to DefaultConfig.
func New(cfg Config) *Renderer {
	def := DefaultConfig()
	if cfg.Width == "" {
		cfg.Width = def.Width
	}
	if cfg.Height == "" {
		cfg.Height = def.Height
	}
	if cfg.Theme == "" {
		cfg.Theme = def.Theme
	}
	return &Renderer{cfg: cfg}
}

// Render writes fig as an HTML page to w.
func (r *Renderer) Render(w io.Writer, fig plot.Figure) error {
	sc := charts.NewScatter()
	legend := fig.Legend
	if legend == nil {
		legend = []string{}
	}
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fig.Title,
			Width:     r.cfg.Width,
			Height:    r.cfg.Height,
			Theme:     r.cfg.Theme,
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(fig.Mode == plot.ModeScatter && len(fig.Legend) > 0),
			Data: legend,
			Top:  "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(fig.Mode == plot.ModeScatter), Trigger: "item"}),
		charts.WithXAxisOpts(xAxis(fig.XAxis)),
		charts.WithYAxisOpts(yAxis(fig.YAxis)),
	)

	sc.Overlap(gridlines(fig.Gridlines)...)

	switch fig.Mode {
	case plot.ModeHeatmap:
		density(sc, fig.Density, r.cfg)
	default:
		if len(fig.Connectors) > 0 {
			sc.Overlap(connectors(fig.Connectors))
		}
		for _, l := range fig.Layers {
			sc.AddSeries(l.Name, scatterData(l.Points),
				charts.WithScatterChartOpts(opts.ScatterChart{Symbol: symbol(l.Marker), SymbolSize: l.Size}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: l.Color}),
			)
		}
	}

	if err := sc.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Bytes renders fig into memory.
func (r *Renderer) Bytes(fig plot.Figure) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, fig); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xAxis(a plot.Axis) opts.XAxis {
	return opts.XAxis{
		Type:        "value",
		Name:        a.Name,
		Min:         a.Min,
		Max:         a.Max,
		MinInterval: 2,
		MaxInterval: 2,
		SplitLine:   &opts.SplitLine{Show: opts.Bool(false)},
		AxisTick:    &opts.AxisTick{Show: opts.Bool(false)},
		AxisLabel: &opts.AxisLabel{
			Show:      opts.Bool(true),
			Formatter: opts.FuncOpts(tickFormatter(a.Ticks)),
		},
	}
}

func yAxis(a plot.Axis) opts.YAxis {
	return opts.YAxis{
		Type:        "value",
		Name:        a.Name,
		Min:         a.Min,
		Max:         a.Max,
		MinInterval: 10,
		SplitLine:   &opts.SplitLine{Show: opts.Bool(false)},
		AxisLabel:   &opts.AxisLabel{Show: opts.Bool(false)},
	}
}

// tickFormatter labels only the configured tick values.
func tickFormatter(ticks []plot.Tick) string {
	var b strings.Builder
	b.WriteString("function (v) { var t = {")
	for i, tk := range ticks {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: '%s'", strconv.FormatFloat(tk.Value, 'f', -1, 64), strings.ReplaceAll(tk.Label, "'", ""))
	}
	b.WriteString("}; return t.hasOwnProperty(v) ? t[v] : ''; }")
	return b.String()
}

func gridlines(lines []plot.Gridline) []charts.Overlaper {
	out := make([]charts.Overlaper, 0, len(lines))
	for _, g := range lines {
		l := charts.NewLine()
		l.AddSeries(fmt.Sprintf("x=%g", g.X), []opts.LineData{
			{Value: []float64{g.X, 0}},
			{Value: []float64{g.X, plot.FieldWidth}},
		},
			charts.WithLineChartOpts(opts.LineChart{Symbol: "none"}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: g.Color, Width: 1, Type: g.Style}),
		)
		out = append(out, l)
	}
	return out
}

func connectors(segs []plot.Segment) *charts.Line {
	data := make([]opts.LineData, 0, len(segs)*3)
	for _, s := range segs {
		data = append(data,
			opts.LineData{Value: []float64{s.From.X, s.From.Y}},
			opts.LineData{Value: []float64{s.To.X, s.To.Y}},
			gap,
		)
	}
	color, style := "grey", plot.Dashed
	if len(segs) > 0 {
		color, style = segs[0].Color, segs[0].Style
	}
	l := charts.NewLine()
	l.AddSeries("connectors", data,
		charts.WithLineChartOpts(opts.LineChart{Symbol: "none", ConnectNulls: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 1, Type: style}),
	)
	return l
}

func density(sc *charts.Scatter, d *plot.Density, cfg Config) {
	if d == nil || len(d.Cells) == 0 {
		return
	}
	data := make([]opts.ScatterData, len(d.Cells))
	for i, c := range d.Cells {
		data[i] = opts.ScatterData{Value: []float64{c.X, c.Y, c.Value}}
	}
	sc.SetGlobalOptions(charts.WithVisualMapOpts(opts.VisualMap{
		Type:       "continuous",
		Show:       opts.Bool(false),
		Calculable: opts.Bool(false),
		Min:        float32(d.Peak * plot.PeakCutoff),
		Max:        float32(d.Peak),
		Dimension:  "2",
		InRange:    &opts.VisualMapInRange{Color: densityColors},
	}))
	sc.AddSeries("density", data,
		charts.WithScatterChartOpts(opts.ScatterChart{
			Symbol:     "rect",
			SymbolSize: cellSize(d.Step, cfg),
		}),
	)
}

// cellSize approximates the pixel size of one grid cell for the page width.
func cellSize(step float64, cfg Config) []int {
	w := pixels(cfg.Width, 1200) * 0.8
	h := pixels(cfg.Height, 800) * 0.75
	sx := int(w*step/plot.FieldLength) + 1
	sy := int(h*step/plot.FieldWidth) + 1
	return []int{sx, sy}
}

func pixels(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func scatterData(pts []plot.Point) []opts.ScatterData {
	out := make([]opts.ScatterData, len(pts))
	for i, p := range pts {
		out[i] = opts.ScatterData{Value: []float64{p.X, p.Y}}
	}
	return out
}

func symbol(m plot.Marker) string {
	if m == plot.MarkerCross {
		// Echarts has no cross glyph built in; a rotated diamond path reads as an X.
		return "path://M2,0 L5,3 L8,0 L10,2 L7,5 L10,8 L8,10 L5,7 L2,10 L0,8 L3,5 L0,2 Z"
	}
	return "circle"
}
