package chart

import (
	"bytes"
	"html/template"
	"math"
	"strconv"
	"sync"
)

const (
	svgWidth       = 640
	svgHeight      = 320
	svgPadLeft     = 90
	svgPadRight    = 16
	svgPadTop      = 28
	svgPadBottom   = 70
	svgTickCount   = 4
	svgBarGapRatio = 0.2
)

var svgTemplate = template.Must(template.New("bar").Parse(`<svg xmlns="http://www.w3.org/2000/svg" class="price-chart" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="{{.Title}}">
<text x="{{.PadLeft}}" y="16" font-size="12">{{.Title}}</text>
{{- range .Ticks}}
<line x1="{{$.PadLeft}}" x2="{{$.Right}}" y1="{{.Y}}" y2="{{.Y}}" stroke="#ddd"/>
<text x="{{$.TickX}}" y="{{.Y}}" font-size="10" text-anchor="end" dominant-baseline="middle">{{.Label}}</text>
{{- end}}
{{- range .Bars}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" fill="{{$.Fill}}" stroke="{{$.Stroke}}" stroke-width="{{$.StrokeWidth}}"><title>{{.Label}}: {{.Value}}</title></rect>
<text x="{{.LabelX}}" y="{{$.LabelY}}" font-size="10" text-anchor="end" transform="rotate(-35 {{.LabelX}} {{$.LabelY}})">{{.Label}}</text>
{{- end}}
<line x1="{{.PadLeft}}" x2="{{.Right}}" y1="{{.Baseline}}" y2="{{.Baseline}}" stroke="#333"/>
</svg>`))

type svgTick struct {
	Y     float64
	Label string
}

type svgBar struct {
	X, Y, W, H float64
	LabelX     float64
	Label      string
	Value      string
}

type svgView struct {
	Width, Height int
	PadLeft       int
	Right         int
	TickX         int
	Baseline      float64
	LabelY        float64
	Title         string
	Fill          string
	Stroke        string
	StrokeWidth   int
	Ticks         []svgTick
	Bars          []svgBar
}

// SVGHandle is a chart rendered to inline SVG markup
type SVGHandle struct {
	spec      Spec
	markup    template.HTML
	mu        sync.Mutex
	destroyed bool
}

// Spec returns the spec the handle was created from
func (h *SVGHandle) Spec() Spec {
	return h.spec
}

// Markup returns the SVG, or nothing once the handle is destroyed
func (h *SVGHandle) Markup() template.HTML {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ""
	}
	return h.markup
}

// Destroy releases the rendered markup
func (h *SVGHandle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.markup = ""
}

// Destroyed reports whether Destroy has been called
func (h *SVGHandle) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// SVGFactory renders bar chart specs as inline SVG
type SVGFactory struct {
	// FormatValue formats tick and tooltip values. Defaults to whole numbers.
	FormatValue func(float64) string
}

// NewSVGFactory creates a factory using format for axis values
func NewSVGFactory(format func(float64) string) *SVGFactory {
	return &SVGFactory{FormatValue: format}
}

// Create renders the first dataset of spec against its labels
func (f *SVGFactory) Create(spec Spec) (Handle, error) {
	format := f.FormatValue
	if format == nil {
		format = func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
	}

	var values []float64
	view := svgView{
		Width:    svgWidth,
		Height:   svgHeight,
		PadLeft:  svgPadLeft,
		Right:    svgWidth - svgPadRight,
		TickX:    svgPadLeft - 6,
		Baseline: float64(svgHeight - svgPadBottom),
		LabelY:   float64(svgHeight-svgPadBottom) + 14,
	}
	if len(spec.Data.Datasets) > 0 {
		ds := spec.Data.Datasets[0]
		values = ds.Data
		view.Title = ds.Label
		view.Fill = ds.BackgroundColor
		view.Stroke = ds.BorderColor
		view.StrokeWidth = ds.BorderWidth
	}
	if len(values) != len(spec.Data.Labels) {
		return nil, ErrMismatchedSeries
	}

	maxValue := 0.0
	for _, v := range values {
		maxValue = math.Max(maxValue, v)
	}
	top := niceCeiling(maxValue)
	plotHeight := float64(svgHeight - svgPadTop - svgPadBottom)
	plotWidth := float64(svgWidth - svgPadLeft - svgPadRight)

	for i := 0; i <= svgTickCount; i++ {
		v := top * float64(i) / svgTickCount
		view.Ticks = append(view.Ticks, svgTick{
			Y:     view.Baseline - plotHeight*v/top,
			Label: format(v),
		})
	}

	if n := len(values); n > 0 {
		slot := plotWidth / float64(n)
		gap := slot * svgBarGapRatio
		for i, v := range values {
			h := plotHeight * v / top
			x := float64(svgPadLeft) + slot*float64(i) + gap/2
			view.Bars = append(view.Bars, svgBar{
				X:      x,
				Y:      view.Baseline - h,
				W:      slot - gap,
				H:      h,
				LabelX: x + (slot-gap)/2,
				Label:  spec.Data.Labels[i],
				Value:  format(v),
			})
		}
	}

	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}

	return &SVGHandle{spec: spec, markup: template.HTML(buf.String())}, nil
}

// niceCeiling rounds v up to 1, 2, 2.5 or 5 times a power of ten so axis
// ticks land on round numbers. The axis always starts at zero.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(v))
	base := math.Pow(10, exp)
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*base {
			return m * base
		}
	}
	return 10 * base
}
