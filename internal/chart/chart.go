// Package chart builds bar chart specs for price comparisons and owns the
// lifecycle of the rendered chart handle.
package chart

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrMismatchedSeries is returned when labels and values differ in length
var ErrMismatchedSeries = errors.New("chart labels and values differ in length")

// Default dataset styling
const (
	DefaultBackgroundColor = "rgba(54, 162, 235, 0.2)"
	DefaultBorderColor     = "rgba(54, 162, 235, 1)"
	DefaultBorderWidth     = 1
)

// Spec mirrors the Chart.js configuration object
type Spec struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data holds the category labels and the series plotted against them
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one numeric series with its styling
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// Options holds chart-wide options
type Options struct {
	Scales Scales `json:"scales"`
}

// Scales holds axis options
type Scales struct {
	Y Axis `json:"y"`
}

// Axis holds options for a single axis
type Axis struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// NewBarSpec builds a single-series bar chart with the y-axis fixed at zero.
// labels[i] pairs with values[i].
func NewBarSpec(seriesLabel string, labels []string, values []float64) (Spec, error) {
	if len(labels) != len(values) {
		return Spec{}, ErrMismatchedSeries
	}

	return Spec{
		Type: "bar",
		Data: Data{
			Labels: append([]string(nil), labels...),
			Datasets: []Dataset{{
				Label:           seriesLabel,
				Data:            append([]float64(nil), values...),
				BackgroundColor: DefaultBackgroundColor,
				BorderColor:     DefaultBorderColor,
				BorderWidth:     DefaultBorderWidth,
			}},
		},
		Options: Options{Scales: Scales{Y: Axis{BeginAtZero: true}}},
	}, nil
}

// JSON returns the spec encoded for a Chart.js page shell
func (s Spec) JSON() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Handle is a live rendered chart bound to a canvas
type Handle interface {
	Spec() Spec
	Destroy()
	Destroyed() bool
}

// Factory renders a spec into a live handle
type Factory interface {
	Create(spec Spec) (Handle, error)
}

// Slot owns at most one live chart handle. Installing a new handle always
// destroys the previous one first.
type Slot struct {
	mu      sync.Mutex
	current Handle
}

// Replace destroys the held handle, if any, and installs h
func (s *Slot) Replace(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Destroy()
	}
	s.current = h
}

// Destroy releases the held handle
func (s *Slot) Destroy() {
	s.Replace(nil)
}

// Current returns the live handle or nil
func (s *Slot) Current() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
