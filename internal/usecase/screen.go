package usecase

import (
	"github.com/pricelens/web/internal/chart"
	"github.com/pricelens/web/internal/domain"
)

// State is the presenter lifecycle state
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRendered State = "rendered"
	StateError    State = "error"
)

// MessageKind distinguishes the inline message shown in place of results
type MessageKind string

const (
	MessageNone  MessageKind = ""
	MessageInfo  MessageKind = "info"
	MessageError MessageKind = "error"
)

// DisplayUnit is one rendered result
type DisplayUnit struct {
	Name             string       `json:"name"`
	ImageURL         string       `json:"imageUrl"`
	FallbackImageURL string       `json:"fallbackImageUrl"`
	Price            string       `json:"price"`
	PriceValue       domain.Price `json:"priceValue"`
	StoreName        string       `json:"storeName"`
	Category         string       `json:"category"`
	Rating           string       `json:"rating"`
	HasRating        bool         `json:"hasRating"`
	Link             string       `json:"link"`
	UpdatedAt        string       `json:"updatedAt,omitempty"`
	Cheapest         bool         `json:"cheapest"`
}

// Recommendation is the highlighted best suggestion line
type Recommendation struct {
	Label     string `json:"label"`
	Text      string `json:"text"`
	Name      string `json:"name"`
	StoreName string `json:"storeName"`
	Price     string `json:"price"`
	Rating    string `json:"rating"`
}

// PriceSummary describes the spread of prices across results
type PriceSummary struct {
	Min      string       `json:"min"`
	Max      string       `json:"max"`
	Spread   string       `json:"spread"`
	MinValue domain.Price `json:"minValue"`
	MaxValue domain.Price `json:"maxValue"`
	Text     string       `json:"text"`
}

// Screen is everything a front-end needs to draw the current search.
// A snapshot is never mutated after it is handed out.
type Screen struct {
	Variant        Variant         `json:"variant"`
	State          State           `json:"state"`
	Sequence       uint64          `json:"sequence"`
	Query          string          `json:"query"`
	Loading        bool            `json:"loading"`
	Message        string          `json:"message,omitempty"`
	MessageKind    MessageKind     `json:"messageKind,omitempty"`
	Units          []DisplayUnit   `json:"units"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Summary        *PriceSummary   `json:"summary,omitempty"`
	ChartSpec      *chart.Spec     `json:"chart,omitempty"`
	Chart          chart.Handle    `json:"-"`
	Notification   string          `json:"notification,omitempty"`
}

func (s Screen) clone() Screen {
	c := s
	if s.Units != nil {
		c.Units = append([]DisplayUnit(nil), s.Units...)
	}
	if s.Recommendation != nil {
		r := *s.Recommendation
		c.Recommendation = &r
	}
	if s.Summary != nil {
		sum := *s.Summary
		c.Summary = &sum
	}
	if s.ChartSpec != nil {
		spec := *s.ChartSpec
		c.ChartSpec = &spec
	}
	return c
}
