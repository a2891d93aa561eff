package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// SearchRequest is the body sent to the search endpoint
type SearchRequest struct {
	ProductName string `json:"product_name" form:"product_name"`
}

// NewSearchRequest builds a request with the product name trimmed and inner
// whitespace collapsed
func NewSearchRequest(productName string) *SearchRequest {
	name := multipleSpacesRegex.ReplaceAllString(productName, " ")
	return &SearchRequest{ProductName: strings.TrimSpace(name)}
}

// Validate reports ErrEmptyQuery when the product name is blank
func (r *SearchRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ProductName, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmptyQuery, err)
	}
	return nil
}

// Price is an amount in whole currency units. The backend may emit floats;
// they are rounded to the nearest unit.
type Price int64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("price %s is not a number", raw)
	}
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("price %s is out of range", raw)
	}
	*p = Price(math.Round(f))
	return nil
}

// CategoryID accepts either a JSON string or a JSON number. An empty value
// means the category is unknown.
type CategoryID string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CategoryID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*c = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*c = CategoryID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("category_id must be a string or number: %w", err)
	}
	*c = CategoryID(n.String())
	return nil
}

// SearchResult is a single matched item from one store
type SearchResult struct {
	Name       string     `json:"name"`
	Price      Price      `json:"price"`
	StoreName  string     `json:"store_name"`
	CategoryID CategoryID `json:"category_id,omitempty"`
	Rating     *float64   `json:"rating,omitempty"` // 0-5
	Link       string     `json:"link"`
	ImageURL   string     `json:"image_url,omitempty"`
	UpdatedAt  string     `json:"updated_at,omitempty"`
}

// Validate checks the value ranges the presenter relies on
func (r SearchResult) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Price, validation.Min(0)),
		validation.Field(&r.Rating, validation.Min(0.0), validation.Max(5.0)),
	)
}

// HasRating reports whether the result carries a displayable rating.
// A zero rating counts as absent, matching how the backend marks unrated items.
func (r SearchResult) HasRating() bool {
	return r.Rating != nil && *r.Rating > 0
}

// SearchResponse is the body returned by the search endpoint
type SearchResponse struct {
	Results        []SearchResult `json:"results"`
	Recommendation *SearchResult  `json:"recommendation,omitempty"`
	Errors         []string       `json:"errors"`
}

// Validate checks every result and the recommendation
func (r *SearchResponse) Validate() error {
	for i, result := range r.Results {
		if err := result.Validate(); err != nil {
			return fmt.Errorf("results[%d]: %w", i, err)
		}
	}
	if r.Recommendation != nil {
		if err := r.Recommendation.Validate(); err != nil {
			return fmt.Errorf("recommendation: %w", err)
		}
	}
	return nil
}
