package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/pricelens/web/internal/domain"
	"golang.org/x/text/message"
)

// updatedAtLayouts are the timestamp shapes the backend is known to emit
var updatedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Formatter turns raw result fields into display strings for one locale
type Formatter struct {
	printer *message.Printer
	locale  Locale
}

// NewFormatter creates a formatter for locale
func NewFormatter(locale Locale) *Formatter {
	return &Formatter{
		printer: message.NewPrinter(locale.Language),
		locale:  locale,
	}
}

// Price groups digits the way the locale does and appends the currency suffix
func (f *Formatter) Price(p domain.Price) string {
	return f.printer.Sprintf("%d", int64(p)) + f.locale.CurrencySuffix
}

// Amount groups digits without the currency suffix
func (f *Formatter) Amount(v float64) string {
	return f.printer.Sprintf("%d", int64(v))
}

// Rating renders one decimal place, or the fallback label when absent
func (f *Formatter) Rating(r domain.SearchResult) string {
	if !r.HasRating() {
		return f.locale.NoRating
	}
	return strconv.FormatFloat(*r.Rating, 'f', 1, 64)
}

// Category renders the category ID, or the fallback label when absent
func (f *Formatter) Category(c domain.CategoryID) string {
	if c == "" {
		return f.locale.UnknownCategory
	}
	return string(c)
}

// UpdatedAt shortens known timestamp layouts to minutes and passes anything
// else through untouched
func (f *Formatter) UpdatedAt(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range updatedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return raw
}
