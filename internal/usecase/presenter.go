package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pricelens/web/internal/chart"
	"github.com/pricelens/web/internal/domain"
)

// PresenterConfig holds configuration for the presenter
type PresenterConfig struct {
	Locale           Locale
	PlaceholderImage string
}

// Presenter submits searches and turns responses into a Screen.
// It owns its screen and its chart slot; both are torn down at the start of
// every search. Safe for concurrent use: only the newest search may write
// to the screen.
type Presenter struct {
	client      domain.SearchClient
	charts      chart.Factory
	locale      Locale
	format      *Formatter
	placeholder string

	mu       sync.Mutex
	screen   Screen
	slot     chart.Slot
	sequence uint64
	cancel   context.CancelFunc
}

// NewPresenter creates a presenter in the idle state
func NewPresenter(client domain.SearchClient, charts chart.Factory, config PresenterConfig) *Presenter {
	return &Presenter{
		client:      client,
		charts:      charts,
		locale:      config.Locale,
		format:      NewFormatter(config.Locale),
		placeholder: config.PlaceholderImage,
		screen: Screen{
			Variant: config.Locale.Variant,
			State:   StateIdle,
		},
	}
}

// Locale returns the locale the presenter renders with
func (p *Presenter) Locale() Locale {
	return p.locale
}

// Submit runs one search for productName.
// Blank input returns ErrEmptyQuery without a network call. A response that
// arrives after a newer Submit started is dropped with ErrStaleResponse.
// Transport, status and decode failures are rendered as an inline error and
// also returned.
func (p *Presenter) Submit(ctx context.Context, productName string) error {
	request := domain.NewSearchRequest(productName)
	if err := request.Validate(); err != nil {
		if p.locale.EmptyQueryAlert != "" {
			p.mu.Lock()
			p.screen.Notification = p.locale.EmptyQueryAlert
			p.mu.Unlock()
		}
		return err
	}

	ctx, seq := p.begin(ctx, request.ProductName)
	response, err := p.client.Search(ctx, request)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.sequence {
		log.Printf("[PRESENTER] Dropping response #%d for %q, search #%d is current", seq, request.ProductName, p.sequence)
		return domain.ErrStaleResponse
	}
	p.cancel()
	p.cancel = nil
	p.screen.Loading = false

	if err != nil {
		log.Printf("[PRESENTER] Search #%d for %q failed: %v", seq, request.ProductName, err)
		p.renderError(err)
		return err
	}

	p.renderResponse(response)
	return nil
}

// begin moves the presenter to Loading and tears down the previous search
func (p *Presenter) begin(ctx context.Context, query string) (context.Context, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.sequence++

	p.slot.Destroy()
	p.screen = Screen{
		Variant:  p.locale.Variant,
		State:    StateLoading,
		Sequence: p.sequence,
		Query:    query,
		Loading:  true,
	}

	return ctx, p.sequence
}

func (p *Presenter) renderError(err error) {
	p.slot.Destroy()
	p.screen.State = StateError
	p.screen.Units = nil
	p.screen.Recommendation = nil
	p.screen.Summary = nil
	p.screen.Chart = nil
	p.screen.ChartSpec = nil
	p.screen.MessageKind = MessageError
	p.screen.Message = p.locale.ErrorPrefix + failureReason(err)
}

func (p *Presenter) renderResponse(response *domain.SearchResponse) {
	p.screen.State = StateRendered

	if len(response.Results) == 0 {
		p.screen.MessageKind = MessageInfo
		p.screen.Message = p.locale.NoResults
		p.screen.Units = []DisplayUnit{}
		return
	}

	units := make([]DisplayUnit, 0, len(response.Results))
	labels := make([]string, 0, len(response.Results))
	values := make([]float64, 0, len(response.Results))
	minPrice, maxPrice := response.Results[0].Price, response.Results[0].Price

	for _, result := range response.Results {
		units = append(units, p.displayUnit(result))
		labels = append(labels, result.StoreName)
		values = append(values, float64(result.Price))
		if result.Price < minPrice {
			minPrice = result.Price
		}
		if result.Price > maxPrice {
			maxPrice = result.Price
		}
	}
	for i := range units {
		units[i].Cheapest = units[i].PriceValue == minPrice
	}
	p.screen.Units = units

	p.screen.Summary = &PriceSummary{
		Min:      p.format.Price(minPrice),
		Max:      p.format.Price(maxPrice),
		Spread:   p.format.Price(maxPrice - minPrice),
		MinValue: minPrice,
		MaxValue: maxPrice,
	}
	p.screen.Summary.Text = fmt.Sprintf(p.locale.SummaryFormat,
		p.screen.Summary.Min, p.screen.Summary.Max, p.screen.Summary.Spread)

	if response.Recommendation != nil {
		p.screen.Recommendation = p.recommendation(*response.Recommendation)
	}

	p.renderChart(labels, values)

	if len(response.Errors) > 0 {
		p.screen.Notification = p.locale.SoftErrorPrefix + strings.Join(response.Errors, p.locale.SoftErrorJoin)
	}
}

// renderChart installs a new chart in the slot. A chart failure leaves the
// results in place.
func (p *Presenter) renderChart(labels []string, values []float64) {
	spec, err := chart.NewBarSpec(p.locale.ChartLabel, labels, values)
	if err != nil {
		log.Printf("[PRESENTER] Chart spec error: %v", err)
		return
	}
	handle, err := p.charts.Create(spec)
	if err != nil {
		log.Printf("[PRESENTER] Chart render error: %v", err)
		return
	}
	p.slot.Replace(handle)
	p.screen.Chart = handle
	p.screen.ChartSpec = &spec
}

func (p *Presenter) displayUnit(result domain.SearchResult) DisplayUnit {
	image := strings.TrimSpace(result.ImageURL)
	if image == "" {
		image = p.placeholder
	}

	return DisplayUnit{
		Name:             result.Name,
		ImageURL:         image,
		FallbackImageURL: p.placeholder,
		Price:            p.format.Price(result.Price),
		PriceValue:       result.Price,
		StoreName:        result.StoreName,
		Category:         p.format.Category(result.CategoryID),
		Rating:           p.format.Rating(result),
		HasRating:        result.HasRating(),
		Link:             result.Link,
		UpdatedAt:        p.format.UpdatedAt(result.UpdatedAt),
	}
}

func (p *Presenter) recommendation(result domain.SearchResult) *Recommendation {
	rec := &Recommendation{
		Label:     p.locale.BestSuggestion,
		Name:      result.Name,
		StoreName: result.StoreName,
		Price:     p.format.Price(result.Price),
		Rating:    p.format.Rating(result),
	}
	rec.Text = fmt.Sprintf(p.locale.RecommendationFormat, rec.Name, rec.StoreName, rec.Price, rec.Rating)
	return rec
}

// ClearHistory asks the search service to drop its history and reports the
// outcome as a notification. Results on screen are left alone.
func (p *Presenter) ClearHistory(ctx context.Context) error {
	err := p.client.ClearHistory(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		log.Printf("[PRESENTER] Clear history failed: %v", err)
		p.screen.Notification = p.locale.HistoryClearFailed + failureReason(err)
		return err
	}
	p.screen.Notification = p.locale.HistoryCleared
	return nil
}

// Snapshot returns a copy of the current screen
func (p *Presenter) Snapshot() Screen {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen.clone()
}

// DismissNotification clears the pending notification once a front-end has
// shown it
func (p *Presenter) DismissNotification() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screen.Notification = ""
}

// Close cancels any in-flight search and releases the chart
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.sequence++
	p.slot.Destroy()
	p.screen = Screen{Variant: p.locale.Variant, State: StateIdle}
}

// failureReason is the part of err shown to the user
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
