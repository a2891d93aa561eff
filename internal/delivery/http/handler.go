package http

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/web/internal/domain"
	"github.com/pricelens/web/internal/usecase"
)

// SessionStore holds one presenter per visitor and variant
type SessionStore interface {
	Get(ctx context.Context, id string) (*usecase.Presenter, error)
	Set(ctx context.Context, id string, presenter *usecase.Presenter) error
}

// PresenterFactory builds a fresh presenter for a variant
type PresenterFactory func(variant usecase.Variant) (*usecase.Presenter, error)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	sessions       SessionStore
	newPresenter   PresenterFactory
	views          *Views
	defaultVariant usecase.Variant

	// mu serializes get-or-create so concurrent first requests share a presenter
	mu sync.Mutex
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions SessionStore, newPresenter PresenterFactory, views *Views, defaultVariant usecase.Variant) *Handler {
	return &Handler{
		sessions:       sessions,
		newPresenter:   newPresenter,
		views:          views,
		defaultVariant: defaultVariant,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-web",
		"version": "1.0.0",
	})
}

// Index renders the page for the visitor's current screen
func (h *Handler) Index(c *gin.Context) {
	presenter, ok := h.presenter(c)
	if !ok {
		return
	}
	h.renderPage(c, presenter)
}

// SubmitSearch handles the search form. Failures are part of the rendered
// page, so the status is 200 unless rendering itself fails.
func (h *Handler) SubmitSearch(c *gin.Context) {
	presenter, ok := h.presenter(c)
	if !ok {
		return
	}

	err := presenter.Submit(c.Request.Context(), c.PostForm("product_name"))
	if err != nil && !errors.Is(err, domain.ErrEmptyQuery) {
		log.Printf("[HTTP] Search submit: %v", err)
	}
	h.renderPage(c, presenter)
}

// ClearHistory handles the clear history form
func (h *Handler) ClearHistory(c *gin.Context) {
	presenter, ok := h.presenter(c)
	if !ok {
		return
	}

	if err := presenter.ClearHistory(c.Request.Context()); err != nil {
		log.Printf("[HTTP] Clear history: %v", err)
	}
	h.renderPage(c, presenter)
}

// APISearch runs a search from a JSON body and returns the resulting screen
func (h *Handler) APISearch(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: product_name is required",
		})
		return
	}

	presenter, ok := h.presenter(c)
	if !ok {
		return
	}

	err := presenter.Submit(c.Request.Context(), request.ProductName)
	screen := presenter.Snapshot()
	presenter.DismissNotification()

	status := statusFor(err)
	if err != nil && status >= http.StatusInternalServerError {
		log.Printf("[HTTP] API search: %v", err)
	}
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error(), "screen": screen})
		return
	}
	c.JSON(status, screen)
}

// APIScreen returns the visitor's current screen without changing it
func (h *Handler) APIScreen(c *gin.Context) {
	presenter, ok := h.presenter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, presenter.Snapshot())
}

// statusFor maps presenter errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrSearchAPIFailure), errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// renderPage writes the full page and marks the notification as shown
func (h *Handler) renderPage(c *gin.Context, presenter *usecase.Presenter) {
	var buf bytes.Buffer
	if err := h.views.RenderPage(&buf, presenter.Locale(), presenter.Snapshot()); err != nil {
		log.Printf("[HTTP] Render error: %v", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	presenter.DismissNotification()
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// presenter finds or creates the presenter for the visitor and variant
func (h *Handler) presenter(c *gin.Context) (*usecase.Presenter, bool) {
	variant := h.variant(c)
	key := c.GetString(sessionIDKey) + ":" + string(variant)

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := c.Request.Context()
	presenter, err := h.sessions.Get(ctx, key)
	if err == nil {
		return presenter, true
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		log.Printf("[HTTP] Session lookup: %v", err)
	}

	presenter, err = h.newPresenter(variant)
	if err == nil {
		err = h.sessions.Set(ctx, key, presenter)
	}
	if err != nil {
		log.Printf("[HTTP] Session create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return nil, false
	}
	return presenter, true
}

// variant picks the ?variant= override when it names a known variant
func (h *Handler) variant(c *gin.Context) usecase.Variant {
	requested := usecase.Variant(c.Query("variant"))
	if _, err := usecase.LocaleFor(requested); err == nil {
		return requested
	}
	return h.defaultVariant
}
