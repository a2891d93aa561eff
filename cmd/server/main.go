package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricelens/web/config"
	"github.com/pricelens/web/internal/chart"
	httpDelivery "github.com/pricelens/web/internal/delivery/http"
	"github.com/pricelens/web/internal/infrastructure/searchapi"
	"github.com/pricelens/web/internal/infrastructure/session"
	"github.com/pricelens/web/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceLens Web v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("UI variant: %s", cfg.UI.Variant)

	// Initialize infrastructure dependencies
	searchClient := searchapi.NewClient(searchapi.ClientConfig{
		BaseURL:          cfg.Search.BaseURL,
		SearchPath:       cfg.Search.SearchPath,
		ClearHistoryPath: cfg.Search.ClearHistoryPath,
		Timeout:          cfg.Search.Timeout,
		RequestsPerMin:   cfg.RateLimit.Search,
		Burst:            cfg.RateLimit.Burst,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		log.Printf("Search client debug mode enabled")
	}

	log.Printf("Search API: %s%s (timeout: %s, limit: %d/min)",
		cfg.Search.BaseURL, cfg.Search.SearchPath, cfg.Search.Timeout, cfg.RateLimit.Search)

	sessions := session.NewMemoryStore[*usecase.Presenter](cfg.Session.TTL, 0, func(p *usecase.Presenter) {
		p.Close()
	})
	defer sessions.Close()
	log.Printf("Session TTL: %s", cfg.Session.TTL)

	// Initialize usecase layer
	newPresenter := func(variant usecase.Variant) (*usecase.Presenter, error) {
		locale, err := usecase.LocaleFor(variant)
		if err != nil {
			return nil, err
		}
		charts := chart.NewSVGFactory(usecase.NewFormatter(locale).Amount)
		return usecase.NewPresenter(searchClient, charts, usecase.PresenterConfig{
			Locale:           locale,
			PlaceholderImage: cfg.UI.PlaceholderImage,
		}), nil
	}

	views, err := httpDelivery.NewViews()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(sessions, newPresenter, views, usecase.Variant(cfg.UI.Variant))

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
