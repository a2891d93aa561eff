package domain

import "context"

// SearchClient defines the interface for talking to the remote search service
type SearchClient interface {
	Search(ctx context.Context, request *SearchRequest) (*SearchResponse, error)
	ClearHistory(ctx context.Context) error
}
