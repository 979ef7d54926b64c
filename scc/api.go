package scc

import (
	"context"
)

// API defines the read-only SCC operations
type API interface {
	// ListProducts retrieves every product known to SCC
	ListProducts(ctx context.Context) ([]Product, error)

	// ListRepositories retrieves the repositories available to the organization
	ListRepositories(ctx context.Context) ([]Repository, error)

	// ListSubscriptions retrieves the subscriptions of the organization
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}

var _ API = (*Client)(nil)
