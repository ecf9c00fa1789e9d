package oracle

import "context"

type Repository interface {
	CreateRequest(ctx context.Context, r *CreditRequest) error
	GetRequest(ctx context.Context, requestID string) (*CreditRequest, error)
	// GetRequestForUpdate locks the request row for the duration of the
	// surrounding tx so concurrent fulfillments serialize on it.
	GetRequestForUpdate(ctx context.Context, requestID string) (*CreditRequest, error)
	SaveRequest(ctx context.Context, r *CreditRequest) error

	GetScore(ctx context.Context, address string) (*CreditScore, error)
	// SaveScore inserts or overwrites the cached score for the address.
	SaveScore(ctx context.Context, s *CreditScore) error
}
