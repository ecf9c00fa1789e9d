package oraclemock

import (
	"context"

	domain "lendpool-backend/internal/domain/oracle"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters return context.Canceled, unfilled setters are no-ops.
type Repo struct {
	CreateRequestFn       func(ctx context.Context, r *domain.CreditRequest) error
	GetRequestFn          func(ctx context.Context, requestID string) (*domain.CreditRequest, error)
	GetRequestForUpdateFn func(ctx context.Context, requestID string) (*domain.CreditRequest, error)
	SaveRequestFn         func(ctx context.Context, r *domain.CreditRequest) error
	GetScoreFn            func(ctx context.Context, address string) (*domain.CreditScore, error)
	SaveScoreFn           func(ctx context.Context, s *domain.CreditScore) error
}

func (m *Repo) CreateRequest(ctx context.Context, r *domain.CreditRequest) error {
	if m.CreateRequestFn != nil {
		return m.CreateRequestFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetRequest(ctx context.Context, requestID string) (*domain.CreditRequest, error) {
	if m.GetRequestFn != nil {
		return m.GetRequestFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetRequestForUpdate(ctx context.Context, requestID string) (*domain.CreditRequest, error) {
	if m.GetRequestForUpdateFn != nil {
		return m.GetRequestForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveRequest(ctx context.Context, r *domain.CreditRequest) error {
	if m.SaveRequestFn != nil {
		return m.SaveRequestFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetScore(ctx context.Context, address string) (*domain.CreditScore, error) {
	if m.GetScoreFn != nil {
		return m.GetScoreFn(ctx, address)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveScore(ctx context.Context, s *domain.CreditScore) error {
	if m.SaveScoreFn != nil {
		return m.SaveScoreFn(ctx, s)
	}
	return nil
}
