package mysql

import (
	"context"

	oracleDomain "lendpool-backend/internal/domain/oracle"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OracleRepository struct{ db *gorm.DB }

func NewOracleRepository(db *gorm.DB) *OracleRepository { return &OracleRepository{db: db} }

func (r *OracleRepository) CreateRequest(ctx context.Context, cr *oracleDomain.CreditRequest) error {
	return r.db.WithContext(ctx).Create(cr).Error
}

func (r *OracleRepository) GetRequest(ctx context.Context, requestID string) (*oracleDomain.CreditRequest, error) {
	var out oracleDomain.CreditRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *OracleRepository) GetRequestForUpdate(ctx context.Context, requestID string) (*oracleDomain.CreditRequest, error) {
	var out oracleDomain.CreditRequest
	res := lockForUpdate(r.db.WithContext(ctx)).
		Where("request_id = ?", requestID).
		First(&out)
	return &out, res.Error
}

func (r *OracleRepository) SaveRequest(ctx context.Context, cr *oracleDomain.CreditRequest) error {
	return r.db.WithContext(ctx).Save(cr).Error
}

func (r *OracleRepository) GetScore(ctx context.Context, address string) (*oracleDomain.CreditScore, error) {
	var out oracleDomain.CreditScore
	res := r.db.WithContext(ctx).Where("address = ?", address).First(&out)
	return &out, res.Error
}

// SaveScore upserts on the address unique index so every successful
// fulfillment overwrites the cached score.
func (r *OracleRepository) SaveScore(ctx context.Context, s *oracleDomain.CreditScore) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(s).Error
}
