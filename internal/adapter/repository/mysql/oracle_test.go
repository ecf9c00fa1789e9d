package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	oracleDomain "lendpool-backend/internal/domain/oracle"
)

const (
	testRequestID = "0xaabbccddeeff00112233445566778899aabbccddeeff001122334455667788aa"
	testWallet    = "0x4444444444444444444444444444444444444444"
)

func TestOracle_RequestRoundTrip(t *testing.T) {
	repo := NewOracleRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetRequest(ctx, testRequestID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown request: %v", err)
	}

	req := &oracleDomain.CreditRequest{
		RequestID:   testRequestID,
		Borrower:    testWallet,
		LoanID:      5,
		RequestedAt: time.Now().UTC(),
	}
	if err := repo.CreateRequest(ctx, req); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	got, err := repo.GetRequestForUpdate(ctx, testRequestID)
	if err != nil {
		t.Fatalf("GetRequestForUpdate: %v", err)
	}
	if got.LoanID != 5 || got.Fulfilled {
		t.Fatalf("request=%+v", got)
	}

	got.Fulfilled = true
	if err := repo.SaveRequest(ctx, got); err != nil {
		t.Fatalf("SaveRequest: %v", err)
	}
	again, err := repo.GetRequest(ctx, testRequestID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if !again.Fulfilled {
		t.Fatal("fulfilled flag not persisted")
	}
}

func TestOracle_DuplicateRequestIDRejected(t *testing.T) {
	repo := NewOracleRepository(openTestDB(t))
	ctx := context.Background()

	req := &oracleDomain.CreditRequest{RequestID: testRequestID, Borrower: testWallet, LoanID: 1}
	if err := repo.CreateRequest(ctx, req); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	dup := &oracleDomain.CreditRequest{RequestID: testRequestID, Borrower: testWallet, LoanID: 2}
	if err := repo.CreateRequest(ctx, dup); err == nil {
		t.Fatal("duplicate request_id must violate the unique index")
	}
}

func TestOracle_SaveScoreUpserts(t *testing.T) {
	db := openTestDB(t)
	repo := NewOracleRepository(db)
	ctx := context.Background()

	if _, err := repo.GetScore(ctx, testWallet); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown score: %v", err)
	}

	if err := repo.SaveScore(ctx, &oracleDomain.CreditScore{Address: testWallet, Score: 640}); err != nil {
		t.Fatalf("first SaveScore: %v", err)
	}
	if err := repo.SaveScore(ctx, &oracleDomain.CreditScore{Address: testWallet, Score: 720}); err != nil {
		t.Fatalf("second SaveScore: %v", err)
	}

	got, err := repo.GetScore(ctx, testWallet)
	if err != nil {
		t.Fatalf("GetScore: %v", err)
	}
	if got.Score != 720 {
		t.Fatalf("score=%d", got.Score)
	}

	var count int64
	if err := db.Model(&oracleDomain.CreditScore{}).Where("address = ?", testWallet).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows=%d, upsert must keep one row per address", count)
	}
}
