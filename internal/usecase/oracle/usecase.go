package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lendpool-backend/internal/domain/common"
	"lendpool-backend/internal/domain/event"
	oracleDomain "lendpool-backend/internal/domain/oracle"
	"lendpool-backend/internal/domain/uow"
	"lendpool-backend/pkg/guard"
)

// Network is the external oracle network boundary: Submit fires the request
// and returns the correlation id synchronously; the answer arrives later via
// Fulfill, delivered at least once.
type Network interface {
	Submit(ctx context.Context, req SubmitRequest) (string, error)
}

// Decider is the orchestrator surface the bridge drives on fulfillment.
type Decider interface {
	ApproveTx(ctx context.Context, r uow.Repos, caller string, loanID, rateBps uint64) error
	RejectTx(ctx context.Context, r uow.Repos, caller string, loanID uint64, reason string) error
}

const reasonCreditCheckFailed = "Credit check failed"

var errNoOrchestrator = errors.New("oracle bridge: orchestrator not registered")

// Usecase is the oracle bridge: it books scoring requests, guards against
// duplicate fulfillments, caches scores and converts each answer into an
// approve or reject decision on the orchestrator.
type Usecase struct {
	repo    oracleDomain.Repository
	uow     uow.UnitOfWork
	network Network
	guard   guard.Guard
	log     *logrus.Logger

	// identity is presented as the caller on nested orchestrator calls.
	identity string

	mu             sync.RWMutex
	orchestrator   Decider
	orchestratorID string
	source         string
	subscriptionID uint64
	gasLimit       uint32

	now func() time.Time
}

func NewUsecase(repo oracleDomain.Repository, u uow.UnitOfWork, network Network, identity string, log *logrus.Logger) *Usecase {
	return &Usecase{
		repo:     repo,
		uow:      u,
		network:  network,
		identity: identity,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetOrchestrator registers the orchestrator decisions are delivered to and
// the identity whose score requests are accepted.
func (u *Usecase) SetOrchestrator(ctx context.Context, identity string, d Decider) error {
	if d == nil || common.IsZeroAddress(identity) {
		return common.ErrZeroAddress
	}
	u.mu.Lock()
	u.orchestrator = d
	u.orchestratorID = identity
	u.mu.Unlock()
	u.log.WithFields(logrus.Fields{"component": "oracle-bridge", "orchestrator": identity}).
		Info("orchestrator registered")
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: fmt.Sprintf("bridge.orchestrator=%s", identity),
		})
	})
}

// SetSource configures the scoring program shipped with each request.
func (u *Usecase) SetSource(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" {
		return oracleDomain.ErrEmptySource
	}
	u.mu.Lock()
	u.source = source
	u.mu.Unlock()
	u.log.WithField("component", "oracle-bridge").Info("scoring source updated")
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: "bridge.source updated",
		})
	})
}

// SetSubscriptionParams updates the oracle billing subscription.
func (u *Usecase) SetSubscriptionParams(ctx context.Context, subscriptionID uint64) error {
	u.mu.Lock()
	u.subscriptionID = subscriptionID
	u.mu.Unlock()
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: fmt.Sprintf("bridge.subscription=%d", subscriptionID),
		})
	})
}

// SetGasLimit updates the callback gas budget forwarded with each request.
func (u *Usecase) SetGasLimit(ctx context.Context, limit uint32) error {
	u.mu.Lock()
	u.gasLimit = limit
	u.mu.Unlock()
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: fmt.Sprintf("bridge.gas_limit=%d", limit),
		})
	})
}

// RequestScoreTx submits a scoring request for (borrower, loanID) inside the
// orchestrator's transaction. Only the registered orchestrator may call it.
func (u *Usecase) RequestScoreTx(ctx context.Context, r uow.Repos, caller, borrower string, loanID uint64) (string, error) {
	u.mu.RLock()
	registered, source, subID, gasLimit := u.orchestratorID, u.source, u.subscriptionID, u.gasLimit
	u.mu.RUnlock()
	if registered == "" || caller != registered {
		return "", fmt.Errorf("%w: %s", common.ErrUnauthorizedCaller, caller)
	}
	if common.IsZeroAddress(borrower) {
		return "", common.ErrZeroAddress
	}
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("%w: source not configured", oracleDomain.ErrEmptySource)
	}

	requestID, err := u.network.Submit(ctx, SubmitRequest{
		Source:         source,
		SubscriptionID: subID,
		GasLimit:       gasLimit,
		Wallet:         borrower,
		LoanID:         loanID,
	})
	if err != nil {
		return "", fmt.Errorf("oracle submit: %w", err)
	}

	if err := r.Oracle.CreateRequest(ctx, &oracleDomain.CreditRequest{
		RequestID:   requestID,
		Borrower:    borrower,
		LoanID:      loanID,
		RequestedAt: u.now(),
	}); err != nil {
		return "", err
	}
	if err := r.Events.Append(ctx, &event.ProtocolEvent{
		Type:    event.TypeScoreRequested,
		LoanID:  loanID,
		Address: borrower,
		Detail:  fmt.Sprintf("request_id=%s", requestID),
	}); err != nil {
		return "", err
	}
	u.log.WithFields(logrus.Fields{"request_id": requestID, "loan_id": loanID}).Info("score requested")
	return requestID, nil
}

// Fulfill consumes the oracle network's answer for requestID. Exactly one
// fulfillment is accepted per request; duplicates fail with
// ErrAlreadyFulfilled. An oracle-side error is not a fault here: it becomes a
// rejection of the loan and the invocation still succeeds.
func (u *Usecase) Fulfill(ctx context.Context, requestID string, response, oracleErr []byte) error {
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	return u.uow.WithinTx(gctx, func(r uow.Repos) error {
		req, err := r.Oracle.GetRequestForUpdate(gctx, requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", oracleDomain.ErrRequestNotFound, requestID)
		}
		if err != nil {
			return err
		}
		if req.Fulfilled {
			return fmt.Errorf("%w: %s", oracleDomain.ErrAlreadyFulfilled, requestID)
		}
		req.Fulfilled = true
		if err := r.Oracle.SaveRequest(gctx, req); err != nil {
			return err
		}

		u.mu.RLock()
		orch := u.orchestrator
		u.mu.RUnlock()
		if orch == nil {
			return errNoOrchestrator
		}

		if len(oracleErr) > 0 {
			if err := r.Events.Append(gctx, &event.ProtocolEvent{
				Type:    event.TypeOracleError,
				LoanID:  req.LoanID,
				Address: req.Borrower,
				Detail:  string(oracleErr),
			}); err != nil {
				return err
			}
			u.log.WithFields(logrus.Fields{"request_id": requestID, "error": string(oracleErr)}).
				Warn("oracle returned error")
			return orch.RejectTx(gctx, r, u.identity, req.LoanID, reasonCreditCheckFailed)
		}

		score, err := decodeScore(response)
		if err != nil {
			return err
		}
		if err := r.Oracle.SaveScore(gctx, &oracleDomain.CreditScore{
			Address: req.Borrower,
			Score:   score,
		}); err != nil {
			return err
		}
		if err := r.Events.Append(gctx, &event.ProtocolEvent{
			Type:    event.TypeScoreFulfilled,
			LoanID:  req.LoanID,
			Address: req.Borrower,
			Amount:  score,
			Detail:  fmt.Sprintf("request_id=%s", requestID),
		}); err != nil {
			return err
		}

		d := Tier(score)
		u.log.WithFields(logrus.Fields{"request_id": requestID, "score": score, "approved": d.Approved}).
			Info("score fulfilled")
		if d.Approved {
			return orch.ApproveTx(gctx, r, u.identity, req.LoanID, d.RateBps)
		}
		return orch.RejectTx(gctx, r, u.identity, req.LoanID, d.Reason)
	})
}

func (u *Usecase) GetRequest(ctx context.Context, requestID string) (*RequestDTO, error) {
	req, err := u.repo.GetRequest(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", oracleDomain.ErrRequestNotFound, requestID)
	}
	if err != nil {
		return nil, err
	}
	return &RequestDTO{
		RequestID:   req.RequestID,
		Borrower:    req.Borrower,
		LoanID:      req.LoanID,
		Fulfilled:   req.Fulfilled,
		RequestedAt: req.RequestedAt,
	}, nil
}

func (u *Usecase) GetCreditScore(ctx context.Context, address string) (*ScoreDTO, error) {
	s, err := u.repo.GetScore(ctx, address)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", oracleDomain.ErrScoreNotFound, address)
	}
	if err != nil {
		return nil, err
	}
	return &ScoreDTO{Address: s.Address, Score: s.Score, UpdatedAt: s.UpdatedAt}, nil
}

// decodeScore reads the oracle response as a big-endian unsigned integer and
// validates it against the protocol ceiling.
func decodeScore(response []byte) (uint64, error) {
	v := new(big.Int).SetBytes(response)
	if !v.IsUint64() || v.Uint64() > MaxScore {
		return 0, fmt.Errorf("%w: %s", oracleDomain.ErrInvalidScore, v.String())
	}
	return v.Uint64(), nil
}
