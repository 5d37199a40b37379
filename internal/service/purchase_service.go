package service

import (
	"context"
	"errors"
	"fmt"

	"refearn/internal/domain"
	"refearn/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReferralGraph is the read side of the user registry the orchestrator
// depends on.
type ReferralGraph interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ResolveAncestors(ctx context.Context, userID uint) (parent, grandparent *models.User, err error)
}

// TransactionStore persists immutable purchase records.
type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByReference(ctx context.Context, ref string) (*models.Transaction, error)
}

// Ledger commits commission tuples, one atomic unit per tuple.
type Ledger interface {
	Commit(ctx context.Context, txn *models.Transaction, tuples []domain.CommissionTuple) []domain.EarningWriteResult
}

// EarningDispatcher pushes earning events to live channels, best-effort.
type EarningDispatcher interface {
	DispatchEarnings(events []domain.EarningEvent)
}

// PurchaseOutcome is the caller-facing result of one purchase request.
type PurchaseOutcome struct {
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	AppliedLevels  []int  `json:"applied_levels"`
	FailedLevels   []int  `json:"failed_levels"`
}

// PurchaseService orchestrates one purchase: validate, record the
// transaction, distribute commissions, notify. Distribution is idempotent,
// so a PartiallyCompleted outcome can be retried per transaction without
// double-crediting the levels that already landed.
type PurchaseService struct {
	graph      ReferralGraph
	txns       TransactionStore
	ledger     Ledger
	dispatcher EarningDispatcher
	policy     *PolicyProvider
}

func NewPurchaseService(graph ReferralGraph, txns TransactionStore, ledger Ledger, dispatcher EarningDispatcher, policy *PolicyProvider) *PurchaseService {
	return &PurchaseService{graph: graph, txns: txns, ledger: ledger, dispatcher: dispatcher, policy: policy}
}

// ProcessPurchase runs the full pipeline for a purchase of amount (whole
// currency units) by purchaserID. Rejections happen before any durable
// write; once the transaction is recorded it is never rolled back.
func (s *PurchaseService) ProcessPurchase(ctx context.Context, purchaserID uint, amount decimal.Decimal) (*PurchaseOutcome, error) {
	policy := s.policy.Current()

	// Validating
	if amount.LessThan(policy.MinPurchase) {
		return &PurchaseOutcome{Status: domain.StatusRejected}, domain.ErrBelowThreshold
	}
	purchaser, err := s.graph.GetByID(ctx, purchaserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &PurchaseOutcome{Status: domain.StatusRejected}, err
		}
		return nil, err
	}

	// Recording
	amountCents := amount.Shift(2).Round(0).IntPart()
	txn := &models.Transaction{
		Reference:           uuid.NewString(),
		UserID:              purchaser.ID,
		PurchaseAmountCents: amountCents,
		ProfitCents:         amountCents, // profit basis equals purchase amount
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	// Distributing
	return s.distribute(ctx, txn, purchaser, policy)
}

// RetryDistribution re-runs the distribution step for an already recorded
// transaction. Committed levels are skipped by the ledger's idempotency
// check; only failed or missing levels are applied.
func (s *PurchaseService) RetryDistribution(ctx context.Context, reference string) (*PurchaseOutcome, error) {
	txn, err := s.txns.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	purchaser, err := s.graph.GetByID(ctx, txn.UserID)
	if err != nil {
		return nil, err
	}
	return s.distribute(ctx, txn, purchaser, s.policy.Current())
}

func (s *PurchaseService) distribute(ctx context.Context, txn *models.Transaction, purchaser *models.User, policy CommissionPolicy) (*PurchaseOutcome, error) {
	outcome := &PurchaseOutcome{
		Status:         domain.StatusCompleted,
		TransactionRef: txn.Reference,
		AppliedLevels:  []int{},
		FailedLevels:   []int{},
	}

	parent, grandparent, err := s.graph.ResolveAncestors(ctx, purchaser.ID)
	if err != nil {
		// Transaction stands; nothing was distributed. Caller retries.
		outcome.Status = domain.StatusPartiallyCompleted
		return outcome, fmt.Errorf("resolve ancestors: %w", err)
	}

	tuples := CalculateCommissions(txn.ProfitCents, parent, grandparent, policy)
	if len(tuples) == 0 {
		// Purchaser at or near the root: a completed purchase with no earnings.
		return outcome, nil
	}

	beneficiaries := map[uint]*models.User{}
	if parent != nil {
		beneficiaries[parent.ID] = parent
	}
	if grandparent != nil {
		beneficiaries[grandparent.ID] = grandparent
	}

	results := s.ledger.Commit(ctx, txn, tuples)
	events := make([]domain.EarningEvent, 0, len(results))
	for _, res := range results {
		switch res.Status {
		case domain.WriteApplied, domain.WriteAlreadyApplied:
			outcome.AppliedLevels = append(outcome.AppliedLevels, res.Tuple.Level)
			events = append(events, s.buildEvent(txn, purchaser, beneficiaries[res.Tuple.BeneficiaryID], res))
		default:
			outcome.FailedLevels = append(outcome.FailedLevels, res.Tuple.Level)
			logrus.WithFields(logrus.Fields{
				"transaction": txn.Reference,
				"level":       res.Tuple.Level,
				"beneficiary": res.Tuple.BeneficiaryID,
			}).WithError(res.Err).Error("commission commit failed")
		}
	}
	if len(outcome.FailedLevels) > 0 {
		outcome.Status = domain.StatusPartiallyCompleted
	}

	// Fire-and-forget: delivery never blocks or aborts the purchase.
	if s.dispatcher != nil && len(events) > 0 {
		go s.dispatcher.DispatchEarnings(events)
	}
	return outcome, nil
}

func (s *PurchaseService) buildEvent(txn *models.Transaction, purchaser, beneficiary *models.User, res domain.EarningWriteResult) domain.EarningEvent {
	ev := domain.EarningEvent{
		Type:            "direct",
		BeneficiaryID:   res.Tuple.BeneficiaryID,
		PurchaserID:     purchaser.ID,
		PurchaserName:   purchaser.Name,
		Level:           res.Tuple.Level,
		AmountCents:     res.Tuple.AmountCents,
		TransactionRef:  txn.Reference,
		NewBalanceCents: res.NewBalanceCents,
	}
	if res.Tuple.Level == domain.LevelIndirect {
		ev.Type = "indirect"
	}
	if beneficiary != nil {
		ev.BeneficiaryName = beneficiary.Name
	}
	return ev
}
