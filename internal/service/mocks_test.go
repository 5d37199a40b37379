package service

import (
	"context"
	"sync"

	"refearn/internal/domain"
	"refearn/internal/models"
	"refearn/internal/repository"
)

// mockGraph serves users out of a map keyed by id.
type mockGraph struct {
	users map[uint]*models.User
	err   error
}

func (m *mockGraph) GetByID(_ context.Context, id uint) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockGraph) ResolveAncestors(ctx context.Context, userID uint) (*models.User, *models.User, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	u, err := m.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u.ParentID == nil {
		return nil, nil, nil
	}
	parent := m.users[*u.ParentID]
	if parent == nil || parent.ParentID == nil {
		return parent, nil, nil
	}
	return parent, m.users[*parent.ParentID], nil
}

type mockTxnStore struct {
	mu      sync.Mutex
	created []*models.Transaction
	err     error
}

func (m *mockTxnStore) Create(_ context.Context, t *models.Transaction) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uint(len(m.created) + 1)
	m.created = append(m.created, t)
	return nil
}

func (m *mockTxnStore) GetByReference(_ context.Context, ref string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.created {
		if t.Reference == ref {
			return t, nil
		}
	}
	return nil, repository.ErrTransactionNotFound
}

// mockLedger scripts per-level results: levels in failLevels fail, levels in
// appliedBefore report already-applied, the rest apply.
type mockLedger struct {
	mu            sync.Mutex
	failLevels    map[int]bool
	appliedBefore map[int]bool
	commits       [][]domain.CommissionTuple
}

func (m *mockLedger) Commit(_ context.Context, txn *models.Transaction, tuples []domain.CommissionTuple) []domain.EarningWriteResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits = append(m.commits, tuples)
	results := make([]domain.EarningWriteResult, 0, len(tuples))
	for _, t := range tuples {
		res := domain.EarningWriteResult{Tuple: t, Status: domain.WriteApplied, NewBalanceCents: t.AmountCents}
		if m.failLevels[t.Level] {
			res.Status = domain.WriteFailed
			res.Err = &domain.TransientError{Op: "mock", Err: context.DeadlineExceeded}
		} else if m.appliedBefore[t.Level] {
			res.Status = domain.WriteAlreadyApplied
		}
		results = append(results, res)
	}
	return results
}

type mockDispatcher struct {
	mu     sync.Mutex
	events []domain.EarningEvent
}

func (m *mockDispatcher) DispatchEarnings(events []domain.EarningEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
}

func (m *mockDispatcher) snapshot() []domain.EarningEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EarningEvent, len(m.events))
	copy(out, m.events)
	return out
}
