package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/lockstake/staking-ledger/internal/db"
	"github.com/lockstake/staking-ledger/internal/db/model"
)

// MemoryDb is an in-memory db.DbInterface for unit tests. Errors can be
// injected per method name to exercise persistence failure paths.
type MemoryDb struct {
	mu     sync.Mutex
	stakes map[string]model.StakeDocument
	tiers  map[int]model.TierDocument
	state  *model.LedgerStateDocument

	// FailNext maps a method name to the error its next call returns.
	FailNext map[string]error
}

var _ db.DbInterface = (*MemoryDb)(nil)

func NewMemoryDb() *MemoryDb {
	return &MemoryDb{
		stakes:   make(map[string]model.StakeDocument),
		tiers:    make(map[int]model.TierDocument),
		FailNext: make(map[string]error),
	}
}

func (m *MemoryDb) failure(method string) error {
	if err, ok := m.FailNext[method]; ok {
		delete(m.FailNext, method)
		return err
	}
	return nil
}

func (m *MemoryDb) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryDb) SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("SaveNewStake"); err != nil {
		return err
	}
	if _, ok := m.stakes[stakeDoc.Account]; ok {
		return &db.DuplicateKeyError{Key: stakeDoc.Account, Message: "stake already exists"}
	}
	m.stakes[stakeDoc.Account] = *stakeDoc
	return nil
}

func (m *MemoryDb) UpsertStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("UpsertStake"); err != nil {
		return err
	}
	m.stakes[stakeDoc.Account] = *stakeDoc
	return nil
}

func (m *MemoryDb) UpdateStakeLastClaimTime(ctx context.Context, account string, lastClaimTime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("UpdateStakeLastClaimTime"); err != nil {
		return err
	}
	doc, ok := m.stakes[account]
	if !ok {
		return &db.NotFoundError{Key: account, Message: "stake not found"}
	}
	doc.LastClaimTime = lastClaimTime
	m.stakes[account] = doc
	return nil
}

func (m *MemoryDb) DeleteStake(ctx context.Context, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("DeleteStake"); err != nil {
		return err
	}
	if _, ok := m.stakes[account]; !ok {
		return &db.NotFoundError{Key: account, Message: "stake not found"}
	}
	delete(m.stakes, account)
	return nil
}

func (m *MemoryDb) GetStake(ctx context.Context, account string) (*model.StakeDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("GetStake"); err != nil {
		return nil, err
	}
	doc, ok := m.stakes[account]
	if !ok {
		return nil, &db.NotFoundError{Key: account, Message: "stake not found"}
	}
	return &doc, nil
}

func (m *MemoryDb) GetAllStakes(ctx context.Context) ([]model.StakeDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("GetAllStakes"); err != nil {
		return nil, err
	}
	docs := make([]model.StakeDocument, 0, len(m.stakes))
	for _, doc := range m.stakes {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *MemoryDb) SaveNewTier(ctx context.Context, tierDoc *model.TierDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("SaveNewTier"); err != nil {
		return err
	}
	if _, ok := m.tiers[tierDoc.Position]; ok {
		return &db.DuplicateKeyError{Key: "position", Message: "tier already exists"}
	}
	for _, existing := range m.tiers {
		if existing.LockPeriodDays == tierDoc.LockPeriodDays {
			return &db.DuplicateKeyError{Key: "lock_period_days", Message: "tier already exists"}
		}
	}
	m.tiers[tierDoc.Position] = *tierDoc
	return nil
}

func (m *MemoryDb) UpdateTierAPY(ctx context.Context, position int, apyBasisPoints uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("UpdateTierAPY"); err != nil {
		return err
	}
	doc, ok := m.tiers[position]
	if !ok {
		return &db.NotFoundError{Key: "position", Message: "tier not found"}
	}
	doc.ApyBasisPoints = apyBasisPoints
	m.tiers[position] = doc
	return nil
}

func (m *MemoryDb) GetAllTiers(ctx context.Context) ([]model.TierDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("GetAllTiers"); err != nil {
		return nil, err
	}
	docs := make([]model.TierDocument, 0, len(m.tiers))
	for _, doc := range m.tiers {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Position < docs[j].Position })
	return docs, nil
}

func (m *MemoryDb) GetLedgerState(ctx context.Context) (*model.LedgerStateDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("GetLedgerState"); err != nil {
		return nil, err
	}
	if m.state == nil {
		return nil, &db.NotFoundError{Key: model.LedgerStateID, Message: "ledger state not found"}
	}
	doc := *m.state
	return &doc, nil
}

func (m *MemoryDb) SetPaused(ctx context.Context, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("SetPaused"); err != nil {
		return err
	}
	m.ensureState()
	m.state.Paused = paused
	return nil
}

func (m *MemoryDb) SetRewardPoolBalance(ctx context.Context, balance string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("SetRewardPoolBalance"); err != nil {
		return err
	}
	m.ensureState()
	m.state.RewardPoolBalance = balance
	return nil
}

func (m *MemoryDb) ensureState() {
	if m.state == nil {
		m.state = &model.LedgerStateDocument{ID: model.LedgerStateID}
	}
}

// StakeCount reports the number of persisted stake documents.
func (m *MemoryDb) StakeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stakes)
}
