package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/lockstake/staking-ledger/internal/clients/bankclient"
	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/db"
	"github.com/lockstake/staking-ledger/internal/observability/metrics"
	"github.com/lockstake/staking-ledger/internal/queue"
	"github.com/lockstake/staking-ledger/internal/types"
)

// Service is the staking ledger: tier registry, per-account stake
// lifecycle and reward accounting. In-memory state is authoritative and
// written through to the database on every mutation; operations commit
// their state change before any outbound transfer and restore the
// pre-operation snapshot if the transfer is rejected.
type Service struct {
	cfg    *config.Config
	db     db.DbInterface
	bank   bankclient.BankInterface
	events queue.EventSink

	// now is replaceable in tests.
	now func() time.Time

	// accountsMu guards the map structure only. Each account entry has
	// its own mutex held for the whole operation, including the
	// transfer: that is the non-reentrancy lock. Lock order is always
	// accountsMu -> account.mu -> stateMu.
	accountsMu sync.Mutex
	accounts   map[string]*account

	tiersMu sync.RWMutex
	tiers   []Tier

	// stateMu guards the shared aggregates. Never held across I/O.
	stateMu     sync.Mutex
	paused      bool
	totalStaked sdkmath.Int
	rewardPool  sdkmath.Int
}

type account struct {
	mu    sync.Mutex
	stake *StakeRecord
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	bank bankclient.BankInterface,
	events queue.EventSink,
) *Service {
	return &Service{
		cfg:         cfg,
		db:          db,
		bank:        bank,
		events:      events,
		now:         time.Now,
		accounts:    make(map[string]*account),
		totalStaked: sdkmath.ZeroInt(),
		rewardPool:  sdkmath.ZeroInt(),
	}
}

// Load hydrates the ledger from the database. Totals are recomputed
// from the stake records rather than read from a stored aggregate, so
// the sum invariant holds by construction after startup.
func (s *Service) Load(ctx context.Context) error {
	stakeDocs, err := s.db.GetAllStakes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stakes: %w", err)
	}

	total := sdkmath.ZeroInt()
	accounts := make(map[string]*account, len(stakeDocs))
	for i := range stakeDocs {
		rec, err := stakeRecordFromDocument(&stakeDocs[i])
		if err != nil {
			return err
		}
		accounts[stakeDocs[i].Account] = &account{stake: rec}
		total = total.Add(rec.Amount)
	}

	tierDocs, err := s.db.GetAllTiers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tiers: %w", err)
	}
	tiers := make([]Tier, 0, len(tierDocs))
	for _, doc := range tierDocs {
		tiers = append(tiers, Tier{
			LockPeriodDays: doc.LockPeriodDays,
			ApyBasisPoints: doc.ApyBasisPoints,
		})
	}

	paused := false
	pool := sdkmath.ZeroInt()
	stateDoc, err := s.db.GetLedgerState(ctx)
	switch {
	case err == nil:
		paused = stateDoc.Paused
		pool, err = parseAmount(stateDoc.RewardPoolBalance)
		if err != nil {
			return fmt.Errorf("failed to load ledger state: %w", err)
		}
	case db.IsNotFoundError(err):
		// first boot, defaults apply
	default:
		return fmt.Errorf("failed to load ledger state: %w", err)
	}

	s.accountsMu.Lock()
	s.accounts = accounts
	s.accountsMu.Unlock()

	s.tiersMu.Lock()
	s.tiers = tiers
	s.tiersMu.Unlock()

	s.stateMu.Lock()
	s.paused = paused
	s.totalStaked = total
	s.rewardPool = pool
	s.stateMu.Unlock()

	return nil
}

func (s *Service) account(name string) *account {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	acct, ok := s.accounts[name]
	if !ok {
		acct = &account{}
		s.accounts[name] = acct
	}
	return acct
}

func parseAmount(raw string) (sdkmath.Int, error) {
	if raw == "" {
		return sdkmath.ZeroInt(), nil
	}
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

func (s *Service) instrument(op string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordLedgerOpDuration(duration, op, err != nil)
	return err
}

// elapsedSeconds returns the accrual window since the last claim. A
// negative window means the clock ran backwards past a committed
// timestamp, which is an internal invariant violation.
func elapsedSeconds(lastClaimTime, now time.Time) (int64, error) {
	elapsed := now.Unix() - lastClaimTime.Unix()
	if elapsed < 0 {
		return 0, types.ErrInternal.WithMessagef(
			"clock moved backwards: now %d precedes last claim %d", now.Unix(), lastClaimTime.Unix())
	}
	return elapsed, nil
}

func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	if amount.BigInt().BitLen() > maxAmountBits {
		return types.ErrInvalidAmount.WithMessagef("amount exceeds %d bits", maxAmountBits)
	}
	return nil
}

// debitRewardPool atomically checks and reduces the pool, returning the
// new balance for persistence.
func (s *Service) debitRewardPool(reward sdkmath.Int) (string, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.rewardPool.LT(reward) {
		return "", types.ErrInsufficientRewardPool
	}
	s.rewardPool = s.rewardPool.Sub(reward)
	return s.rewardPool.String(), nil
}

func (s *Service) creditRewardPool(amount sdkmath.Int) string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.rewardPool = s.rewardPool.Add(amount)
	return s.rewardPool.String()
}

func (s *Service) addTotalStaked(amount sdkmath.Int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.totalStaked = s.totalStaked.Add(amount)
}

func (s *Service) subTotalStaked(amount sdkmath.Int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.totalStaked = s.totalStaked.Sub(amount)
}

// TotalStaked returns the aggregate principal over all active stakes.
func (s *Service) TotalStaked() sdkmath.Int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.totalStaked
}

// RewardPoolBalance returns the tracked reward pool balance.
func (s *Service) RewardPoolBalance() sdkmath.Int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.rewardPool
}

// StakeOf returns a copy of the account's active stake record, or false
// when the account is idle.
func (s *Service) StakeOf(name string) (StakeRecord, bool) {
	acct := s.account(name)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.stake == nil {
		return StakeRecord{}, false
	}
	return *acct.stake, true
}
