package pending

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// Store keeps prepared payments until their owner confirms them or they expire.
// All methods are safe for concurrent use.
type Store struct {
	logger   *zap.Logger
	clock    clock.Clock
	ttl      time.Duration
	newToken func() (string, error)

	mu      sync.Mutex
	entries map[string]core.PendingConfirmation
}

func NewStore(logger *zap.Logger, clk clock.Clock, ttl time.Duration) *Store {
	return &Store{
		logger:   logger,
		clock:    clk,
		ttl:      ttl,
		newToken: newToken,
		entries:  map[string]core.PendingConfirmation{},
	}
}

// Insert stores plan under a fresh token and returns the token.
func (s *Store) Insert(plan core.PaymentPlan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		token, err := s.newToken()
		if err != nil {
			return "", errors.Wrap(err, "generate token")
		}
		if _, ok := s.entries[token]; ok {
			continue
		}
		s.entries[token] = core.PendingConfirmation{
			Token:     token,
			Plan:      plan,
			CreatedAt: s.clock.Now(),
		}
		pendingGauge.Set(float64(len(s.entries)))
		return token, nil
	}
}

// FetchForConfirm removes and returns the plan stored under token.
// Unknown, consumed and expired tokens all yield core.ErrTokenNotFound.
// A requester who does not own the plan gets core.ErrNotOwner and the entry stays in place.
func (s *Store) FetchForConfirm(token string, requester core.UserIdentity) (core.PaymentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return core.PaymentPlan{}, core.ErrTokenNotFound
	}
	if s.expired(entry, s.clock.Now()) {
		s.remove(token)
		expiredCounter.Inc()
		return core.PaymentPlan{}, core.ErrTokenNotFound
	}
	if entry.Plan.Requester != requester {
		return core.PaymentPlan{}, core.ErrNotOwner
	}
	s.remove(token)
	return entry.Plan, nil
}

// SweepExpired removes every entry older than the TTL at now and returns how many were removed.
func (s *Store) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, entry := range s.entries {
		if s.expired(entry, now) {
			s.remove(token)
			removed++
			s.logger.Info("expired pending transaction",
				zap.String("token", token),
				zap.String("requester", string(entry.Plan.Requester)))
		}
	}
	expiredCounter.Add(float64(removed))
	return removed
}

// Len is the number of stored entries, including expired ones not swept yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunSweeper sweeps expired entries every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.TickAfter(interval):
			s.SweepExpired(s.clock.Now())
		}
	}
}

func (s *Store) expired(entry core.PendingConfirmation, now time.Time) bool {
	return entry.CreatedAt.Add(s.ttl).Before(now)
}

func (s *Store) remove(token string) {
	delete(s.entries, token)
	pendingGauge.Set(float64(len(s.entries)))
}
