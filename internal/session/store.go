// Package session keeps each dashboard user's selector state apart. Sessions
// share the read-only table and nothing else.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/zhvi-dashboard/internal/cache"
	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is one user's selection state.
type Session struct {
	ID string

	mu       sync.Mutex
	selector *domain.Selector
	lastSeen atomic.Int64 // unix nanoseconds
}

// Do runs fn with exclusive access to the session's selector.
func (s *Session) Do(fn func(*domain.Selector) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.selector)
}

// Selection returns a copy of the current selection and its candidates.
func (s *Session) Selection() (domain.Selection, domain.Candidates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Selection(), s.selector.Candidates()
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// Store holds sessions in an LRU bounded by count and expires them after a TTL of inactivity.
type Store struct {
	table   *domain.Table
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	lru     *cache.LRU[*Session]
}

// NewStore creates a session store over table.
func NewStore(table *domain.Table, ttl time.Duration, maxSessions int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Store {
	s := &Store{
		table:   table,
		ttl:     ttl,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
	s.lru = cache.NewLRU(maxSessions, func(id string, _ *Session) {
		logger.Debug("session evicted", "session_id", id)
	})
	return s
}

// Create starts a session at the selector defaults.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		selector: domain.NewSelector(s.table),
	}
	sess.touch(s.clock.Now())
	s.lru.Put(sess.ID, sess)
	s.metrics.SessionsActive.Set(float64(s.lru.Len()))
	s.logger.Debug("session created", "session_id", sess.ID)
	return sess
}

// Get returns a live session and refreshes its expiry.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.lru.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	now := s.clock.Now()
	if sess.idle(now) > s.ttl {
		s.lru.Remove(id)
		s.metrics.SessionsActive.Set(float64(s.lru.Len()))
		return nil, ErrNotFound
	}
	sess.touch(now)
	return sess, nil
}

// Delete ends a session.
func (s *Store) Delete(id string) error {
	if !s.lru.Remove(id) {
		return ErrNotFound
	}
	s.metrics.SessionsActive.Set(float64(s.lru.Len()))
	return nil
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *Store) Len() int { return s.lru.Len() }

// Sweep removes every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.clock.Now()
	n := s.lru.RemoveIf(func(_ string, sess *Session) bool {
		return sess.idle(now) > s.ttl
	})
	s.metrics.SessionsActive.Set(float64(s.lru.Len()))
	return n
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired sessions swept", "count", n, "remaining", s.lru.Len())
			}
		}
	}
}
