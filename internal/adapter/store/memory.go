// Package store implements domain.SessionStore in process memory and in Redis.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/timeutil"
)

// DefaultSweepSchedule runs the expiry sweep every minute.
const DefaultSweepSchedule = "@every 1m"

type memoryEntry struct {
	session   *domain.Session
	expiresAt time.Time
}

// Memory keeps sessions in a map. Sessions expire ttl after their last save;
// expired entries are invisible immediately and removed by the sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   timeutil.Clock
	cron    *cron.Cron
	log     *logger.Logger
}

// NewMemory creates an in-memory store. A non-positive ttl disables expiry.
func NewMemory(ttl time.Duration, clock timeutil.Clock, log *logger.Logger) *Memory {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   clock,
		log:     log,
	}
}

// Get returns a copy of the session.
func (m *Memory) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return entry.session.Clone(), nil
}

// Save stores a copy of the session and renews its expiry.
func (m *Memory) Save(_ context.Context, s *domain.Session) error {
	entry := m.newEntry(s)

	m.mu.Lock()
	m.entries[s.ID] = entry
	m.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the session under the store lock.
func (m *Memory) Update(_ context.Context, id string, fn func(*domain.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok || m.expired(entry) {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	s := entry.session.Clone()
	if err := fn(s); err != nil {
		return err
	}
	m.entries[id] = m.newEntry(s)
	return nil
}

func (m *Memory) newEntry(s *domain.Session) memoryEntry {
	entry := memoryEntry{session: s.Clone()}
	if m.ttl > 0 {
		entry.expiresAt = m.clock.Now().Add(m.ttl)
	}
	return entry
}

// Delete removes the session.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep removes expired sessions and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given cron schedule until Stop is called.
func (m *Memory) StartSweeper(schedule string) error {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if n := m.Sweep(); n > 0 {
			m.log.Debug().Int("removed", n).Msg("expired sessions swept")
		}
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()

	c.Start()
	return nil
}

// Stop stops the sweeper and waits for a running sweep to finish.
func (m *Memory) Stop() {
	m.mu.RLock()
	c := m.cron
	m.mu.RUnlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

func (m *Memory) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt)
}

var _ domain.SessionStore = (*Memory)(nil)
