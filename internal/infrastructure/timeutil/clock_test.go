package timeutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	before := time.Now()
	got := NewRealClock().Now()
	after := time.Now()

	assert.False(t, got.Before(before.Truncate(time.Second)))
	assert.False(t, got.After(after))
	assert.Equal(t, time.UTC, got.Location())
}

func TestMockClock_Now(t *testing.T) {
	fixed := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	clock := NewMockClock(fixed)

	assert.Equal(t, fixed, clock.Now())
	assert.Equal(t, fixed, clock.Now(), "does not tick on its own")
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	clock := NewMockClock(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC))

	clock.Advance(30 * time.Minute)
	assert.Equal(t, time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC), clock.Now())

	clock.Advance(-2 * time.Hour)
	assert.Equal(t, time.Date(2024, 5, 20, 7, 30, 0, 0, time.UTC), clock.Now())

	target := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(target)
	assert.Equal(t, target, clock.Now())
}

func TestMockClock_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Second), clock.Now())
}

func TestNewMockClockFromString(t *testing.T) {
	clock := NewMockClockFromString("2024-05-20T09:00:00Z")
	assert.Equal(t, time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC), clock.Now())

	assert.Panics(t, func() { NewMockClockFromString("invalid-time") })
}
