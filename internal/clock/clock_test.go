package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockMovesOnlyWhenTold(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	c := NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, ist))
	assert.Equal(t, time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC), c.Now())
	assert.Equal(t, c.Now(), c.Now())

	assert.Equal(t, time.Date(2025, 6, 2, 4, 30, 0, 0, time.UTC), c.Advance(24*time.Hour))

	c.Set(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2026, c.Now().Year())
}

func TestFakeClockConcurrentUse(t *testing.T) {
	c := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Advance(time.Second)
				_ = c.Now()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, time.Date(2025, 1, 1, 0, 13, 20, 0, time.UTC), c.Now())
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, System().Now().Location())
}
