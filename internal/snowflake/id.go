// Package snowflake provides Snowflake style IDs and a strictly increasing
// clock to stamp them with.
package snowflake

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// ID is a Snowflake ID.
// 48 bits for time in milliseconds, 16 bits for random.
type ID uint64

// TimeToID converts a time.Time to a Snowflake ID.
func TimeToID(ts time.Time) ID {
	return ID(uint64(ts.UnixMilli())<<16 | uint64(rand.Intn(1<<16)))
}

// ToTime converts a Snowflake ID to a time.Time with millisecond precision.
func (id ID) ToTime() time.Time {
	return time.UnixMilli(int64(id >> 16))
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// A Clock hands out timestamps that are strictly increasing across calls.
// When the wall clock has not advanced past the previous timestamp Now waits
// for it to do so, so every value it returns is a real reading of the clock.
// The zero value is ready to use.
type Clock struct {
	mu   sync.Mutex
	last time.Time

	// now and sleep are replaced in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// Resolution is the minimum delay between two timestamps issued by a Clock
// when the wall clock has not moved.
const Resolution = time.Millisecond

// Now returns the current time, strictly after any time previously returned
// by this Clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now, sleep := c.now, c.sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	ts := now()
	for !ts.After(c.last) {
		sleep(Resolution)
		ts = now()
	}
	c.last = ts
	return ts
}
