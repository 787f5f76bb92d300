// Package clock provides the logical ledger clock.
package clock

import (
	"sync"
	"time"
)

// System reads unix seconds from the wall clock and never goes backwards.
type System struct {
	mu   sync.Mutex
	last uint64
	wall func() time.Time
}

func NewSystem() *System {
	return &System{wall: time.Now}
}

func (c *System) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if secs := c.wall().Unix(); secs > 0 && uint64(secs) > c.last {
		c.last = uint64(secs)
	}
	return c.last
}

// Fixed always reports the same time.
type Fixed uint64

func (c Fixed) Now() uint64 {
	return uint64(c)
}

// Manual is advanced explicitly by its owner.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

func (c *Manual) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *Manual) Advance(d uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}

// Set moves the clock to t unless that would move it backwards.
func (c *Manual) Set(t uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = max(c.now, t)
}
