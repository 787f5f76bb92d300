package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Now(t *testing.T) {
	t.Run("should report unix seconds", func(t *testing.T) {
		c := NewSystem()
		c.wall = func() time.Time { return time.Unix(1_700_000_000, 0) }

		assert.Equal(t, uint64(1_700_000_000), c.Now())
	})

	t.Run("should never go backwards", func(t *testing.T) {
		wall := time.Unix(1_700_000_100, 0)
		c := NewSystem()
		c.wall = func() time.Time { return wall }

		first := c.Now()
		wall = wall.Add(-time.Hour)

		assert.Equal(t, first, c.Now())

		wall = wall.Add(2 * time.Hour)
		assert.Greater(t, c.Now(), first)
	})

	t.Run("should ignore a wall clock before the epoch", func(t *testing.T) {
		c := NewSystem()
		c.wall = func() time.Time { return time.Unix(-5, 0) }

		assert.Equal(t, uint64(0), c.Now())
	})
}

func TestManual(t *testing.T) {
	t.Run("should advance", func(t *testing.T) {
		c := NewManual(10)
		assert.Equal(t, uint64(10), c.Now())
		assert.Equal(t, uint64(15), c.Advance(5))
		assert.Equal(t, uint64(15), c.Now())
	})

	t.Run("should not be set backwards", func(t *testing.T) {
		c := NewManual(10)
		c.Set(3)
		assert.Equal(t, uint64(10), c.Now())
		c.Set(20)
		assert.Equal(t, uint64(20), c.Now())
	})

	t.Run("should keep a fixed time", func(t *testing.T) {
		assert.Equal(t, uint64(7), Fixed(7).Now())
	})
}
