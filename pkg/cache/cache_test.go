package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	now := time.Now()
	c := NewMemory[int]()
	c.now = func() time.Time { return now }

	t.Run("miss on empty", func(t *testing.T) {
		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("hit before expiry", func(t *testing.T) {
		c.Put("a", 42, time.Minute)
		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("miss after expiry", func(t *testing.T) {
		c.Put("b", 7, time.Minute)
		now = now.Add(2 * time.Minute)
		_, ok := c.Get("b")
		assert.False(t, ok)
	})

	t.Run("overwrite refreshes value and ttl", func(t *testing.T) {
		c.Put("c", 1, time.Minute)
		c.Put("c", 2, time.Hour)
		now = now.Add(30 * time.Minute)
		v, ok := c.Get("c")
		assert.True(t, ok)
		assert.Equal(t, 2, v)
	})
}

func TestEstimateKey(t *testing.T) {
	d := InputsDigest(struct{ SquareFeet int }{1500})

	// coordinates round to 2 decimals so geocoder jitter shares an entry
	k1 := EstimateKey(44.9783, -93.2610, 2025, time.January, "typical", d)
	k2 := EstimateKey(44.9777, -93.2640, 2025, time.January, "typical", d)
	assert.Equal(t, k1, k2)

	// different month, strategy, or inputs digest is a different entry
	assert.NotEqual(t, k1, EstimateKey(44.9783, -93.2610, 2025, time.February, "typical", d))
	assert.NotEqual(t, k1, EstimateKey(44.9783, -93.2610, 2025, time.January, "current", d))
	d2 := InputsDigest(struct{ SquareFeet int }{3000})
	assert.NotEqual(t, k1, EstimateKey(44.9783, -93.2610, 2025, time.January, "typical", d2))
}

func TestInputsDigest(t *testing.T) {
	type inputs struct {
		SquareFeet float64
		Insulation float64
	}

	// equal inputs digest equally, any field change digests differently
	assert.Equal(t, InputsDigest(inputs{1500, 1.0}), InputsDigest(inputs{1500, 1.0}))
	assert.NotEqual(t, InputsDigest(inputs{1500, 1.0}), InputsDigest(inputs{3000, 1.0}))
	assert.NotEqual(t, InputsDigest(inputs{1500, 1.0}), InputsDigest(inputs{1500, 1.2}))
}
