package character

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDamageClampsAtZero(t *testing.T) {
	p := NewPool(50)
	deaths := 0
	p.OnDeath(func() { deaths++ })

	p.TakeDamage(20, "fall")
	assert.Equal(t, 30.0, p.Current())
	assert.InDelta(t, 0.6, p.Ratio(), 1e-12)
	assert.False(t, p.IsDead())

	p.TakeDamage(-5, "heal")
	p.TakeDamage(0, "nothing")
	assert.Equal(t, 30.0, p.Current(), "non-positive damage ignored")
	assert.Equal(t, "fall", p.LastDamageSource())

	p.TakeDamage(100, "fall")
	assert.Equal(t, 0.0, p.Current())
	assert.True(t, p.IsDead())
	assert.Equal(t, 1, deaths)
}

func TestPoolKillNotifiesOnce(t *testing.T) {
	p := NewPool(10)
	deaths := 0
	p.OnDeath(func() { deaths++ })

	p.Kill()
	p.Kill()
	p.TakeDamage(5, "fall")
	assert.Equal(t, 1, deaths)
	assert.True(t, p.IsDead())
}

func TestPoolConcurrentDamage(t *testing.T) {
	p := NewPool(100)
	var mu sync.Mutex
	deaths := 0
	p.OnDeath(func() {
		mu.Lock()
		deaths++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.TakeDamage(5, "test")
		}()
	}
	wg.Wait()

	require.True(t, p.IsDead())
	assert.Equal(t, 1, deaths, "first caller wins")
}

func TestNewPoolMinimum(t *testing.T) {
	p := NewPool(0)
	assert.Equal(t, 1.0, p.Max())
	assert.Equal(t, 1.0, p.Current())
}
