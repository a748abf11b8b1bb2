package character

import (
	"sync"

	"github.com/udisondev/fpsim/internal/locomotion"
)

// Health is the damage collaborator a Character reports death through.
type Health interface {
	locomotion.Health
	// OnDeath registers the function called once when the owner dies.
	OnDeath(fn func())
}

// Pool is a hit point pool that dies when it reaches zero.
// Thread-safe; the death notification runs outside the lock.
type Pool struct {
	mu      sync.RWMutex
	current float64
	max     float64
	lastSrc string

	deathOnce sync.Once
	onDeath   func()
}

var _ Health = (*Pool)(nil)

// NewPool creates a full pool. maxHP below 1 is raised to 1.
func NewPool(maxHP float64) *Pool {
	maxHP = max(maxHP, 1)
	return &Pool{current: maxHP, max: maxHP}
}

// Current returns the remaining hit points.
func (p *Pool) Current() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Max returns the pool size.
func (p *Pool) Max() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.max
}

// Ratio returns current/max in [0, 1].
func (p *Pool) Ratio() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current / p.max
}

// IsDead reports whether the pool is empty.
func (p *Pool) IsDead() bool {
	return p.Current() <= 0
}

// LastDamageSource returns the source of the most recent damage.
func (p *Pool) LastDamageSource() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSrc
}

// OnDeath registers the death listener.
func (p *Pool) OnDeath(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDeath = fn
}

// TakeDamage reduces the pool (minimum 0) and dies when it empties.
// Non-positive amounts are ignored.
func (p *Pool) TakeDamage(amount float64, source string) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	p.current = max(p.current-amount, 0)
	p.lastSrc = source
	empty := p.current <= 0
	p.mu.Unlock()

	if empty {
		p.die()
	}
}

// Kill empties the pool.
func (p *Pool) Kill() {
	p.mu.Lock()
	p.current = 0
	p.mu.Unlock()
	p.die()
}

// die notifies the listener. First caller wins.
func (p *Pool) die() {
	p.deathOnce.Do(func() {
		p.mu.RLock()
		fn := p.onDeath
		p.mu.RUnlock()
		if fn != nil {
			fn()
		}
	})
}
