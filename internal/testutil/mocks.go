package testutil

import (
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/physics"
	"github.com/udisondev/fpsim/internal/weapon"
)

// FakePhysics wraps a StaticWorld and lets tests inject extra overlap results
// and count queries. Not safe for concurrent use.
type FakePhysics struct {
	World *physics.StaticWorld

	extraOverlaps []physics.ColliderID
	sweeps        int
	overlaps      int
}

// NewFakePhysics creates a fake answering queries from world.
// A nil world behaves as empty space.
func NewFakePhysics(world *physics.StaticWorld) *FakePhysics {
	if world == nil {
		world = physics.NewStaticWorld()
	}
	return &FakePhysics{World: world}
}

// ForceOverlap makes every overlap query report ids in addition to the world.
func (f *FakePhysics) ForceOverlap(ids ...physics.ColliderID) {
	f.extraOverlaps = append(f.extraOverlaps[:0], ids...)
}

// ClearOverlap removes injected overlap results.
func (f *FakePhysics) ClearOverlap() {
	f.extraOverlaps = f.extraOverlaps[:0]
}

// SweepCapsule implements physics.Collider.
func (f *FakePhysics) SweepCapsule(c physics.Capsule, dir mgl64.Vec3, maxDistance float64) (physics.Hit, bool) {
	f.sweeps++
	return f.World.SweepCapsule(c, dir, maxDistance)
}

// OverlapCapsule implements physics.Collider.
func (f *FakePhysics) OverlapCapsule(c physics.Capsule) []physics.ColliderID {
	f.overlaps++
	return append(f.World.OverlapCapsule(c), f.extraOverlaps...)
}

// SweepCalls returns the number of sweeps issued so far.
func (f *FakePhysics) SweepCalls() int { return f.sweeps }

// OverlapCalls returns the number of overlap queries issued so far.
func (f *FakePhysics) OverlapCalls() int { return f.overlaps }

// DamageRecord is one TakeDamage call.
type DamageRecord struct {
	Amount float64
	Source string
}

// RecordingHealth is an in-memory health collaborator.
type RecordingHealth struct {
	mu      sync.Mutex
	damage  []DamageRecord
	kills   int
	onDeath func()
}

// NewRecordingHealth creates a health collaborator that only records calls.
func NewRecordingHealth() *RecordingHealth {
	return &RecordingHealth{}
}

// OnDeath registers the function called on the first Kill.
func (h *RecordingHealth) OnDeath(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDeath = fn
}

// TakeDamage records the call.
func (h *RecordingHealth) TakeDamage(amount float64, source string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.damage = append(h.damage, DamageRecord{Amount: amount, Source: source})
}

// Kill records the call and notifies the death listener once.
func (h *RecordingHealth) Kill() {
	h.mu.Lock()
	h.kills++
	first := h.kills == 1
	fn := h.onDeath
	h.mu.Unlock()

	if first && fn != nil {
		fn()
	}
}

// Damage returns a copy of the recorded damage calls.
func (h *RecordingHealth) Damage() []DamageRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.damage)
}

// Kills returns how many times Kill was called.
func (h *RecordingHealth) Kills() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kills
}

// RecordingSpawner collects every projectile handed to it.
type RecordingSpawner struct {
	mu          sync.Mutex
	projectiles []weapon.Projectile
}

// Spawn implements weapon.Spawner.
func (s *RecordingSpawner) Spawn(p weapon.Projectile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectiles = append(s.projectiles, p)
}

// Projectiles returns a copy of everything spawned so far.
func (s *RecordingSpawner) Projectiles() []weapon.Projectile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projectiles)
}
