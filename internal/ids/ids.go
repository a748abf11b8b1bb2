package ids

import "sync/atomic"

// Generator hands out unique IDs for simulation objects.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid/unset)
//	0x10000000 - 0x1FFFFFFF: Characters
//	0x20000000 - 0x2FFFFFFF: Weapon instances
//	0x30000000 - 0x3FFFFFFF: Projectiles
//
// Character IDs share the ColliderID space with level geometry in physics
// queries, which is why they start far above the level range.
type Generator struct {
	nextCharacterID  atomic.Uint32
	nextWeaponID     atomic.Uint32
	nextProjectileID atomic.Uint32
}

// NewGenerator creates a new ID generator.
func NewGenerator() *Generator {
	g := &Generator{}
	g.nextCharacterID.Store(0x10000000)
	g.nextWeaponID.Store(0x20000000)
	g.nextProjectileID.Store(0x30000000)
	return g
}

// NextCharacterID generates the next character ID.
// Thread-safe via atomic increment.
func (g *Generator) NextCharacterID() uint32 {
	return g.nextCharacterID.Add(1)
}

// NextWeaponID generates the next weapon instance ID.
// Thread-safe via atomic increment.
func (g *Generator) NextWeaponID() uint32 {
	return g.nextWeaponID.Add(1)
}

// NextProjectileID generates the next projectile ID.
// Thread-safe via atomic increment.
func (g *Generator) NextProjectileID() uint32 {
	return g.nextProjectileID.Add(1)
}

var global = NewGenerator()

// Global returns the process-wide generator.
func Global() *Generator {
	return global
}
