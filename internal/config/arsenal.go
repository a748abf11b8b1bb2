package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/fpsim/internal/weapon"
)

// Arsenal is the list of known weapon definitions.
// Entries decoded from YAML start from weapon.DefaultDefinition, so a file
// only lists the fields it changes.
type Arsenal []weapon.Definition

// UnmarshalYAML decodes each entry over the stock definition.
func (a *Arsenal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("arsenal: line %d: expected a sequence", value.Line)
	}
	out := make(Arsenal, 0, len(value.Content))
	for _, item := range value.Content {
		def := weapon.DefaultDefinition("")
		if err := item.Decode(&def); err != nil {
			return fmt.Errorf("arsenal: line %d: %w", item.Line, err)
		}
		if def.Name == "" {
			def.Name = def.ID
		}
		out = append(out, def)
	}
	*a = out
	return nil
}

// Lookup returns a copy of the definition with the given id.
func (a Arsenal) Lookup(id string) (weapon.Definition, bool) {
	for _, def := range a {
		if def.ID == id {
			return def, true
		}
	}
	return weapon.Definition{}, false
}

// Validate checks every definition and rejects duplicate ids.
func (a Arsenal) Validate() error {
	seen := make(map[string]struct{}, len(a))
	for i := range a {
		if err := a[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[a[i].ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", weapon.ErrInvalidDefinition, a[i].ID)
		}
		seen[a[i].ID] = struct{}{}
	}
	return nil
}

// DefaultArsenal returns one weapon per shoot mode plus a shotgun.
func DefaultArsenal() Arsenal {
	pistol := weapon.DefaultDefinition("pistol")
	pistol.Name = "Pistol"

	rifle := weapon.DefaultDefinition("rifle")
	rifle.Name = "Assault Rifle"
	rifle.Mode = weapon.ShootAutomatic
	rifle.DelayBetweenShots = 0.1
	rifle.SpreadAngle = 2
	rifle.RecoilForce = 0.3
	rifle.AimZoomRatio = 0.5
	rifle.MaxChargerAmmo = 30
	rifle.MaxAmmo = 120

	shotgun := weapon.DefaultDefinition("shotgun")
	shotgun.Name = "Shotgun"
	shotgun.DelayBetweenShots = 1
	shotgun.SpreadAngle = 10
	shotgun.BulletsPerShot = 8
	shotgun.RecoilForce = 2
	shotgun.MaxChargerAmmo = 2
	shotgun.MaxAmmo = 24

	launcher := weapon.DefaultDefinition("launcher")
	launcher.Name = "Plasma Launcher"
	launcher.Mode = weapon.ShootCharge
	launcher.Projectile = "plasma"
	launcher.DelayBetweenShots = 0.8
	launcher.MaxChargeDuration = 1
	launcher.AmmoUsedOnStartCharge = 1
	launcher.AmmoUsageRateWhileCharging = 2
	launcher.MaxChargerAmmo = 10
	launcher.MaxAmmo = 30

	return Arsenal{pistol, rifle, shotgun, launcher}
}
