package testutil

import (
	"github.com/udisondev/fpsim/internal/weapon"
)

// Fixtures holds weapon definitions shared by tests, one per shoot mode.
var Fixtures = struct {
	Pistol   weapon.Definition
	Rifle    weapon.Definition
	Shotgun  weapon.Definition
	Launcher weapon.Definition
}{
	Pistol: weapon.DefaultDefinition("pistol"),
	Rifle: func() weapon.Definition {
		d := weapon.DefaultDefinition("rifle")
		d.Mode = weapon.ShootAutomatic
		d.DelayBetweenShots = 0.1
		d.SpreadAngle = 2
		d.RecoilForce = 0.3
		d.AimZoomRatio = 0.5
		d.MaxChargerAmmo = 30
		d.MaxAmmo = 90
		return d
	}(),
	Shotgun: func() weapon.Definition {
		d := weapon.DefaultDefinition("shotgun")
		d.DelayBetweenShots = 1
		d.SpreadAngle = 10
		d.BulletsPerShot = 8
		d.RecoilForce = 2
		d.MaxChargerAmmo = 2
		d.MaxAmmo = 20
		return d
	}(),
	Launcher: func() weapon.Definition {
		d := weapon.DefaultDefinition("launcher")
		d.Mode = weapon.ShootCharge
		d.Projectile = "plasma"
		d.MaxChargeDuration = 1
		d.AmmoUsedOnStartCharge = 1
		d.AmmoUsageRateWhileCharging = 2
		d.MaxChargerAmmo = 10
		d.MaxAmmo = 30
		return d
	}(),
}

// Definition returns a pointer to a copy of def so tests can mutate it freely.
func Definition(def weapon.Definition) *weapon.Definition {
	return &def
}
