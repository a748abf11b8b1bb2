package weapon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ShootMode selects how trigger input turns into shots.
type ShootMode uint8

const (
	// ShootManual fires once per trigger press.
	ShootManual ShootMode = iota
	// ShootAutomatic fires every tick the trigger is held.
	ShootAutomatic
	// ShootCharge builds charge while held and fires on release.
	ShootCharge
)

// String returns the YAML name of the mode.
func (m ShootMode) String() string {
	switch m {
	case ShootManual:
		return "manual"
	case ShootAutomatic:
		return "automatic"
	case ShootCharge:
		return "charge"
	default:
		return fmt.Sprintf("ShootMode(%d)", m)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ShootMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ShootMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "manual":
		*m = ShootManual
	case "automatic", "auto":
		*m = ShootAutomatic
	case "charge":
		*m = ShootCharge
	default:
		return fmt.Errorf("unknown shoot mode %q", text)
	}
	return nil
}

// ErrInvalidDefinition is wrapped by every Definition validation failure.
var ErrInvalidDefinition = errors.New("invalid weapon definition")

// Definition is the prototype every weapon instance is created from.
// Two instances built from definitions with the same ID are the same weapon
// for inventory purposes.
type Definition struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Mode       ShootMode `yaml:"mode"`
	Projectile string    `yaml:"projectile"`

	DelayBetweenShots float64    `yaml:"delay_between_shots"` // seconds
	SpreadAngle       float64    `yaml:"spread_angle"`        // cone half-angle, degrees
	BulletsPerShot    int        `yaml:"bullets_per_shot"`
	RecoilForce       float64    `yaml:"recoil_force"`   // 0..2
	AimZoomRatio      float64    `yaml:"aim_zoom_ratio"` // 0..1, multiplies default FOV while aiming
	AimOffset         mgl64.Vec3 `yaml:"aim_offset"`

	MaxChargerAmmo float64 `yaml:"max_charger_ammo"`
	MaxAmmo        float64 `yaml:"max_ammo"` // initial reserve

	// Charge mode only.
	MaxChargeDuration          float64 `yaml:"max_charge_duration"` // seconds to reach full charge
	AmmoUsedOnStartCharge      float64 `yaml:"ammo_used_on_start_charge"`
	AmmoUsageRateWhileCharging float64 `yaml:"ammo_usage_rate_while_charging"`
}

// DefaultDefinition returns a manual sidearm with the stock tuning values.
func DefaultDefinition(id string) Definition {
	return Definition{
		ID:                         id,
		Name:                       id,
		Mode:                       ShootManual,
		Projectile:                 "bullet",
		DelayBetweenShots:          0.5,
		SpreadAngle:                1,
		BulletsPerShot:             1,
		RecoilForce:                1,
		AimZoomRatio:               1,
		MaxChargerAmmo:             8,
		MaxAmmo:                    68,
		MaxChargeDuration:          2,
		AmmoUsedOnStartCharge:      1,
		AmmoUsageRateWhileCharging: 1,
	}
}

// Validate checks the definition for values the firing model cannot honor.
func (d *Definition) Validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	case d.Mode > ShootCharge:
		return fmt.Errorf("%w: %s: unknown mode %d", ErrInvalidDefinition, d.ID, d.Mode)
	case d.DelayBetweenShots < 0:
		return fmt.Errorf("%w: %s: negative delay_between_shots", ErrInvalidDefinition, d.ID)
	case d.SpreadAngle < 0 || d.SpreadAngle > 180:
		return fmt.Errorf("%w: %s: spread_angle %.2f out of [0, 180]", ErrInvalidDefinition, d.ID, d.SpreadAngle)
	case d.BulletsPerShot < 1:
		return fmt.Errorf("%w: %s: bullets_per_shot must be >= 1", ErrInvalidDefinition, d.ID)
	case d.RecoilForce < 0 || d.RecoilForce > 2:
		return fmt.Errorf("%w: %s: recoil_force %.2f out of [0, 2]", ErrInvalidDefinition, d.ID, d.RecoilForce)
	case d.AimZoomRatio < 0 || d.AimZoomRatio > 1:
		return fmt.Errorf("%w: %s: aim_zoom_ratio %.2f out of [0, 1]", ErrInvalidDefinition, d.ID, d.AimZoomRatio)
	case d.MaxChargerAmmo <= 0:
		return fmt.Errorf("%w: %s: max_charger_ammo must be > 0", ErrInvalidDefinition, d.ID)
	case d.MaxAmmo < 0:
		return fmt.Errorf("%w: %s: negative max_ammo", ErrInvalidDefinition, d.ID)
	case d.MaxChargeDuration < 0 || d.AmmoUsedOnStartCharge < 0 || d.AmmoUsageRateWhileCharging < 0:
		return fmt.Errorf("%w: %s: negative charge parameter", ErrInvalidDefinition, d.ID)
	}
	return nil
}
