package locomotion

import (
	"errors"
	"fmt"

	"github.com/udisondev/fpsim/internal/vecmath"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid locomotion config")

// Config holds the tuning of one character's movement.
// Distances are metres, speeds metres per second, angles degrees.
type Config struct {
	Gravity                     float64 `yaml:"gravity"`
	GroundCheckDistance         float64 `yaml:"ground_check_distance"`
	GroundCheckDistanceInAir    float64 `yaml:"ground_check_distance_in_air"`
	JumpGroundingPreventionTime float64 `yaml:"jump_grounding_prevention_time"`
	SkinWidth                   float64 `yaml:"skin_width"`
	SlopeLimit                  float64 `yaml:"slope_limit"`
	CapsuleRadius               float64 `yaml:"capsule_radius"`
	MaxSlideIterations          int     `yaml:"max_slide_iterations"`

	MaxSpeedOnGround          float64 `yaml:"max_speed_on_ground"`
	MovementSharpnessOnGround float64 `yaml:"movement_sharpness_on_ground"`
	MaxSpeedCrouchedRatio     float64 `yaml:"max_speed_crouched_ratio"`
	MaxSpeedInAir             float64 `yaml:"max_speed_in_air"`
	AccelerationSpeedInAir    float64 `yaml:"acceleration_speed_in_air"`
	SprintSpeedModifier       float64 `yaml:"sprint_speed_modifier"`
	KillHeight                float64 `yaml:"kill_height"`

	RotationSpeed            float64 `yaml:"rotation_speed"`
	AimingRotationMultiplier float64 `yaml:"aiming_rotation_multiplier"`
	MaxPitch                 float64 `yaml:"max_pitch"`

	JumpForce float64 `yaml:"jump_force"`

	CameraHeightRatio      float64 `yaml:"camera_height_ratio"`
	CapsuleHeightStanding  float64 `yaml:"capsule_height_standing"`
	CapsuleHeightCrouching float64 `yaml:"capsule_height_crouching"`
	CrouchingSharpness     float64 `yaml:"crouching_sharpness"`

	FootstepFrequency               float64 `yaml:"footstep_frequency"`
	FootstepFrequencyWhileSprinting float64 `yaml:"footstep_frequency_while_sprinting"`

	ReceivesFallDamage    bool    `yaml:"receives_fall_damage"`
	MinSpeedForFallDamage float64 `yaml:"min_speed_for_fall_damage"`
	MaxSpeedForFallDamage float64 `yaml:"max_speed_for_fall_damage"`
	FallDamageAtMinSpeed  float64 `yaml:"fall_damage_at_min_speed"`
	FallDamageAtMaxSpeed  float64 `yaml:"fall_damage_at_max_speed"`
}

// DefaultConfig returns the stock movement tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:                     20,
		GroundCheckDistance:         0.05,
		GroundCheckDistanceInAir:    0.07,
		JumpGroundingPreventionTime: 0.2,
		SkinWidth:                   0.02,
		SlopeLimit:                  45,
		CapsuleRadius:               0.4,
		MaxSlideIterations:          3,

		MaxSpeedOnGround:          10,
		MovementSharpnessOnGround: 15,
		MaxSpeedCrouchedRatio:     0.5,
		MaxSpeedInAir:             10,
		AccelerationSpeedInAir:    25,
		SprintSpeedModifier:       2,
		KillHeight:                -50,

		RotationSpeed:            200,
		AimingRotationMultiplier: 0.4,
		MaxPitch:                 89,

		JumpForce: 9,

		CameraHeightRatio:      0.9,
		CapsuleHeightStanding:  1.8,
		CapsuleHeightCrouching: 0.9,
		CrouchingSharpness:     10,

		FootstepFrequency:               1,
		FootstepFrequencyWhileSprinting: 1,

		ReceivesFallDamage:    true,
		MinSpeedForFallDamage: 10,
		MaxSpeedForFallDamage: 30,
		FallDamageAtMinSpeed:  10,
		FallDamageAtMaxSpeed:  50,
	}
}

// Validate rejects tuning the controller cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Gravity < 0:
		return fmt.Errorf("%w: negative gravity", ErrInvalidConfig)
	case c.SkinWidth < 0:
		return fmt.Errorf("%w: negative skin_width", ErrInvalidConfig)
	case c.GroundCheckDistanceInAir < c.SkinWidth:
		return fmt.Errorf("%w: ground_check_distance_in_air %.3f must cover skin_width %.3f",
			ErrInvalidConfig, c.GroundCheckDistanceInAir, c.SkinWidth)
	case c.SlopeLimit <= 0 || c.SlopeLimit >= 90:
		return fmt.Errorf("%w: slope_limit %.1f out of (0, 90)", ErrInvalidConfig, c.SlopeLimit)
	case c.CapsuleRadius <= 0:
		return fmt.Errorf("%w: capsule_radius must be > 0", ErrInvalidConfig)
	case c.CapsuleHeightCrouching < 2*c.CapsuleRadius:
		return fmt.Errorf("%w: capsule_height_crouching %.2f below capsule diameter", ErrInvalidConfig, c.CapsuleHeightCrouching)
	case c.CapsuleHeightStanding < c.CapsuleHeightCrouching:
		return fmt.Errorf("%w: standing height below crouching height", ErrInvalidConfig)
	case c.MaxSlideIterations < 1:
		return fmt.Errorf("%w: max_slide_iterations must be >= 1", ErrInvalidConfig)
	case c.MaxPitch <= 0 || c.MaxPitch > 90:
		return fmt.Errorf("%w: max_pitch %.1f out of (0, 90]", ErrInvalidConfig, c.MaxPitch)
	case c.FootstepFrequency <= 0 || c.FootstepFrequencyWhileSprinting <= 0:
		return fmt.Errorf("%w: footstep frequencies must be > 0", ErrInvalidConfig)
	case c.MaxSpeedForFallDamage <= c.MinSpeedForFallDamage:
		return fmt.Errorf("%w: max_speed_for_fall_damage must exceed min_speed_for_fall_damage", ErrInvalidConfig)
	}
	return nil
}

// FallDamage returns the damage for landing at fallSpeed.
// The bool is false when the landing deals no damage: fall damage disabled or
// fallSpeed not above the minimum.
func (c Config) FallDamage(fallSpeed float64) (float64, bool) {
	if !c.ReceivesFallDamage {
		return 0, false
	}
	ratio := (fallSpeed - c.MinSpeedForFallDamage) / (c.MaxSpeedForFallDamage - c.MinSpeedForFallDamage)
	if ratio <= 0 {
		return 0, false
	}
	return vecmath.Lerp(c.FallDamageAtMinSpeed, c.FallDamageAtMaxSpeed, ratio), true
}
