package loadout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/vecmath"
	"github.com/udisondev/fpsim/internal/weapon"
)

// PoseConfig positions are in camera-local space (x right, y up, z forward).
type PoseConfig struct {
	DefaultPosition mgl64.Vec3 `yaml:"default_position"`
	AimingPosition  mgl64.Vec3 `yaml:"aiming_position"`
	DownPosition    mgl64.Vec3 `yaml:"down_position"`

	BobFrequency     float64 `yaml:"bob_frequency"`
	BobSharpness     float64 `yaml:"bob_sharpness"`
	DefaultBobAmount float64 `yaml:"default_bob_amount"`
	AimingBobAmount  float64 `yaml:"aiming_bob_amount"`

	RecoilSharpness            float64 `yaml:"recoil_sharpness"`
	MaxRecoilDistance          float64 `yaml:"max_recoil_distance"`
	RecoilRestitutionSharpness float64 `yaml:"recoil_restitution_sharpness"`

	AimingAnimationSpeed float64 `yaml:"aiming_animation_speed"`
	DefaultFOV           float64 `yaml:"default_fov"`
	WeaponFOVMultiplier  float64 `yaml:"weapon_fov_multiplier"`
}

// DefaultPoseConfig returns the stock weapon pose tuning.
func DefaultPoseConfig() PoseConfig {
	return PoseConfig{
		DefaultPosition: mgl64.Vec3{0.3, -0.3, 0.5},
		AimingPosition:  mgl64.Vec3{0, -0.2, 0.4},
		DownPosition:    mgl64.Vec3{0.3, -1, 0.5},

		BobFrequency:     10,
		BobSharpness:     10,
		DefaultBobAmount: 0.05,
		AimingBobAmount:  0.02,

		RecoilSharpness:            50,
		MaxRecoilDistance:          0.5,
		RecoilRestitutionSharpness: 10,

		AimingAnimationSpeed: 10,
		DefaultFOV:           60,
		WeaponFOVMultiplier:  1,
	}
}

// Pose is the weapon placement for one tick.
type Pose struct {
	Main   mgl64.Vec3
	Bob    mgl64.Vec3
	Recoil mgl64.Vec3
	Socket mgl64.Vec3 // Main + Bob + Recoil

	FOV       float64
	WeaponFOV float64
}

// Body is what the pose blender reads from the character each tick.
type Body struct {
	Position mgl64.Vec3
	Grounded bool
	// MaxSpeed is the speed at which bob reaches full amplitude.
	MaxSpeed float64
}

// PoseBlender composes the aim, bob and recoil offsets of the held weapon.
type PoseBlender struct {
	cfg PoseConfig

	main        mgl64.Vec3
	bob         mgl64.Vec3
	recoil      mgl64.Vec3
	accumulated mgl64.Vec3
	bobFactor   float64
	fov         float64

	lastPosition mgl64.Vec3
	tracked      bool
}

// NewPoseBlender starts with the weapon lowered and the default FOV.
func NewPoseBlender(cfg PoseConfig) *PoseBlender {
	return &PoseBlender{cfg: cfg, main: cfg.DownPosition, fov: cfg.DefaultFOV}
}

// AddRecoil kicks the weapon back by force, capped at the max recoil distance.
func (p *PoseBlender) AddRecoil(force float64) {
	p.accumulated = p.accumulated.Add(vecmath.Back.Mul(force))
	p.accumulated = vecmath.ClampMagnitude(p.accumulated, p.cfg.MaxRecoilDistance)
}

// UpdateAim moves the weapon toward the aiming or default pose and blends the
// FOV. Only runs while the weapon is up.
func (p *PoseBlender) UpdateAim(dt float64, aiming bool, w *weapon.Instance) {
	t := p.cfg.AimingAnimationSpeed * dt
	if aiming && w != nil {
		def := w.Definition()
		p.main = vecmath.LerpVec3(p.main, p.cfg.AimingPosition.Add(def.AimOffset), t)
		p.fov = vecmath.Lerp(p.fov, def.AimZoomRatio*p.cfg.DefaultFOV, t)
		return
	}
	p.main = vecmath.LerpVec3(p.main, p.cfg.DefaultPosition, t)
	p.fov = vecmath.Lerp(p.fov, p.cfg.DefaultFOV, t)
}

// UpdateBob sways the weapon in proportion to grounded horizontal speed.
func (p *PoseBlender) UpdateBob(now, dt float64, aiming bool, body Body) {
	if dt <= 0 {
		return
	}
	if !p.tracked {
		p.lastPosition = body.Position
		p.tracked = true
	}

	movement := 0.0
	if body.Grounded && body.MaxSpeed > 0 {
		speed := vecmath.Horizontal(body.Position.Sub(p.lastPosition)).Len() / dt
		movement = vecmath.Clamp01(speed / body.MaxSpeed)
	}
	p.bobFactor = vecmath.Lerp(p.bobFactor, movement, p.cfg.BobSharpness*dt)

	amount := p.cfg.DefaultBobAmount
	if aiming {
		amount = p.cfg.AimingBobAmount
	}
	phase := now * p.cfg.BobFrequency
	horizontal := math.Sin(phase) * amount * p.bobFactor
	vertical := (math.Sin(phase*2)*0.5 + 0.5) * amount * p.bobFactor

	p.bob = mgl64.Vec3{horizontal, math.Abs(vertical), 0}
	p.lastPosition = body.Position
}

// UpdateRecoil approaches the accumulated kick quickly, then settles back to rest.
func (p *PoseBlender) UpdateRecoil(dt float64) {
	if p.recoil.Z() >= p.accumulated.Z()*0.99 {
		p.recoil = vecmath.LerpVec3(p.recoil, p.accumulated, p.cfg.RecoilSharpness*dt)
		return
	}
	p.recoil = vecmath.LerpVec3(p.recoil, mgl64.Vec3{}, p.cfg.RecoilRestitutionSharpness*dt)
	p.accumulated = p.recoil
}

// ApplySwitch overrides the main position during the switch phases.
func (p *PoseBlender) ApplySwitch(state SwitchState, factor float64) {
	switch state {
	case StatePuttingDownPrevious:
		p.main = vecmath.LerpVec3(p.cfg.DefaultPosition, p.cfg.DownPosition, factor)
	case StatePuttingUpNew:
		p.main = vecmath.LerpVec3(p.cfg.DownPosition, p.cfg.DefaultPosition, factor)
	}
}

// Pose returns the current composition.
func (p *PoseBlender) Pose() Pose {
	return Pose{
		Main:      p.main,
		Bob:       p.bob,
		Recoil:    p.recoil,
		Socket:    p.main.Add(p.bob).Add(p.recoil),
		FOV:       p.fov,
		WeaponFOV: p.fov * p.cfg.WeaponFOVMultiplier,
	}
}

// Accumulated returns the recoil target offset.
func (p *PoseBlender) Accumulated() mgl64.Vec3 { return p.accumulated }
