// Package config loads the simulation configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/loadout"
	"github.com/udisondev/fpsim/internal/locomotion"
	"github.com/udisondev/fpsim/internal/weapon"
)

// ErrInvalidConfig is wrapped by every validation failure of Config.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for the simulation binary.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Simulation Simulation         `yaml:"simulation"`
	Locomotion locomotion.Config  `yaml:"locomotion"`
	Pose       loadout.PoseConfig `yaml:"pose"`
	Switching  Switching          `yaml:"switching"`
	Input      input.Settings     `yaml:"input"`

	// Arsenal lists every weapon definition characters can be given.
	Arsenal Arsenal `yaml:"arsenal"`
	// StartingWeapons are arsenal ids added to each character at spawn, in slot order.
	StartingWeapons []string `yaml:"starting_weapons"`
}

// Switching tunes the weapon switch sequence.
type Switching struct {
	Delay float64 `yaml:"delay"` // seconds per lower/raise phase
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:        "info",
		Simulation:      DefaultSimulation(),
		Locomotion:      locomotion.DefaultConfig(),
		Pose:            loadout.DefaultPoseConfig(),
		Switching:       Switching{Delay: 1},
		Input:           input.DefaultSettings(),
		Arsenal:         DefaultArsenal(),
		StartingWeapons: []string{"pistol", "rifle"},
	}
}

// Load loads config from a YAML file on top of Default.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first value the simulation cannot run with.
func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Locomotion.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := validatePose(c.Pose); err != nil {
		return err
	}
	if c.Switching.Delay < 0 {
		return fmt.Errorf("%w: negative switching delay", ErrInvalidConfig)
	}
	if c.Input.LookSensitivity < 0 {
		return fmt.Errorf("%w: negative look_sensitivity", ErrInvalidConfig)
	}
	if err := c.Arsenal.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.StartingWeapons) > loadout.SlotCount {
		return fmt.Errorf("%w: %d starting weapons, only %d slots", ErrInvalidConfig, len(c.StartingWeapons), loadout.SlotCount)
	}
	for _, id := range c.StartingWeapons {
		if _, ok := c.Arsenal.Lookup(id); !ok {
			return fmt.Errorf("%w: starting weapon %q not in arsenal", ErrInvalidConfig, id)
		}
	}
	return nil
}

// Loadout returns the loadout tuning.
func (c Config) Loadout() loadout.Config {
	return loadout.Config{SwitchDelay: c.Switching.Delay, Pose: c.Pose}
}

// StartingDefinitions resolves StartingWeapons against the arsenal.
// Every character gets its own copies.
func (c Config) StartingDefinitions() ([]*weapon.Definition, error) {
	defs := make([]*weapon.Definition, 0, len(c.StartingWeapons))
	for _, id := range c.StartingWeapons {
		def, ok := c.Arsenal.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: starting weapon %q not in arsenal", ErrInvalidConfig, id)
		}
		defs = append(defs, &def)
	}
	return defs, nil
}

func validatePose(p loadout.PoseConfig) error {
	switch {
	case p.DefaultFOV <= 0 || p.DefaultFOV >= 180:
		return fmt.Errorf("%w: default_fov %.1f out of (0, 180)", ErrInvalidConfig, p.DefaultFOV)
	case p.MaxRecoilDistance < 0:
		return fmt.Errorf("%w: negative max_recoil_distance", ErrInvalidConfig)
	case p.BobSharpness < 0 || p.RecoilSharpness < 0 || p.RecoilRestitutionSharpness < 0 || p.AimingAnimationSpeed < 0:
		return fmt.Errorf("%w: negative pose sharpness", ErrInvalidConfig)
	case p.DefaultBobAmount < 0 || p.AimingBobAmount < 0:
		return fmt.Errorf("%w: negative bob amount", ErrInvalidConfig)
	}
	return nil
}
