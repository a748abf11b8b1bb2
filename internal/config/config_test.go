package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/locomotion"
	"github.com/udisondev/fpsim/internal/physics"
	"github.com/udisondev/fpsim/internal/weapon"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fpsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/60, cfg.Simulation.TickInterval())

	defs, err := cfg.StartingDefinitions()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "pistol", defs[0].ID)
	assert.Equal(t, weapon.ShootAutomatic, defs[1].Mode)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
simulation:
  tick_rate: 30
  characters: 2
  duration: 5s
  scripts: [a.yaml, b.yaml]
locomotion:
  gravity: 9.81
pose:
  default_position: [0.2, -0.25, 0.45]
switching:
  delay: 0.25
input:
  invert_y: true
arsenal:
  - id: pistol
  - id: railgun
    mode: charge
    max_charge_duration: 1.5
starting_weapons: [railgun]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.Simulation.TickRate)
	assert.Equal(t, 2, cfg.Simulation.Characters)
	assert.Equal(t, 5*time.Second, cfg.Simulation.Duration)
	assert.Equal(t, 100.0, cfg.Simulation.MaxHealth, "untouched keys keep defaults")
	assert.Equal(t, "b.yaml", cfg.Simulation.Script(3))

	assert.Equal(t, 9.81, cfg.Locomotion.Gravity)
	assert.Equal(t, locomotion.DefaultConfig().JumpForce, cfg.Locomotion.JumpForce)
	assert.Equal(t, 0.45, cfg.Pose.DefaultPosition.Z())
	assert.Equal(t, 0.25, cfg.Loadout().SwitchDelay)
	assert.True(t, cfg.Input.InvertY)
	assert.Equal(t, 1.0, cfg.Input.LookSensitivity)

	require.Len(t, cfg.Arsenal, 2)
	rail, ok := cfg.Arsenal.Lookup("railgun")
	require.True(t, ok)
	assert.Equal(t, weapon.ShootCharge, rail.Mode)
	assert.Equal(t, 1.5, rail.MaxChargeDuration)
	assert.Equal(t, 8.0, rail.MaxChargerAmmo, "arsenal entries start from the stock definition")
	assert.Equal(t, "railgun", rail.Name)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero tick rate", "simulation: {tick_rate: 0}"},
		{"no characters", "simulation: {characters: 0}"},
		{"no workers", "simulation: {workers: 0}"},
		{"negative duration", "simulation: {duration: -1s}"},
		{"bad locomotion", "locomotion: {slope_limit: 95}"},
		{"bad fov", "pose: {default_fov: 0}"},
		{"negative switch delay", "switching: {delay: -1}"},
		{"bad weapon", "arsenal: [{id: broken, bullets_per_shot: 0}]"},
		{"duplicate weapon", "arsenal: [{id: a}, {id: a}]\nstarting_weapons: []"},
		{"unknown starting weapon", "starting_weapons: [bfg]"},
		{"too many starting weapons", "starting_weapons: [pistol, pistol, pistol, pistol, pistol, pistol, pistol, pistol, pistol, pistol]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "simulation: [oops"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLocomotionErrorsKeepTheirSentinel(t *testing.T) {
	cfg := Default()
	cfg.Locomotion.CapsuleRadius = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, locomotion.ErrInvalidConfig)
}

func TestStartingDefinitionsAreCopies(t *testing.T) {
	cfg := Default()
	a, err := cfg.StartingDefinitions()
	require.NoError(t, err)
	b, err := cfg.StartingDefinitions()
	require.NoError(t, err)

	a[0].MaxAmmo = 1
	assert.NotEqual(t, a[0].MaxAmmo, b[0].MaxAmmo)
	pistol, _ := cfg.Arsenal.Lookup("pistol")
	assert.Equal(t, 68.0, pistol.MaxAmmo)
}

func TestWorkerCountCappedByCharacters(t *testing.T) {
	s := DefaultSimulation()
	s.Workers = 8
	s.Characters = 3
	assert.Equal(t, 3, s.WorkerCount())
}

func TestScriptWithoutScripts(t *testing.T) {
	assert.Equal(t, "", DefaultSimulation().Script(5))
}

func TestShippedConfigLoads(t *testing.T) {
	root := filepath.Join("..", "..")
	cfg, err := Load(filepath.Join(root, "config", "fpsim.yaml"))
	require.NoError(t, err)

	defs, err := cfg.StartingDefinitions()
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, weapon.ShootCharge, defs[2].Mode)

	world, err := physics.LoadLevel(filepath.Join(root, cfg.Simulation.Level))
	require.NoError(t, err)
	assert.Equal(t, 4, world.ColliderCount())

	for _, path := range cfg.Simulation.Scripts {
		script, err := input.LoadScript(filepath.Join(root, path))
		require.NoError(t, err, path)
		assert.True(t, script.Loop)
		assert.Positive(t, script.Length())
	}
}
