package config

import (
	"fmt"
	"time"
)

// Simulation holds the parameters of a headless run.
type Simulation struct {
	TickRate   int           `yaml:"tick_rate"`  // ticks per second
	Characters int           `yaml:"characters"` // concurrent characters
	Workers    int           `yaml:"workers"`    // tick loops characters are spread over
	Duration   time.Duration `yaml:"duration"`   // 0 runs until interrupted
	Seed       uint64        `yaml:"seed"`

	MaxHealth float64 `yaml:"max_health"`
	Spacing   float64 `yaml:"spacing"` // distance between spawn points along X
	SpawnY    float64 `yaml:"spawn_y"`

	// Level is a YAML level file; empty means a flat floor at y = 0.
	Level string `yaml:"level"`
	// Scripts are input scripts assigned round-robin; empty means idle characters.
	Scripts []string `yaml:"scripts"`
}

// DefaultSimulation returns 4 characters at 60 ticks per second for 30 seconds.
func DefaultSimulation() Simulation {
	return Simulation{
		TickRate:   60,
		Characters: 4,
		Workers:    2,
		Duration:   30 * time.Second,
		Seed:       1,
		MaxHealth:  100,
		Spacing:    3,
	}
}

// TickInterval returns the wall-clock period of one tick.
func (s Simulation) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Validate checks the run parameters.
func (s Simulation) Validate() error {
	switch {
	case s.TickRate <= 0 || s.TickRate > 1000:
		return fmt.Errorf("%w: tick_rate %d out of [1, 1000]", ErrInvalidConfig, s.TickRate)
	case s.Characters < 1:
		return fmt.Errorf("%w: characters must be >= 1", ErrInvalidConfig)
	case s.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalidConfig)
	case s.Duration < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	case s.MaxHealth <= 0:
		return fmt.Errorf("%w: max_health must be > 0", ErrInvalidConfig)
	}
	return nil
}

// WorkerCount returns how many tick loops to run: never more than characters.
func (s Simulation) WorkerCount() int {
	return min(s.Workers, s.Characters)
}

// Script returns the script path for character i, or "" when none is set.
func (s Simulation) Script(i int) string {
	if len(s.Scripts) == 0 {
		return ""
	}
	return s.Scripts[i%len(s.Scripts)]
}
