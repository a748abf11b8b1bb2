package input

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// defaultStepDuration is used for steps that omit duration, long enough for
// one press at the usual tick rates.
const defaultStepDuration = 0.1

// Step holds a set of controls for [At, At+Duration).
type Step struct {
	At       float64    `yaml:"at"`
	Duration float64    `yaml:"duration"`
	Move     mgl64.Vec2 `yaml:"move"`
	Look     mgl64.Vec2 `yaml:"look"`
	Jump     bool       `yaml:"jump"`
	Crouch   bool       `yaml:"crouch"`
	Sprint   bool       `yaml:"sprint"`
	Fire     bool       `yaml:"fire"`
	Aim      bool       `yaml:"aim"`
	Reload   bool       `yaml:"reload"`
	Select   int        `yaml:"select"`
	Scroll   int        `yaml:"scroll"`
}

func (s Step) end() float64 {
	d := s.Duration
	if d <= 0 {
		d = defaultStepDuration
	}
	return s.At + d
}

// Script is an authored input timeline used to drive headless characters.
type Script struct {
	Name  string `yaml:"name"`
	Loop  bool   `yaml:"loop"`
	Steps []Step `yaml:"steps"`
}

// Length returns the time at which the last step ends.
func (s *Script) Length() float64 {
	var l float64
	for _, st := range s.Steps {
		l = math.Max(l, st.end())
	}
	return l
}

// Validate checks step ranges.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		switch {
		case st.At < 0:
			return fmt.Errorf("step %d: negative at", i)
		case st.Duration < 0:
			return fmt.Errorf("step %d: negative duration", i)
		case st.Select < 0 || st.Select > SlotCount:
			return fmt.Errorf("step %d: select %d out of [0, %d]", i, st.Select, SlotCount)
		case st.Scroll < -1 || st.Scroll > 1:
			return fmt.Errorf("step %d: scroll %d out of [-1, 1]", i, st.Scroll)
		}
	}
	return nil
}

// Sample returns the merged control levels at now.
// Overlapping steps combine: vectors add, buttons OR, the later step's slot wins.
func (s *Script) Sample(now float64) Raw {
	var raw Raw
	if s == nil || len(s.Steps) == 0 {
		return raw
	}
	if s.Loop {
		if l := s.Length(); l > 0 {
			now = math.Mod(now, l)
		}
	}

	for _, st := range s.Steps {
		if now < st.At || now >= st.end() {
			continue
		}
		raw.Move = raw.Move.Add(st.Move)
		raw.Look = raw.Look.Add(st.Look)
		raw.Jump = raw.Jump || st.Jump
		raw.Crouch = raw.Crouch || st.Crouch
		raw.Sprint = raw.Sprint || st.Sprint
		raw.Fire = raw.Fire || st.Fire
		raw.Aim = raw.Aim || st.Aim
		raw.Reload = raw.Reload || st.Reload
		if st.Select != 0 {
			raw.SelectSlot = st.Select
		}
		raw.Scroll += st.Scroll
	}
	return raw
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing input script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating input script %q: %w", s.Name, err)
	}
	return &s, nil
}

// LoadScript reads a script from path.
// An empty path yields an idle script (the character stands still).
func LoadScript(path string) (*Script, error) {
	if path == "" {
		return &Script{Name: "idle"}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("input script %q not found: %w", path, err)
		}
		return nil, fmt.Errorf("reading input script %q: %w", path, err)
	}

	s, err := ParseScript(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	slog.Debug("input script loaded", "path", path, "steps", len(s.Steps), "loop", s.Loop)
	return s, nil
}
