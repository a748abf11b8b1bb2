package physics

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Level is the YAML description of a static world.
//
// Example:
//
//	planes:
//	  - name: ground
//	    normal: [0, 1, 0]
//	    offset: 0
//	slopes:
//	  - name: ramp
//	    point: [0, 0, 20]
//	    angle: 30
//	boxes:
//	  - name: tunnel-roof
//	    min: [-2, 1.2, 5]
//	    max: [2, 3, 10]
type Level struct {
	Planes []PlaneDef `yaml:"planes"`
	Slopes []SlopeDef `yaml:"slopes"`
	Boxes  []BoxDef   `yaml:"boxes"`
}

// PlaneDef describes a half-space.
type PlaneDef struct {
	Name   string     `yaml:"name"`
	Normal mgl64.Vec3 `yaml:"normal"`
	Offset float64    `yaml:"offset"`
}

// SlopeDef describes an inclined ground plane rising toward +Z.
type SlopeDef struct {
	Name  string     `yaml:"name"`
	Point mgl64.Vec3 `yaml:"point"`
	Angle float64    `yaml:"angle"`
}

// BoxDef describes a solid axis-aligned box.
type BoxDef struct {
	Name string     `yaml:"name"`
	Min  mgl64.Vec3 `yaml:"min"`
	Max  mgl64.Vec3 `yaml:"max"`
}

// Build creates a StaticWorld from the level description.
func (l Level) Build() (*StaticWorld, error) {
	w := NewStaticWorld()
	for i, p := range l.Planes {
		if p.Normal.LenSqr() == 0 {
			return nil, fmt.Errorf("plane %d (%s): zero normal", i, p.Name)
		}
		w.AddPlane(p.Name, p.Normal, p.Offset)
	}
	for i, s := range l.Slopes {
		if s.Angle <= -90 || s.Angle >= 90 {
			return nil, fmt.Errorf("slope %d (%s): angle %.1f out of range (-90, 90)", i, s.Name, s.Angle)
		}
		w.AddSlope(s.Name, s.Point, s.Angle)
	}
	for _, b := range l.Boxes {
		w.AddBox(b.Name, b.Min, b.Max)
	}
	return w, nil
}

// ParseLevel decodes a YAML level and builds its world.
func ParseLevel(data []byte) (*StaticWorld, error) {
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}
	return l.Build()
}

// LoadLevel reads a YAML level file.
// An empty path yields a flat ground plane at y=0.
func LoadLevel(path string) (*StaticWorld, error) {
	if path == "" {
		slog.Info("no level file configured, using flat ground")
		return NewFlatWorld(0), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", path, err)
	}

	w, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("loading level %s: %w", path, err)
	}

	slog.Info("level loaded", "path", path, "colliders", w.ColliderCount())
	return w, nil
}
