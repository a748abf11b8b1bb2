package sim

import (
	"github.com/udisondev/fpsim/internal/input"
)

// Source produces the input frame of a character for one tick.
type Source interface {
	Next(now float64) input.Frame
}

// SourceFunc adapts a function to Source.
type SourceFunc func(now float64) input.Frame

// Next calls f.
func (f SourceFunc) Next(now float64) input.Frame { return f(now) }

// ScriptSource replays a Script through a Tracker, so held buttons turn into
// press and release edges the way a device would produce them.
type ScriptSource struct {
	script  *input.Script
	tracker *input.Tracker
}

// NewScriptSource creates a source replaying script with the given look settings.
func NewScriptSource(script *input.Script, settings input.Settings) *ScriptSource {
	return &ScriptSource{script: script, tracker: input.NewTracker(settings)}
}

// Next samples the script at now.
func (s *ScriptSource) Next(now float64) input.Frame {
	return s.tracker.Next(s.script.Sample(now))
}

// Name returns the script name.
func (s *ScriptSource) Name() string { return s.script.Name }
