// Package controls turns polled input into camera commands.
package controls

import (
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Action is a logical camera control, independent of the physical key bound to it
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionPitchUp
	ActionPitchDown
	ActionYawLeft
	ActionYawRight
)

// InputState is one frame of polled input
type InputState struct {
	Active       map[Action]bool
	MouseDX      float64 // Pixels moved right while dragging
	MouseDY      float64 // Pixels moved down while dragging
	DeltaSeconds float64 // Time covered by this frame
}

// Config scales input into camera motion
type Config struct {
	MoveSpeed        float64 // World units per second
	TurnSpeed        float64 // Radians per second for key rotation
	MouseSensitivity float64 // Radians per pixel of mouse drag
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		MoveSpeed:        1.5,
		TurnSpeed:        1.2,
		MouseSensitivity: 0.004,
	}
}

// Command is a single camera operation
type Command interface {
	isCommand()
}

// Move translates the camera along one axis
type Move struct {
	Axis     renderer.Axis
	Distance float64
}

// Rotate turns the camera; positive pitch looks down, positive yaw turns right
type Rotate struct {
	Pitch float64
	Yaw   float64
}

func (Move) isCommand()   {}
func (Rotate) isCommand() {}

// axisBinding pairs the actions that drive one axis in opposite directions
var axisBindings = []struct {
	axis     renderer.Axis
	positive Action
	negative Action
}{
	{renderer.AxisForward, ActionForward, ActionBackward},
	{renderer.AxisRight, ActionRight, ActionLeft},
	{renderer.AxisUp, ActionUp, ActionDown},
}

// Commands maps one frame of input to camera commands. Opposing actions cancel.
func Commands(config Config, state InputState) []Command {
	var commands []Command

	step := config.MoveSpeed * state.DeltaSeconds
	for _, b := range axisBindings {
		if direction := balance(state.Active, b.positive, b.negative); direction != 0 {
			commands = append(commands, Move{Axis: b.axis, Distance: direction * step})
		}
	}

	turn := config.TurnSpeed * state.DeltaSeconds
	pitch := balance(state.Active, ActionPitchDown, ActionPitchUp)*turn + state.MouseDY*config.MouseSensitivity
	yaw := balance(state.Active, ActionYawRight, ActionYawLeft)*turn + state.MouseDX*config.MouseSensitivity
	if pitch != 0 || yaw != 0 {
		commands = append(commands, Rotate{Pitch: pitch, Yaw: yaw})
	}

	return commands
}

func balance(active map[Action]bool, positive, negative Action) float64 {
	v := 0.0
	if active[positive] {
		v++
	}
	if active[negative] {
		v--
	}
	return v
}

// Apply executes commands against camera. The ray direction table is rebuilt
// once, and only if a rotation was accepted. It reports whether the view changed.
func Apply(camera *renderer.Camera, commands []Command) bool {
	changed := false
	rotated := false

	for _, command := range commands {
		switch c := command.(type) {
		case Move:
			if c.Distance != 0 {
				camera.Translate(c.Axis, c.Distance)
				changed = true
			}
		case Rotate:
			if camera.Rotate(c.Pitch, c.Yaw) {
				rotated = true
			}
		}
	}

	if rotated {
		camera.RecalculateRayDirections()
		changed = true
	}
	return changed
}
