package controls

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

func newCamera() *renderer.Camera {
	return renderer.NewCamera(renderer.CameraConfig{
		Forward: core.NewVec3(0, 0, -1),
		VFov:    90,
		Width:   4,
		Height:  4,
	})
}

func active(actions ...Action) map[Action]bool {
	m := make(map[Action]bool)
	for _, a := range actions {
		m[a] = true
	}
	return m
}

func TestCommands(t *testing.T) {
	config := Config{MoveSpeed: 2, TurnSpeed: 1, MouseSensitivity: 0.5}

	tests := []struct {
		name     string
		state    InputState
		expected []Command
	}{
		{
			name:     "idle",
			state:    InputState{DeltaSeconds: 0.5},
			expected: nil,
		},
		{
			name:     "forward",
			state:    InputState{Active: active(ActionForward), DeltaSeconds: 0.5},
			expected: []Command{Move{Axis: renderer.AxisForward, Distance: 1}},
		},
		{
			name:     "opposing keys cancel",
			state:    InputState{Active: active(ActionLeft, ActionRight), DeltaSeconds: 0.5},
			expected: nil,
		},
		{
			name:  "left and down",
			state: InputState{Active: active(ActionLeft, ActionDown), DeltaSeconds: 0.25},
			expected: []Command{
				Move{Axis: renderer.AxisRight, Distance: -0.5},
				Move{Axis: renderer.AxisUp, Distance: -0.5},
			},
		},
		{
			name:     "key rotation",
			state:    InputState{Active: active(ActionPitchUp, ActionYawRight), DeltaSeconds: 0.5},
			expected: []Command{Rotate{Pitch: -0.5, Yaw: 0.5}},
		},
		{
			name:     "mouse drag",
			state:    InputState{MouseDX: -2, MouseDY: 4},
			expected: []Command{Rotate{Pitch: 2, Yaw: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Commands(config, tt.state)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d commands, got %d: %#v", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("command %d: expected %#v, got %#v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestApplyMoveKeepsDirections(t *testing.T) {
	camera := newCamera()
	before := camera.RayDirections()

	changed := Apply(camera, []Command{Move{Axis: renderer.AxisForward, Distance: 2}})

	if !changed {
		t.Error("expected a move to change the view")
	}
	if camera.Position() != core.NewVec3(0, 0, -2) {
		t.Errorf("expected position (0,0,-2), got %v", camera.Position())
	}
	if &before[0] != &camera.RayDirections()[0] {
		t.Error("a pure translation must not rebuild the direction table")
	}
}

func TestApplyRotateRebuildsDirections(t *testing.T) {
	camera := newCamera()
	before := camera.RayDirections()

	if !Apply(camera, []Command{Rotate{Yaw: math.Pi / 2}}) {
		t.Fatal("expected rotation to change the view")
	}
	after := camera.RayDirections()
	if &before[0] == &after[0] {
		t.Error("rotation should rebuild the direction table")
	}

	center := camera.GetRay(2, 2).Direction
	if math.Abs(center.X-1) > 1e-9 || math.Abs(center.Z) > 1e-9 {
		t.Errorf("expected center ray along +X, got %v", center)
	}
}

func TestApplyRejectedRotation(t *testing.T) {
	camera := newCamera()
	before := camera.RayDirections()

	if Apply(camera, []Command{Rotate{Pitch: math.Pi / 2}}) {
		t.Error("a rejected rotation should not report a change")
	}
	if &before[0] != &camera.RayDirections()[0] {
		t.Error("a rejected rotation must not rebuild the direction table")
	}
}

func TestApplyEmpty(t *testing.T) {
	if Apply(newCamera(), nil) {
		t.Error("no commands should not change the view")
	}
}
