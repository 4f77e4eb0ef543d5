package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// DefaultCameraConfig is the camera shared by the built-in scenes
func DefaultCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Position:    core.NewVec3(0, 0, 0),
		Forward:     core.NewVec3(0, 0, -1),
		VFov:        90.0,
		Width:       320,
		Height:      180,
		AspectRatio: renderer.DefaultAspectRatio,
	}
}

// NewDefaultScene creates a sphere resting on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := New("Default Scene", cameraConfig)

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, core.NewVec3(0.8, 0.3, 0.3))
	// Ground
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, core.NewVec3(0.8, 0.8, 0.0))

	return s
}

// NewThreeSpheresScene places three colored spheres side by side on the ground
func NewThreeSpheresScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := DefaultCameraConfig()
	defaultCameraConfig.Position = core.NewVec3(0, 0.3, 1)
	defaultCameraConfig.VFov = 60

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New("Three Spheres", cameraConfig)

	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, core.NewVec3(0.2, 0.4, 0.9))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, core.NewVec3(0.65, 0.25, 0.2))
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, core.NewVec3(0.8, 0.6, 0.2))
	s.AddSphere(core.NewVec3(0.3, -0.35, -0.4), 0.15, core.NewVec3(0.9, 0.9, 0.9))
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, core.NewVec3(0.48, 0.48, 0.0))

	return s
}
