package scene

import (
	"sync"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig

	mu      sync.RWMutex
	objects []geometry.Object // Insertion order decides ties between equal hits
}

// New creates an empty scene with a camera built from cameraConfig
func New(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:           name,
		Camera:         renderer.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// ApplyCameraOverrides merges the non-zero fields of overrides into the
// camera configuration and rebuilds the camera
func (s *Scene) ApplyCameraOverrides(overrides renderer.CameraConfig) {
	s.CameraConfig = renderer.MergeCameraConfig(s.CameraConfig, overrides)
	s.Camera = renderer.NewCamera(s.CameraConfig)
}

// GetObjects returns the current object list. The returned slice is never
// mutated in place, so it is safe to read while objects are added.
func (s *Scene) GetObjects() []geometry.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects
}

// AddObject appends an object to the scene
func (s *Scene) AddObject(object geometry.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	objects := make([]geometry.Object, len(s.objects), len(s.objects)+1)
	copy(objects, s.objects)
	s.objects = append(objects, object)
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, color core.Vec3) {
	s.AddObject(geometry.NewSphereObject(geometry.NewSphere(center, radius, color)))
}

// ReplaceObjects swaps the whole object list, e.g. after a scene file reload
func (s *Scene) ReplaceObjects(objects []geometry.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append([]geometry.Object(nil), objects...)
}

// GetPrimitiveCount returns the total number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.GetObjects())
}
