package scene

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

var (
	// ErrUnknownScene is returned when a scene name matches neither a
	// built-in scene nor a scene file
	ErrUnknownScene = errors.New("unknown scene")

	// ErrInvalidScene is returned when a scene file fails validation
	ErrInvalidScene = errors.New("invalid scene")
)

// Triple is a YAML-friendly vector written as [x, y, z]
type Triple [3]float64

// Vec3 converts the triple to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// TripleOf converts a vector to a triple
func TripleOf(v core.Vec3) Triple {
	return Triple{v.X, v.Y, v.Z}
}

// File is the on-disk description of a scene
type File struct {
	Name        string       `yaml:"name"`
	Variant     string       `yaml:"variant,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Group       string       `yaml:"group,omitempty"`
	Camera      CameraFile   `yaml:"camera"`
	Spheres     []SphereFile `yaml:"spheres"`
}

// CameraFile holds the camera section of a scene file
type CameraFile struct {
	Position    Triple  `yaml:"position,flow"`
	Forward     Triple  `yaml:"forward,flow"`
	VFov        float64 `yaml:"vfov"`
	AspectRatio float64 `yaml:"aspect_ratio,omitempty"`
}

// SphereFile holds one sphere of a scene file
type SphereFile struct {
	Center Triple  `yaml:"center,flow"`
	Radius float64 `yaml:"radius"`
	Color  Triple  `yaml:"color,flow"`
}

// LoadFile reads and validates a scene file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene file %s", path)
	}
	return ParseFile(data)
}

// ParseFile decodes and validates scene file contents
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(ErrInvalidScene, "failed to parse scene: %v", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveFile writes a scene file as YAML
func SaveFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "failed to marshal scene")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write scene file %s", path)
	}
	return nil
}

// Validate checks that every value can be rendered. Errors wrap ErrInvalidScene.
func (f *File) Validate() error {
	if !finite(f.Camera.Position[:]...) || !finite(f.Camera.Forward[:]...) {
		return errors.Wrap(ErrInvalidScene, "camera values must be finite")
	}
	if f.Camera.Forward.Vec3().LengthSquared() == 0 {
		return errors.Wrap(ErrInvalidScene, "camera forward must be non-zero")
	}
	if f.Camera.VFov <= 0 || f.Camera.VFov >= 180 {
		return errors.Wrapf(ErrInvalidScene, "camera vfov %g outside (0, 180)", f.Camera.VFov)
	}
	if f.Camera.AspectRatio < 0 {
		return errors.Wrapf(ErrInvalidScene, "camera aspect ratio %g is negative", f.Camera.AspectRatio)
	}
	for i, s := range f.Spheres {
		if !finite(s.Center[:]...) || !finite(s.Color[:]...) || !finite(s.Radius) {
			return errors.Wrapf(ErrInvalidScene, "sphere %d has non-finite values", i)
		}
		if s.Radius <= 0 {
			return errors.Wrapf(ErrInvalidScene, "sphere %d radius %g must be positive", i, s.Radius)
		}
	}
	return nil
}

// Objects converts the sphere list to scene objects
func (f *File) Objects() []geometry.Object {
	objects := make([]geometry.Object, 0, len(f.Spheres))
	for _, s := range f.Spheres {
		objects = append(objects, geometry.NewSphereObject(
			geometry.NewSphere(s.Center.Vec3(), s.Radius, s.Color.Vec3())))
	}
	return objects
}

// Build creates a scene of the given image size from the file
func (f *File) Build(width, height int) *Scene {
	cameraConfig := renderer.CameraConfig{
		Position:    f.Camera.Position.Vec3(),
		Forward:     f.Camera.Forward.Vec3(),
		VFov:        f.Camera.VFov,
		Width:       width,
		Height:      height,
		AspectRatio: f.Camera.AspectRatio,
	}

	s := New(f.Name, cameraConfig)
	s.ReplaceObjects(f.Objects())
	return s
}

// ToFile captures a scene's camera and objects as a scene file
func ToFile(s *Scene) *File {
	f := &File{
		Name: s.Name,
		Camera: CameraFile{
			Position:    TripleOf(s.Camera.Position()),
			Forward:     TripleOf(s.Camera.Forward()),
			VFov:        s.Camera.VFov(),
			AspectRatio: s.CameraConfig.AspectRatio,
		},
	}
	for _, object := range s.GetObjects() {
		if object.Kind != geometry.KindSphere {
			continue
		}
		f.Spheres = append(f.Spheres, SphereFile{
			Center: TripleOf(object.Sphere.Center),
			Radius: object.Sphere.Radius,
			Color:  TripleOf(object.Sphere.Color),
		})
	}
	return f
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
