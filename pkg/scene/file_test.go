package scene

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

const sampleScene = `name: Sample
description: Two spheres
camera:
  position: [0, 0.5, 1]
  forward: [0, 0, -1]
  vfov: 70
spheres:
  - center: [0, 0, -1]
    radius: 0.5
    color: [0.8, 0.3, 0.3]
  - center: [0, -100.5, -1]
    radius: 100
    color: [0.8, 0.8, 0]
`

func TestParseFile(t *testing.T) {
	f, err := ParseFile([]byte(sampleScene))
	require.NoError(t, err)

	assert.Equal(t, "Sample", f.Name)
	assert.Equal(t, Triple{0, 0.5, 1}, f.Camera.Position)
	assert.Equal(t, 70.0, f.Camera.VFov)
	require.Len(t, f.Spheres, 2)
	assert.Equal(t, 100.0, f.Spheres[1].Radius)

	s := f.Build(16, 9)
	require.Len(t, s.GetObjects(), 2)
	assert.Equal(t, core.NewVec3(0.8, 0.3, 0.3), s.GetObjects()[0].Color())
	assert.Equal(t, core.NewVec3(0, 0.5, 1), s.GetCamera().Position())
}

func TestParseFileInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "camera: [\n"},
		{"zero forward", "camera:\n  forward: [0, 0, 0]\n  vfov: 60\n"},
		{"bad vfov", "camera:\n  forward: [0, 0, -1]\n  vfov: 180\n"},
		{"missing vfov", "camera:\n  forward: [0, 0, -1]\n"},
		{"negative radius", "camera:\n  forward: [0, 0, -1]\n  vfov: 60\nspheres:\n  - center: [0, 0, 0]\n    radius: -1\n    color: [1, 1, 1]\n"},
		{"short vector", "camera:\n  forward: [0, -1]\n  vfov: 60\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFile([]byte(tc.content))
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestValidateNonFinite(t *testing.T) {
	f := &File{
		Camera:  CameraFile{Forward: Triple{0, 0, -1}, VFov: 60},
		Spheres: []SphereFile{{Center: Triple{math.NaN(), 0, 0}, Radius: 1}},
	}
	assert.ErrorIs(t, f.Validate(), ErrInvalidScene)
}

func TestSaveAndLoadFile(t *testing.T) {
	original := ToFile(NewDefaultScene())
	path := filepath.Join(t.TempDir(), "default.yaml")

	require.NoError(t, SaveFile(path, original))
	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, original, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
