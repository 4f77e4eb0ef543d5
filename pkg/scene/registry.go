package scene

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// DefaultSceneID names the scene used when none is configured
const DefaultSceneID = "default"

// DefaultGridSize is the sphere grid edge length for the built-in grid scene
const DefaultGridSize = 10

type builtinScene struct {
	info  SceneInfo
	build func(overrides renderer.CameraConfig) *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          DefaultSceneID,
			Name:        "Default Scene",
			Description: "Single sphere resting on a large ground sphere",
		},
		build: func(o renderer.CameraConfig) *Scene { return NewDefaultScene(o) },
	},
	{
		info: SceneInfo{
			ID:          "three-spheres",
			Name:        "Three Spheres",
			Description: "Three colored spheres and a small white one",
		},
		build: func(o renderer.CameraConfig) *Scene { return NewThreeSpheresScene(o) },
	},
	{
		info: SceneInfo{
			ID:          "sphere-grid",
			Name:        "Sphere Grid",
			Description: "10x10 grid of rainbow-colored spheres",
		},
		build: func(o renderer.CameraConfig) *Scene { return NewSphereGridScene(DefaultGridSize, o) },
	},
}

// BuiltinScenes lists the compiled-in scenes
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = BuiltinGroup
		info.Type = TypeBuiltin
		infos = append(infos, info)
	}
	return infos
}

// Load resolves id to a scene rendered at width x height. id may name a
// built-in scene, a discovered file as "file:<name>", or a path to a YAML
// scene file. Unresolvable ids return an error wrapping ErrUnknownScene.
func Load(id, scenesDir string, width, height int) (*Scene, error) {
	return load(id, scenesDir, width, height, true)
}

// LoadNamed is Load restricted to built-in ids and "file:<name>" ids
// resolved inside scenesDir. Literal paths return ErrUnknownScene.
func LoadNamed(id, scenesDir string, width, height int) (*Scene, error) {
	return load(id, scenesDir, width, height, false)
}

func load(id, scenesDir string, width, height int, allowPaths bool) (*Scene, error) {
	if id == "" {
		id = DefaultSceneID
	}
	overrides := renderer.CameraConfig{Width: width, Height: height}

	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(overrides), nil
		}
	}

	if !allowPaths && isScenePath(id) {
		return nil, errors.Wrapf(ErrUnknownScene, "%q: only scene ids are accepted", id)
	}

	path, err := ScenePath(id, scenesDir)
	if err != nil {
		return nil, err
	}

	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	size := renderer.MergeCameraConfig(DefaultCameraConfig(), overrides)
	return f.Build(size.Width, size.Height), nil
}

func isScenePath(id string) bool {
	ext := filepath.Ext(id)
	return ext == ".yaml" || ext == ".yml"
}

// validSceneName reports whether name is a bare file name with no
// directory components
func validSceneName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// ScenePath maps a file scene id or a literal path to a file on disk.
// Built-in ids are not files and return ErrUnknownScene.
func ScenePath(id, scenesDir string) (string, error) {
	if isScenePath(id) {
		if _, err := os.Stat(id); err != nil {
			return "", errors.Wrapf(ErrUnknownScene, "%s: %v", id, err)
		}
		return id, nil
	}

	if name, ok := strings.CutPrefix(id, TypeFile+":"); ok && validSceneName(name) {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(scenesDir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", errors.Wrapf(ErrUnknownScene, "%q", id)
}
