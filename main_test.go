package main

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-tracer/pkg/export"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// execute runs the CLI with args and returns its standard output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(io.Discard)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestViperDefaultsCoverEveryKey(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)
	var keys map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &keys))

	v := newViper()
	for key := range keys {
		assert.True(t, v.IsSet(key), "no default for %s", key)
	}

	config, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"vfov too wide", func(c *Config) { c.VFov = 180 }},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"unknown format", func(c *Config) { c.Format = "gif" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracer.yaml")
	writeFile(t, path, "width: 64\nformat: png\naccumulate: false\n")

	config, err := loadConfig(newViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 64, config.Width)
	assert.Equal(t, DefaultConfig().Height, config.Height, "unset keys keep their defaults")
	assert.Equal(t, "png", config.Format)
	assert.False(t, config.Accumulate)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("TRACER_MAX_DEPTH", "7")
	t.Setenv("TRACER_SCENE", "three-spheres")

	config, err := loadConfig(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 7, config.MaxDepth)
	assert.Equal(t, "three-spheres", config.Scene)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadConfig(newViper(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "width: -5\n")
	_, err = loadConfig(newViper(), invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestConfigLoadScene(t *testing.T) {
	config := DefaultConfig()
	config.Width, config.Height = 32, 18
	config.VFov = 45
	config.MaxDepth = 3
	config.Workers = 2

	s, err := config.LoadScene()
	require.NoError(t, err)

	w, h := s.GetCamera().Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 18, h)
	assert.Equal(t, 45.0, s.GetCamera().VFov())
	assert.Equal(t, 3, s.SamplingConfig.MaxDepth)
	assert.Equal(t, 2, s.SamplingConfig.Workers)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "tracer.yaml")
	writeFile(t, cfgFile, "width: 64\nformat: png\n")
	outputDir := filepath.Join(dir, "renders")

	args := []string{
		"render", "--config", cfgFile,
		"--width", "16", "--height", "9", "--workers", "2",
		"--output-dir", outputDir, "--passes", "2",
	}

	for n := 1; n <= 2; n++ {
		out, err := execute(t, args...)
		require.NoError(t, err)

		expected := export.FileName(outputDir, "render", n, export.FormatPNG)
		assert.Contains(t, out, expected)

		f, err := os.Open(expected)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx(), "flags override the config file")
		assert.Equal(t, 9, img.Bounds().Dy())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "render", "--scene", "missing", "--output-dir", dir)
	assert.ErrorIs(t, err, scene.ErrUnknownScene)

	_, err = execute(t, "render", "--passes", "0", "--output-dir", dir)
	assert.ErrorContains(t, err, "passes")

	_, err = execute(t, "render", "--format", "gif", "--output-dir", dir)
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestScenesCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pair.yaml"), `name: Pair
camera:
  forward: [0, 0, -1]
  vfov: 60
spheres:
  - center: [0, 0, -2]
    radius: 1
    color: [1, 0, 0]
`)

	out, err := execute(t, "scenes", "--scenes-dir", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, scene.BuiltinGroup, lines[0])
	assert.Contains(t, out, scene.DefaultSceneID)
	assert.Contains(t, out, scene.FileGroup)
	assert.Contains(t, out, "file:pair")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "tracer.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	config, err := loadConfig(newViper(), path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	_, err = execute(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", path, "--force")
	assert.NoError(t, err)
}
