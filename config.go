package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/export"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

const (
	configName = "tracer"
	envPrefix  = "TRACER"
)

// Config is the tracer configuration, read from tracer.yaml, TRACER_* env
// vars and command-line flags, in increasing priority
type Config struct {
	Width      int     `yaml:"width" mapstructure:"width"`
	Height     int     `yaml:"height" mapstructure:"height"`
	VFov       float64 `yaml:"vfov" mapstructure:"vfov"` // 0 keeps the scene's own field of view
	MaxDepth   int     `yaml:"max_depth" mapstructure:"max_depth"`
	Workers    int     `yaml:"workers" mapstructure:"workers"`
	Seed       int64   `yaml:"seed" mapstructure:"seed"`
	Scene      string  `yaml:"scene" mapstructure:"scene"`
	ScenesDir  string  `yaml:"scenes_dir" mapstructure:"scenes_dir"`
	OutputDir  string  `yaml:"output_dir" mapstructure:"output_dir"`
	Format     string  `yaml:"format" mapstructure:"format"`
	OpenViewer bool    `yaml:"open_viewer" mapstructure:"open_viewer"`
	Viewer     string  `yaml:"viewer" mapstructure:"viewer"`
	LogLevel   string  `yaml:"log_level" mapstructure:"log_level"`
	Accumulate bool    `yaml:"accumulate" mapstructure:"accumulate"`
	Scale      int     `yaml:"scale" mapstructure:"scale"`
	Port       int     `yaml:"port" mapstructure:"port"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	camera := scene.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()

	return Config{
		Width:      camera.Width,
		Height:     camera.Height,
		MaxDepth:   sampling.MaxDepth,
		Workers:    runtime.NumCPU(),
		Seed:       sampling.Seed,
		Scene:      scene.DefaultSceneID,
		ScenesDir:  "scenes",
		OutputDir:  "output",
		Format:     string(export.FormatPPM),
		Viewer:     export.DefaultViewer,
		LogLevel:   "info",
		Accumulate: true,
		Scale:      3,
		Port:       8080,
	}
}

// newViper creates a viper instance with the defaults, search paths and
// environment binding in place
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".sphere-tracer"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every config key with its default value. Keys must
// match the mapstructure tags on Config.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("vfov", d.VFov)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("scene", d.Scene)
	v.SetDefault("scenes_dir", d.ScenesDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("format", d.Format)
	v.SetDefault("open_viewer", d.OpenViewer)
	v.SetDefault("viewer", d.Viewer)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("accumulate", d.Accumulate)
	v.SetDefault("scale", d.Scale)
	v.SetDefault("port", d.Port)
}

// bindFlags binds every flag except --config to the config key of the same
// name with dashes turned into underscores
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" || bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, known := v.AllSettings()[key]; !known {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

// loadConfig reads the config file (cfgFile, or tracer.yaml on the search
// path) and returns the merged configuration. A missing search-path file is
// not an error.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "error reading config file")
		}
	}

	return decodeConfig(v)
}

// decodeConfig unmarshals and validates the current viper settings
func decodeConfig(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "error unmarshaling config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.VFov < 0 || c.VFov >= 180 {
		return errors.Errorf("vfov must be in [0, 180), got %g", c.VFov)
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("max_depth cannot be negative, got %d", c.MaxDepth)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	if c.Scale < 1 {
		return errors.Errorf("scale must be at least 1, got %d", c.Scale)
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return nil
}

// SamplingConfig returns the renderer settings selected by the config
func (c Config) SamplingConfig() renderer.SamplingConfig {
	sampling := renderer.DefaultSamplingConfig()
	sampling.MaxDepth = c.MaxDepth
	sampling.Workers = c.Workers
	sampling.Seed = c.Seed
	return sampling
}

// LoadScene builds the configured scene at the configured size
func (c Config) LoadScene() (*scene.Scene, error) {
	s, err := scene.Load(c.Scene, c.ScenesDir, c.Width, c.Height)
	if err != nil {
		return nil, err
	}
	if c.VFov > 0 {
		s.ApplyCameraOverrides(renderer.CameraConfig{VFov: c.VFov})
	}
	s.SamplingConfig = c.SamplingConfig()
	return s, nil
}

// Exporter returns an exporter for the configured output settings
func (c Config) Exporter(logger core.Logger) *export.Exporter {
	e := export.NewExporter(c.OutputDir, logger)
	e.Format, _ = export.ParseFormat(c.Format)
	if c.OpenViewer {
		e.Viewer = c.Viewer
	}
	return e
}

// WriteDefaultConfig writes the default configuration as YAML to path,
// refusing to replace an existing file unless force is set
func WriteDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create config directory")
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}
