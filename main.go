package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands
type app struct {
	v       *viper.Viper
	cfgFile string
	config  Config
	logger  *renderer.DefaultLogger
	logOut  io.Writer
}

// newRootCmd builds the command tree. Log output goes to logOut.
func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{v: newViper(), logOut: logOut}
	defaults := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "sphere-tracer",
		Short: "Progressive sphere path tracer",
		Long: `sphere-tracer renders scenes made of colored spheres lit by a single
directional light. It can write a still image, open an interactive window
that refines the image while the camera is still, or serve renders over HTTP.

Settings come from tracer.yaml (., ./configs or ~/.sphere-tracer), TRACER_*
environment variables and flags, in increasing priority.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is tracer.yaml on the search path)")
	flags.String("scene", defaults.Scene, "scene id, file:<name> or path to a YAML scene file")
	flags.String("scenes-dir", defaults.ScenesDir, "directory searched for scene files")
	flags.Int("width", defaults.Width, "image width in pixels")
	flags.Int("height", defaults.Height, "image height in pixels")
	flags.Float64("vfov", defaults.VFov, "vertical field of view in degrees (0 keeps the scene's)")
	flags.Int("max-depth", defaults.MaxDepth, "maximum bounces per primary ray")
	flags.Int("workers", defaults.Workers, "row workers rendering in parallel")
	flags.Int64("seed", defaults.Seed, "base seed for the random streams")
	flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newViewCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newScenesCmd(a))
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// init merges flags into the config and sets up logging
func (a *app) init(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	config, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.config = config
	a.logger = newLogger(a.logOut, config.LogLevel)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Printf("Using config file: %s\n", used)
	}
	return nil
}

// newLogger logs everything to w and filters by the global level, so a
// config reload can change the level of loggers already handed out
func newLogger(w io.Writer, level string) *renderer.DefaultLogger {
	zerolog.SetGlobalLevel(renderer.ParseLevel(level))
	return renderer.NewLevelLogger(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}, zerolog.TraceLevel)
}
