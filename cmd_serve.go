package main

import (
	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-tracer/web/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve progressive renders over HTTP",
		Long: `Start the web server. /api/render streams progressive passes as
server-sent events, /api/inspect reports what a pixel's ray hits and
/api/scenes lists the available scenes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := server.NewServer(a.config.Port, a.config.ScenesDir, a.config.SamplingConfig(), a.logger)
			a.logger.Printf("Visit http://localhost:%d/api/scenes to list scenes\n", a.config.Port)
			return s.Start(cmd.Context())
		},
	}

	cmd.Flags().Int("port", DefaultConfig().Port, "port to serve on")
	return cmd
}
