package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-tracer/pkg/scene"
)

func newScenesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := scene.ListAllScenes(a.config.ScenesDir, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, group := range scenes.Groups {
				fmt.Fprintln(out, group.Name)
				for _, info := range group.Scenes {
					fmt.Fprintf(out, "  %-24s %s\n", info.ID, info.DisplayName)
				}
			}
			return nil
		},
	}
}
