package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info <uuid>",
		Short: "Describe one asset and its resolved files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			asset, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			engine, err := ctx.newEngine()
			if err != nil {
				return err
			}

			summary := engine.Resolver().Summarize(asset)
			members, err := store.BurstMembers(cmd.Context(), asset)
			if err != nil {
				return err
			}
			summary.BurstMembers = members

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			data, err := yaml.Marshal(summary)
			if err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON instead of YAML")
	return cmd
}
