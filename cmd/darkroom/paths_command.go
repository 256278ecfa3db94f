package main

import (
	"github.com/spf13/cobra"

	"darkroom/internal/photos"
)

func newPathsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "paths [uuid...]",
		Short: "Show where each asset's files live in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			assets, err := ctx.loadAssets(cmd.Context(), args)
			if err != nil {
				return err
			}
			engine, err := ctx.newEngine()
			if err != nil {
				return err
			}
			resolver := engine.Resolver()

			variants := photos.Variants()
			if jsonOutput {
				out := make([]map[string]any, 0, len(assets))
				for _, asset := range assets {
					entry := map[string]any{"uuid": asset.UUID}
					for _, v := range variants {
						if path, ok := resolver.Resolve(asset, v); ok {
							entry[v.String()] = path
						} else {
							entry[v.String()] = nil
						}
					}
					out = append(out, entry)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			headers := []string{"UUID"}
			for _, v := range variants {
				headers = append(headers, variantLabel(v))
			}
			rows := make([][]string, 0, len(assets))
			for _, asset := range assets {
				row := []string{asset.UUID}
				for _, v := range variants {
					path, _ := resolver.Resolve(asset, v)
					row = append(row, valueOrDash(path))
				}
				rows = append(rows, row)
			}
			writeTable(cmd.OutOrStdout(), headers, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output paths as JSON")
	return cmd
}
