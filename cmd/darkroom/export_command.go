package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"darkroom/internal/config"
	"darkroom/internal/deps"
	"darkroom/internal/export"
	"darkroom/internal/hostexport"
	"darkroom/internal/logging"
	"darkroom/internal/services"
)

type exportFlags struct {
	edited      bool
	live        bool
	overwrite   bool
	noIncrement bool
	sidecars    []string
	usePhotos   bool
	timeout     time.Duration
	workers     int
	filename    string
	jsonOutput  bool
}

type exportResultJSON struct {
	UUID     string   `json:"uuid"`
	Status   string   `json:"status"`
	Path     string   `json:"path,omitempty"`
	LivePath string   `json:"live_path,omitempty"`
	Sidecars []string `json:"sidecars,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <dest> [uuid...]",
		Short: "Export assets into a directory",
		Long: "Export the original (or edited) file of each asset into <dest>.\n" +
			"Without uuids every asset in the catalog is exported. Existing files are\n" +
			"never replaced unless --overwrite is given; by default a \" (N)\" suffix is\n" +
			"added to the name instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dest, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve destination: %w", err)
			}
			uuids := args[1:]
			if flags.filename != "" && len(uuids) != 1 {
				return errors.New("--filename requires exactly one uuid")
			}

			opts, err := buildExportOptions(cmd, cfg, flags)
			if err != nil {
				return err
			}
			if opts.UseHostExport {
				if err := deps.Require(deps.HostExport(hostexport.DefaultBinary)); err != nil {
					return err
				}
			}
			workers := cfg.Export.Workers
			if cmd.Flags().Changed("workers") {
				workers = flags.workers
			}

			runCtx := services.WithRequestID(cmd.Context(), uuid.NewString())
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.WithContext(runCtx, logger)

			defer ctx.close()
			assets, err := ctx.loadAssets(runCtx, uuids)
			if err != nil {
				return err
			}
			engine, err := ctx.newEngine()
			if err != nil {
				return err
			}

			logger.Info("export started",
				logging.Destination(dest),
				logging.Int("assets", len(assets)),
				logging.Int("workers", workers),
			)
			results := export.Batch(runCtx, engine, assets, dest, opts, workers)

			failed := 0
			for _, res := range results {
				if res.Err != nil && res.Path == "" {
					failed++
				}
			}
			logger.Info("export finished",
				logging.Int("exported", len(results)-failed),
				logging.Int("failed", failed),
			)

			if flags.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), exportResultsJSON(results)); err != nil {
					return err
				}
			} else {
				renderExportResults(cmd, results, failed)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d exports failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.edited, "edited", false, "Export the edited version instead of the original")
	cmd.Flags().BoolVar(&flags.live, "live", false, "Also export the live photo companion video")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "Replace files that already exist at the destination")
	cmd.Flags().BoolVar(&flags.noIncrement, "no-increment", false, "Fail instead of adding a \" (N)\" suffix when a name is taken")
	cmd.Flags().StringSliceVar(&flags.sidecars, "sidecar", nil, "Write a metadata sidecar (json, xmp); repeatable")
	cmd.Flags().BoolVar(&flags.usePhotos, "use-photos-export", false, "Ask the Photos application to export the file")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Timeout for --use-photos-export (default from config)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Number of concurrent exports (default from config)")
	cmd.Flags().StringVar(&flags.filename, "filename", "", "Destination file name (single uuid only)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

// buildExportOptions layers command flags over the config's export defaults.
// --overwrite implies no increment unless the config asked for both.
func buildExportOptions(cmd *cobra.Command, cfg *config.Config, flags exportFlags) (export.Options, error) {
	opts := export.Options{
		Filename:      strings.TrimSpace(flags.filename),
		Edited:        cfg.Export.Edited,
		Overwrite:     cfg.Export.Overwrite,
		Increment:     cfg.Export.Increment,
		SidecarJSON:   cfg.Export.SidecarJSON,
		SidecarXMP:    cfg.Export.SidecarXMP,
		LivePhoto:     cfg.Export.LivePhoto,
		UseHostExport: cfg.Export.UseHostExport,
		Timeout:       cfg.HostTimeout(),
	}
	changed := cmd.Flags().Changed
	if changed("edited") {
		opts.Edited = flags.edited
	}
	if changed("live") {
		opts.LivePhoto = flags.live
	}
	if changed("overwrite") {
		opts.Overwrite = flags.overwrite
		if flags.overwrite {
			opts.Increment = false
		}
	}
	if changed("no-increment") {
		opts.Increment = !flags.noIncrement
	}
	if changed("use-photos-export") {
		opts.UseHostExport = flags.usePhotos
	}
	if changed("timeout") {
		if flags.timeout <= 0 {
			return export.Options{}, services.Wrap(services.ErrInvalidOptions, "cli", "export", "--timeout must be positive", nil)
		}
		opts.Timeout = flags.timeout
	}
	if changed("sidecar") {
		opts.SidecarJSON, opts.SidecarXMP = false, false
		for _, kind := range flags.sidecars {
			switch strings.ToLower(strings.TrimSpace(kind)) {
			case "json":
				opts.SidecarJSON = true
			case "xmp":
				opts.SidecarXMP = true
			default:
				return export.Options{}, services.Wrap(services.ErrInvalidOptions, "cli", "export",
					fmt.Sprintf("unknown sidecar %q (want json or xmp)", kind), nil)
			}
		}
	}
	return opts, nil
}

func exportStatus(res export.Result) statusKind {
	switch {
	case res.Err == nil:
		return statusOK
	case res.Path != "":
		return statusWarn
	default:
		return statusError
	}
}

func exportResultsJSON(results []export.Result) []exportResultJSON {
	out := make([]exportResultJSON, 0, len(results))
	for _, res := range results {
		entry := exportResultJSON{
			Status:   strings.ToLower(statusKindLabel(exportStatus(res))),
			Path:     res.Path,
			LivePath: res.LivePath,
			Sidecars: res.Sidecars,
		}
		if res.Asset != nil {
			entry.UUID = res.Asset.UUID
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		out = append(out, entry)
	}
	return out
}

func renderExportResults(cmd *cobra.Command, results []export.Result, failed int) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		id := "-"
		if res.Asset != nil {
			id = res.Asset.UUID
		}
		detail := ""
		if res.Err != nil {
			detail = services.Kind(res.Err)
		} else if res.LivePath != "" || len(res.Sidecars) > 0 {
			extras := make([]string, 0, 1+len(res.Sidecars))
			if res.LivePath != "" {
				extras = append(extras, filepath.Base(res.LivePath))
			}
			for _, sidecar := range res.Sidecars {
				extras = append(extras, filepath.Base(sidecar))
			}
			detail = "+ " + strings.Join(extras, ", ")
		}
		rows = append(rows, []string{
			id,
			statusKindLabel(exportStatus(res)),
			valueOrDash(res.Path),
			valueOrDash(detail),
		})
	}
	writeTable(out, []string{"UUID", "Status", "Path", "Detail"}, rows)

	for _, res := range results {
		if res.Err == nil {
			continue
		}
		label := "-"
		if res.Asset != nil {
			label = res.Asset.UUID
		}
		fmt.Fprintln(out, renderStatusLine(label, exportStatus(res), res.Err.Error(), colorize))
	}

	summary := fmt.Sprintf("%d of %d exported", len(results)-failed, len(results))
	kind := statusOK
	if failed > 0 {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Export", kind, summary, colorize))
}
