package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reelsmith/internal/captions"
	"reelsmith/internal/logging"
	"reelsmith/internal/preflight"
	"reelsmith/internal/staging"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, directories, fonts, and the asset catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0

			section := func(title string) {
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader(title, colorize) {
					fmt.Fprintln(out, line)
				}
			}

			section("Tools")
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind, detail := statusOK, status.Path
				if !status.Available {
					kind, detail = statusError, status.Detail
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			section("Directories")
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			section("Captions")
			style := captions.Style{
				FontPath:    cfg.Captions.FontPath,
				FontSize:    float64(cfg.Captions.FontSize),
				Color:       cfg.Captions.Color,
				ShadowColor: cfg.Captions.ShadowColor,
				Width:       cfg.Render.Width,
				BandHeight:  cfg.Captions.BandHeight,
			}
			switch renderer, err := captions.NewRenderer(style, logging.NewNop()); {
			case err != nil:
				failed++
				fmt.Fprintln(out, renderStatusLine("Font", statusError, err.Error(), colorize))
			case renderer.FellBack():
				fmt.Fprintln(out, renderStatusLine("Font", statusWarn, cfg.Captions.FontPath+" unreadable; Go Regular will be used", colorize))
			case cfg.Captions.FontPath == "":
				fmt.Fprintln(out, renderStatusLine("Font", statusOK, "built-in Go Regular", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Font", statusOK, cfg.Captions.FontPath, colorize))
			}

			section("Library")
			if _, err := os.Stat(cfg.Paths.LibraryPath); err != nil {
				fmt.Fprintln(out, renderStatusLine("Catalog", statusInfo, "not created (asset_dir is scanned directly)", colorize))
			} else if store, err := ctx.openStore(); err != nil {
				failed++
				fmt.Fprintln(out, renderStatusLine("Catalog", statusError, err.Error(), colorize))
			} else if assets, err := store.List(cmd.Context(), "", ""); err != nil {
				failed++
				fmt.Fprintln(out, renderStatusLine("Catalog", statusError, err.Error(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Catalog", statusOK, fmt.Sprintf("%d assets", len(assets)), colorize))
			}

			dirs, err := staging.ListDirectories(cfg.Paths.WorkDir)
			if err == nil {
				var total int64
				for _, d := range dirs {
					total += d.Size
				}
				kind := statusOK
				if len(dirs) > 0 {
					kind = statusInfo
				}
				fmt.Fprintln(out, renderStatusLine("Work dirs", kind, fmt.Sprintf("%d (%d KiB)", len(dirs), total/1024), colorize))
			}

			fmt.Fprintln(out)
			if failed > 0 {
				return fmt.Errorf("%d checks failed", failed)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
