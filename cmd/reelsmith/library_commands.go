package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelsmith/internal/config"
	"reelsmith/internal/library"
	"reelsmith/internal/media/ffprobe"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the background clip and music catalog",
	}
	cmd.AddCommand(newLibraryAddCommand(ctx))
	cmd.AddCommand(newLibraryScanCommand(ctx))
	cmd.AddCommand(newLibraryListCommand(ctx))
	cmd.AddCommand(newLibraryRemoveCommand(ctx))
	return cmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var topic string

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Catalog media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			probe := ffprobe.Binary(ctx.configValue().FFprobeBinary())
			out := cmd.OutOrStdout()
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				if abs, absErr := filepath.Abs(path); absErr == nil {
					path = abs
				}
				kind, err := resolveKind(kindFlag, path)
				if err != nil {
					return err
				}
				info, err := probe(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("probe %s: %w", path, err)
				}
				asset, err := store.Add(cmd.Context(), library.Asset{
					Path:     path,
					Kind:     kind,
					Topic:    topic,
					Duration: info.DurationSeconds(),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added #%d %s (%s, topic %q)\n", asset.ID, asset.Path, asset.Kind, asset.Topic)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Asset kind: video or music (default: from extension)")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic the clip illustrates")
	return cmd
}

func resolveKind(flag, path string) (library.Kind, error) {
	if strings.TrimSpace(flag) != "" {
		return library.ParseKind(flag)
	}
	kind, ok := library.KindForPath(path)
	if !ok {
		return "", fmt.Errorf("cannot infer kind of %s; pass --kind", path)
	}
	return kind, nil
}

func newLibraryScanCommand(ctx *commandContext) *cobra.Command {
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Catalog every clip under <dir>/<topic>/ and track under <dir>/music/",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg := ctx.configValue()
			root := cfg.Paths.AssetDir
			if len(args) == 1 {
				expanded, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				root = expanded
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			var probe ffprobe.ProbeFunc
			if !noProbe {
				probe = ffprobe.Binary(cfg.FFprobeBinary())
			}
			result, err := store.Scan(cmd.Context(), root, probe)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %s: %d catalogued, %d skipped\n", root, result.Added, len(result.Skipped))
			for _, skipped := range result.Skipped {
				fmt.Fprintf(out, "  skipped %s\n", skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip ffprobe and record zero durations")
	return cmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var topic string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			var kind library.Kind
			if strings.TrimSpace(kindFlag) != "" {
				if kind, err = library.ParseKind(kindFlag); err != nil {
					return err
				}
			}
			assets, err := store.List(cmd.Context(), kind, topic)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(assets) == 0 {
				fmt.Fprintln(out, "No assets catalogued")
				return nil
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{
					strconv.FormatInt(a.ID, 10),
					string(a.Kind),
					a.Topic,
					formatSeconds(a.Duration),
					a.AddedAt.Local().Format(time.DateTime),
					a.Path,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Topic", "Duration", "Added", "Path"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Filter by kind: video or music")
	cmd.Flags().StringVar(&topic, "topic", "", "Filter by topic")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove assets from the catalog (files are kept)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, arg := range args {
				id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
				if err != nil {
					return fmt.Errorf("invalid asset id %q", arg)
				}
				if err := store.Remove(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed #%d\n", id)
			}
			return nil
		},
	}
}
