package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/config"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var flags requestFlags
	var at float64
	var out string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Write a PNG still of the frame at a given time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			target := strings.TrimSpace(out)
			if target == "" {
				return errors.New("--out is required")
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return err
			}
			req, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if _, err := ctx.engine().Preview(cmd.Context(), req, at, expanded); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote preview at %s to %s\n", formatSeconds(at), expanded)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().Float64Var(&at, "at", 0, "Timeline position in seconds")
	cmd.Flags().StringVar(&out, "out", "", "Destination PNG file")
	return cmd
}
