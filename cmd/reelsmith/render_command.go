package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one video",
		Long: `Render one video from a narration, a caption script, library footage, and
optional music. Request fields come from --request and/or flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			req, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			result, err := ctx.engine().Render(cmd.Context(), req)
			if err != nil {
				if result.RequestID != "" {
					return fmt.Errorf("request %s: %w", result.RequestID, err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Render complete", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Output", statusOK, result.Output, colorize))
			fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, formatSeconds(result.Duration), colorize))
			if result.Subtitles != "" {
				fmt.Fprintln(out, renderStatusLine("Subtitles", statusInfo, result.Subtitles, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Request", statusInfo, result.RequestID, colorize))
			fmt.Fprintln(out, renderStatusLine("Seed", statusInfo, fmt.Sprint(result.Seed), colorize))
			for _, note := range result.Degraded {
				fmt.Fprintln(out, renderStatusLine("Degraded", statusWarn, note, colorize))
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3fs", v)
}
