package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelsmith/internal/render"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show captions, clip selection, and music without encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			req, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			plan, err := ctx.engine().Plan(cmd.Context(), req)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func printPlan(cmd *cobra.Command, plan render.Plan) {
	out := cmd.OutOrStdout()
	s := plan.Settings

	fmt.Fprintf(out, "Output:    %s\n", s.Output)
	fmt.Fprintf(out, "Narration: %s (%s)\n", plan.Narration.Path, formatSeconds(plan.Narration.Duration))
	fmt.Fprintf(out, "Canvas:    %dx%d @ %d fps\n", s.Canvas.Width, s.Canvas.Height, s.Canvas.FrameRate)
	fmt.Fprintf(out, "Seed:      %d\n", s.Seed)
	music := plan.Music
	if music == "" {
		music = "none"
	}
	fmt.Fprintf(out, "Music:     %s\n", music)
	fmt.Fprintf(out, "Branding:  %s\n", yesNo(s.Intro != "" || s.Outro != ""))
	fmt.Fprintln(out)

	unitRows := make([][]string, 0, len(plan.Units))
	for _, u := range plan.Units {
		unitRows = append(unitRows, []string{
			fmt.Sprint(u.Index + 1),
			formatSeconds(u.Start),
			formatSeconds(u.End),
			u.Text,
		})
	}
	fmt.Fprintf(out, "Captions (%s):\n", s.Mode)
	fmt.Fprintln(out, renderTable([]string{"#", "Start", "End", "Text"}, unitRows, []columnAlignment{alignRight, alignRight, alignRight, alignLeft}))
	fmt.Fprintln(out)

	clipRows := make([][]string, 0, len(plan.Background.Clips))
	for i, c := range plan.Background.Clips {
		clipRows = append(clipRows, []string{
			fmt.Sprint(i + 1),
			filepath.Base(c.Source),
			formatSeconds(c.Length),
			formatSeconds(c.Trim),
		})
	}
	fmt.Fprintf(out, "Background (%d pieces, %d passes):\n", len(plan.Background.Pieces), plan.Background.Repeats)
	fmt.Fprintln(out, renderTable([]string{"#", "Clip", "Length", "Used"}, clipRows, []columnAlignment{alignRight, alignLeft, alignRight, alignRight}))
	for _, skipped := range plan.Background.Skipped {
		fmt.Fprintf(out, "Skipped unreadable clip: %s\n", skipped)
	}
}
