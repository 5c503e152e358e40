package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"captionsync/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var requireRecognizer bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check external tools and working directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			problems := 0

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg, requireRecognizer) {
				kind := statusOK
				detail := status.Command
				switch {
				case !status.Available && status.Optional:
					kind = statusWarn
					detail = status.Detail
				case !status.Available:
					kind = statusError
					detail = status.Detail
					problems++
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					problems++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Transcript cache", statusInfo, yesNo(cfg.Cache.Enabled), colorize))

			if problems > 0 {
				return fmt.Errorf("%d checks failed", problems)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&requireRecognizer, "require-recognizer", false, "Treat a missing uvx as an error")
	return cmd
}
