package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"asciivid/internal/config"
	"asciivid/internal/outputs"
	"asciivid/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency, directory and history status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *outputs.Store) error {
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				printSection(stdout, "Dependencies", colorize)
				for _, line := range dependencyLines(preflight.CheckSystemDeps(cfg), colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout)

				printSection(stdout, "Preflight", colorize)
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					fmt.Fprintln(stdout, preflightLine(result, colorize))
				}
				fmt.Fprintln(stdout)

				printSection(stdout, "History", colorize)
				records := store.GetAll(cmd.Context())
				var total int64
				for _, rec := range records {
					total += rec.Size
				}
				kind := statusOK
				if len(records) >= store.Capacity() {
					kind = statusWarn
				}
				fmt.Fprintln(stdout, renderStatusLine("Backend", statusInfo, cfg.Outputs.Backend, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Saved outputs", kind,
					fmt.Sprintf("%d of %d (%s)", len(records), store.Capacity(), outputs.FormatSize(total)), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Quota enforced", statusInfo, yesNo(cfg.Outputs.MaxBytes > 0), colorize))
				return nil
			})
		},
	}
}

func printSection(w io.Writer, title string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(w, line)
	}
}
