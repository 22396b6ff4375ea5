package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/config"
	"github.com/gerunddev/omd2tex/internal/styles"
)

func logsCmd() *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries and the last export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			activity, err := ParseLogFile(cfg.LogFile, lines)
			if err != nil {
				return fmt.Errorf("unable to read log file: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styles.TitleStyle.Render("Recent Activity"))
			if activity.LastExport.IsZero() {
				fmt.Fprintln(w, styles.DimStyle.Render("  No export in the last entries"))
			} else {
				fmt.Fprintf(w, "  Last export: %s %s\n",
					styles.ValueStyle.Render(activity.LastDocument),
					styles.DimStyle.Render(humanize.Time(activity.LastExport)))
				fmt.Fprintf(w, "  Exports:     %s\n", styles.ValueStyle.Render(fmt.Sprint(activity.Exports)))
			}
			if activity.Warnings > 0 {
				fmt.Fprintln(w, styles.WarningStyle.Render(fmt.Sprintf("  ⚠ %d warning(s)", activity.Warnings)))
			}
			fmt.Fprintln(w)
			for _, line := range activity.Lines {
				fmt.Fprintln(w, "  "+line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "number of log lines to show")
	return cmd
}
