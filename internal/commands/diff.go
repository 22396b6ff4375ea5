package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/diff"
	"github.com/gerunddev/omd2tex/internal/export"
	"github.com/gerunddev/omd2tex/internal/styles"
)

func diffCmd(root *rootOptions) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "diff <note>",
		Short: "Show how a fresh render differs from the exported main.tex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open()
			if err != nil {
				return err
			}
			defer s.close()

			format := diff.FormatTerminal
			if plain {
				format = diff.FormatPlain
			}
			exporter := export.NewExporter(s.finder, s.cfg.DocumentOptions(), export.Options{
				ExportDir:  s.cfg.ExportDir,
				DryRun:     true,
				DiffFormat: format,
			}, nil, s.log)

			res, err := exporter.Export(noteName(args[0]))
			if err != nil {
				return err
			}
			if res.Diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ "+res.Output+" is up to date"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Diff)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a plain unified diff")
	return cmd
}
