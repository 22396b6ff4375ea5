package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/config"
)

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the omd2tex command tree
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "omd2tex",
		Short: "Convert Obsidian notes to LaTeX documents",
		Long: fmt.Sprintf(`omd2tex converts Obsidian-flavoured Markdown notes into LaTeX.

Embedded notes are resolved recursively, block references become \cref
cross-references and every document is written with its own Makefile.

Examples:
  omd2tex render "Master Thesis"
  omd2tex render --dry-run Report
  omd2tex check Report
  omd2tex browse Report
  omd2tex status

Configuration:
  Config file: %s
  State file:  %s`, config.ConfigPath(), config.StateFilePath()),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.configPath != "" {
				path := opts.configPath
				config.ConfigPath = func() string { return path }
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default "+config.ConfigPath()+")")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "also log to stderr at debug level")

	root.AddCommand(renderCmd(opts))
	root.AddCommand(checkCmd(opts))
	root.AddCommand(browseCmd(opts))
	root.AddCommand(diffCmd(opts))
	root.AddCommand(statusCmd(opts))
	root.AddCommand(logsCmd())
	root.AddCommand(configCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "omd2tex v%s\n", version)
		},
	})

	return root
}
