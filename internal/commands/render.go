package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/diff"
	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/export"
	"github.com/gerunddev/omd2tex/internal/styles"
	"github.com/gerunddev/omd2tex/internal/tui"
)

type renderOptions struct {
	force   bool
	dryRun  bool
	project bool
	plain   bool
	stdout  bool
	class   string
}

func renderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:     "render <note>...",
		Aliases: []string{"export"},
		Short:   "Render notes into LaTeX documents in the export directory",
		Long: `Render each note with everything it embeds into <export_dir>/<note>/main.tex,
next to a Makefile that builds the PDF. Documents whose sources did not change
since their last export are skipped unless --force is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "render even when nothing changed")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would change without writing files")
	cmd.Flags().BoolVar(&opts.project, "project", false, "write embedded notes to separate .tex files")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "plain output without spinner or colored diffs")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print the LaTeX of a single note instead of exporting")
	cmd.Flags().StringVar(&opts.class, "class", "", "document class (article, report, book, beamer)")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions, args []string) error {
	s, err := root.open()
	if err != nil {
		return err
	}
	defer s.close()

	if opts.class != "" {
		s.cfg.DocumentClass = opts.class
		if err := s.cfg.Validate(); err != nil {
			return err
		}
	}
	docOpts := s.cfg.DocumentOptions()

	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = noteName(arg)
	}

	if opts.stdout {
		if len(names) != 1 {
			return fmt.Errorf("--stdout renders exactly one note, got %d", len(names))
		}
		res, err := document.NewRenderer(s.finder, docOpts, s.log).RenderFile(names[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Tex)
		return nil
	}

	format := diff.FormatTerminal
	if opts.plain {
		format = diff.FormatPlain
	}
	st := s.loadState()
	exporter := export.NewExporter(s.finder, docOpts, export.Options{
		ExportDir:  s.cfg.ExportDir,
		Project:    opts.project || s.cfg.Project,
		Force:      opts.force,
		DryRun:     opts.dryRun,
		DiffFormat: format,
	}, st, s.log)

	var summary *export.Summary
	if opts.plain {
		summary = exporter.ExportAll(names)
		fmt.Fprint(cmd.OutOrStdout(), tui.SummaryView(summary, opts.dryRun))
	} else {
		if opts.dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render("(dry run - no files will be written)"))
		}
		p := tea.NewProgram(tui.InitExportModel(len(names), opts.dryRun), tea.WithInput(os.Stdin), tea.WithOutput(cmd.OutOrStdout()))
		var err error
		summary, err = awaitExport(p.Run, func() *export.Summary { return exporter.ExportAll(names) }, func(sm *export.Summary) {
			p.Send(tui.ExportMsg{Summary: sm})
		})
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}

	if !opts.dryRun {
		if err := s.saveState(st); err != nil {
			return err
		}
	}
	if len(summary.Errors) > 0 {
		return fmt.Errorf("%d document(s) failed", len(summary.Errors))
	}
	return nil
}

// awaitExport runs work alongside the progress UI. The summary is returned only once
// work has finished, even when the UI quits first, so state is never saved mid-write.
func awaitExport(run func() (tea.Model, error), work func() *export.Summary, notify func(*export.Summary)) (*export.Summary, error) {
	done := make(chan *export.Summary, 1)
	go func() {
		sm := work()
		done <- sm
		notify(sm)
	}()
	_, err := run()
	summary := <-done
	return summary, err
}
