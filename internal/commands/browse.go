package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/tui"
)

func browseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <note>",
		Short: "Browse the parsed element tree of a note with a LaTeX preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open()
			if err != nil {
				return err
			}
			defer s.close()

			opts := s.cfg.DocumentOptions()
			opts.CreatePreamble = false
			opts.Makefile = false
			opts.Outline = true
			r := document.NewRenderer(s.finder, opts, s.log)

			p := tea.NewProgram(tui.InitBrowseModel(), tea.WithAltScreen(), tea.WithInput(os.Stdin))

			go func() {
				res, err := r.RenderFile(noteName(args[0]))
				if err != nil {
					p.Send(tui.BrowseMsg{Err: err})
					return
				}
				p.Send(tui.BrowseMsg{Data: &tui.BrowseData{
					Document:   res.Name,
					Entries:    res.Outline,
					References: len(res.References),
					Unresolved: res.Unresolved,
				}})
			}()

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error: %w", err)
			}
			return nil
		},
	}
}
