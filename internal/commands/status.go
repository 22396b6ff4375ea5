package commands

import (
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/config"
	"github.com/gerunddev/omd2tex/internal/state"
	"github.com/gerunddev/omd2tex/internal/tui"
)

func statusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Display exported documents and whether they are out of date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			p := tea.NewProgram(tui.InitStatusModel(), tea.WithInput(os.Stdin))

			go func() {
				st, err := state.Load(config.StateFilePath())
				if err != nil {
					p.Send(tui.StatusMsg{Err: fmt.Errorf("error loading state: %w", err)})
					return
				}
				p.Send(tui.StatusMsg{Data: statusData(cfg, st)})
			}()

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error: %w", err)
			}
			return nil
		},
	}
}

// statusData compares every recorded export with its sources on disk
func statusData(cfg *config.Config, st *state.State) *tui.StatusData {
	data := &tui.StatusData{
		SearchDir:     cfg.SearchDir,
		ExportDir:     cfg.ExportDir,
		DocumentClass: cfg.DocumentClass,
		TrackedFiles:  len(st.Files),
	}

	for name, doc := range st.Documents {
		changed, err := st.DocumentChanged(name)
		data.Documents = append(data.Documents, tui.DocumentStatus{
			Name:       name,
			Output:     doc.Output,
			Sources:    len(doc.Sources),
			ExportedAt: doc.ExportedAt,
			Changed:    changed,
			Err:        err,
		})
	}
	sort.Slice(data.Documents, func(i, j int) bool {
		return data.Documents[i].Name < data.Documents[j].Name
	})
	return data
}
