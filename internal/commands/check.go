package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/element"
	"github.com/gerunddev/omd2tex/internal/styles"
)

func checkCmd(root *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <note>...",
		Short: "Parse notes and report references, inclusions and problems",
		Long: `Parse each note with everything it embeds without writing anything. Reports
the element structure, the cross-reference targets found, references that do
not resolve and the files the document is built from.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open()
			if err != nil {
				return err
			}
			defer s.close()

			opts := s.cfg.DocumentOptions()
			opts.CreatePreamble = false
			opts.Makefile = false
			r := document.NewRenderer(s.finder, opts, s.log)

			failed := 0
			for _, arg := range args {
				res, err := r.RenderFile(noteName(arg))
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), styles.ErrorStyle.Render("✗ "+arg+": "+err.Error()))
					failed++
					continue
				}
				writeReport(cmd.OutOrStdout(), res)
				if strict && len(res.Unresolved) > 0 {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d note(s) failed the check", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat unresolved references as failures")
	return cmd
}

// writeReport prints a summary of one parsed document
func writeReport(w io.Writer, res *document.Result) {
	fmt.Fprintln(w, styles.TitleStyle.Render(res.Name))

	counts := map[element.Kind]int{}
	var kinds []element.Kind
	element.Walk(res.Elements, func(el element.Element, _ int) {
		if counts[el.Kind()] == 0 {
			kinds = append(kinds, el.Kind())
		}
		counts[el.Kind()]++
	})
	slices.Sort(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], styles.Kind(k)))
	}
	fmt.Fprintf(w, "  %s %s\n", styles.LabelStyle.Render("Elements:  "), strings.Join(parts, ", "))

	refs := make([]string, 0, len(res.References))
	for ref, kind := range res.References {
		refs = append(refs, fmt.Sprintf("%s:%s", kind, ref))
	}
	slices.Sort(refs)
	fmt.Fprintf(w, "  %s %s\n", styles.LabelStyle.Render("References:"), styles.ValueStyle.Render(orNone(refs)))

	if len(res.Citations) > 0 {
		fmt.Fprintf(w, "  %s %s\n", styles.LabelStyle.Render("Citations: "), styles.ValueStyle.Render(strings.Join(res.Citations, ", ")))
	}

	fmt.Fprintf(w, "  %s\n", styles.LabelStyle.Render("Sources:"))
	for _, src := range res.Sources {
		fmt.Fprintf(w, "    %s\n", styles.DimStyle.Render(src))
	}

	if len(res.Unresolved) > 0 {
		fmt.Fprintf(w, "  %s\n", styles.WarningStyle.Render(fmt.Sprintf("⚠ %d unresolved reference(s): %s", len(res.Unresolved), strings.Join(res.Unresolved, ", "))))
	} else {
		fmt.Fprintf(w, "  %s\n", styles.SuccessStyle.Render("✓ All references resolve"))
	}
	fmt.Fprintln(w)
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
