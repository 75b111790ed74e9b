package cli

import (
	"strings"

	"orgnav-cli/internal/navigate"

	"github.com/spf13/cobra"
)

func newHeadingsCmd(app *App) *cobra.Command {
	var under string
	var minLevel, maxLevel int

	cmd := &cobra.Command{
		Use:   "headings <file>",
		Short: "List headings as JSON (scriptable, no picker)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc := svc.Document()

			anchor, err := resolvePath(doc, under)
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := doc.Descendants(anchor)
			if err != nil {
				return writeErr(cmd, err)
			}

			var lo, hi *int
			if minLevel > 0 {
				lo = &minLevel
			}
			if maxLevel > 0 {
				hi = &maxLevel
			}
			filtered, err := navigate.FilterByDepth(doc, raw, lo, hi)
			if err != nil {
				return writeErr(cmd, err)
			}

			type row struct {
				Heading string `json:"heading"`
				Level   int    `json:"level"`
				Line    int    `json:"line"`
			}
			rows := make([]row, 0, len(filtered))
			for _, p := range filtered {
				path, err := doc.OutlinePath(p)
				if err != nil {
					return writeErr(cmd, err)
				}
				lvl, err := doc.Level(p)
				if err != nil {
					return writeErr(cmd, err)
				}
				line, err := doc.Line(p)
				if err != nil {
					return writeErr(cmd, err)
				}
				rows = append(rows, row{
					Heading: strings.Join(path, "/"),
					Level:   lvl,
					Line:    line,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}

	cmd.Flags().StringVar(&under, "under", "", "Anchor heading path; default whole document")
	cmd.Flags().IntVar(&minLevel, "min-level", 0, "Lowest heading level to include (0 = unbounded)")
	cmd.Flags().IntVar(&maxLevel, "max-level", 0, "Highest heading level to include (0 = unbounded)")
	return cmd
}
