package cli

import (
	"strings"

	"orgnav-cli/internal/navigate"

	"github.com/spf13/cobra"
)

func newClockCmd(app *App) *cobra.Command {
	var depth int
	var under string

	cmd := &cobra.Command{
		Use:   "clock <file>",
		Short: "Pick a heading and clock in (CLOCK stamp in its LOGBOOK drawer)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			anchor, err := resolvePath(svc.Document(), under)
			if err != nil {
				return writeErr(cmd, err)
			}

			opts := navigate.Options{
				Source:        navigate.SourceDescendants,
				Anchor:        anchor,
				DefaultAction: navigate.ActionClockIn,
				Label:         "Clock in",
			}
			if depth > 0 {
				opts.Depth = &depth
			}
			sctx, err := svc.NewSearch(opts)
			if err != nil {
				return writeErr(cmd, err)
			}

			res, err := runPicker(svc, sctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Aborted {
				return nil
			}
			if res.Action != navigate.ActionClockIn {
				return reportPosition(cmd, app, svc, res.Pos)
			}
			path, err := svc.Document().OutlinePath(res.Pos)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"clockedIn": strings.Join(path, "/"),
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "Levels below the anchor to show (default from config)")
	cmd.Flags().StringVar(&under, "under", "", "Anchor heading path; default whole document")
	return cmd
}
