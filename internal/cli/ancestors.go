package cli

import (
	"orgnav-cli/internal/navigate"
	"orgnav-cli/internal/org"

	"github.com/spf13/cobra"
)

func newAncestorsCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "ancestors <file>",
		Short: "Walk the ancestor chain of a heading (nearest first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			anchor, err := resolvePath(svc.Document(), at)
			if err != nil {
				return writeErr(cmd, err)
			}
			if anchor == org.None {
				return writeErr(cmd, missingFlagError{flag: "--at"})
			}

			sctx, err := svc.NewSearch(navigate.Options{
				Source:        navigate.SourceAncestors,
				Anchor:        anchor,
				DefaultAction: navigate.ActionGoto,
				Label:         "Ancestors",
			})
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
			return reportPosition(cmd, app, svc, res.Pos)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Heading path whose ancestors to show")
	return cmd
}
