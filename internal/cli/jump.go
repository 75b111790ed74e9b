package cli

import (
	"context"
	"strings"

	"orgnav-cli/internal/navigate"
	"orgnav-cli/internal/org"

	"github.com/spf13/cobra"
)

type jumpOptions struct {
	depth int // 0 = configured default
	query string
	under string
}

func newJumpCmd(app *App) *cobra.Command {
	var opts jumpOptions

	cmd := &cobra.Command{
		Use:   "jump <file>",
		Short: "Fuzzy-search headings and print the selected location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJump(cmd, app, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.depth, "depth", 0, "Levels below the anchor to show (default from config)")
	cmd.Flags().StringVar(&opts.query, "query", "", "Initial filter text")
	cmd.Flags().StringVar(&opts.under, "under", "", "Anchor heading path (e.g. \"projects/home\"); default whole document")
	return cmd
}

func runJump(cmd *cobra.Command, app *App, file string, opts jumpOptions) error {
	svc, err := loadService(file)
	if err != nil {
		return writeErr(cmd, err)
	}
	anchor, err := resolvePath(svc.Document(), opts.under)
	if err != nil {
		return writeErr(cmd, err)
	}

	sopts := navigate.Options{
		Source:        navigate.SourceDescendants,
		Anchor:        anchor,
		DefaultAction: navigate.ActionGoto,
		Label:         "Jump",
		InitialInput:  opts.query,
	}
	if opts.depth > 0 {
		sopts.Depth = &opts.depth
	}
	sctx, err := svc.NewSearch(sopts)
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
}

// reportPosition prints a selected heading as file:line plus its outline
// path, and remembers it as a recent pick.
func reportPosition(cmd *cobra.Command, app *App, svc *navigate.Service, pos org.Position) error {
	doc := svc.Document()
	path, err := doc.OutlinePath(pos)
	if err != nil {
		return writeErr(cmd, err)
	}
	line, err := doc.Line(pos)
	if err != nil {
		return writeErr(cmd, err)
	}

	if st, err := app.stateStore(); err == nil {
		// Best effort: recents power future shortcuts, never block a jump.
		_ = st.AddRecentPick(context.Background(), doc.Path(), path, recentPicksKeep())
	}

	return writeOut(cmd, app, map[string]any{
		"file":    doc.Path(),
		"line":    line,
		"heading": strings.Join(path, "/"),
	})
}
