package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"orgnav-cli/internal/navigate"
	"orgnav-cli/internal/picker"

	"github.com/spf13/cobra"
)

func newPickCmd(app *App) *cobra.Command {
	var depth int
	var under string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "pick <file>",
		Short: "Block until a heading is picked and print it (capture integration)",
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

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			opts := navigate.Options{
				Source: navigate.SourceDescendants,
				Anchor: anchor,
				Label:  "Pick a heading",
			}
			if depth > 0 {
				opts.Depth = &depth
			}
			pos, err := svc.SearchSync(ctx, opts, picker.Runner(svc))
			if err != nil {
				var cancelled navigate.CancelledError
				if errors.As(err, &cancelled) {
					return nil
				}
				return writeErr(cmd, err)
			}

			path, err := svc.Document().OutlinePath(pos)
			if err != nil {
				return writeErr(cmd, err)
			}
			line, err := svc.Document().Line(pos)
			if err != nil {
				return writeErr(cmd, err)
			}
			if st, err := app.stateStore(); err == nil {
				_ = st.AddRecentPick(context.Background(), svc.Document().Path(), path, recentPicksKeep())
			}
			return writeOut(cmd, app, map[string]any{
				"heading": strings.Join(path, "/"),
				"line":    line,
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "Levels below the anchor to show (default from config)")
	cmd.Flags().StringVar(&under, "under", "", "Anchor heading path; default whole document")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Fail with a timeout after this long (0 = wait)")
	return cmd
}
