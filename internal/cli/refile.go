package cli

import (
	"context"
	"strings"
	"time"

	"orgnav-cli/internal/navigate"
	"orgnav-cli/internal/org"
	"orgnav-cli/internal/picker"

	"github.com/spf13/cobra"
)

func newRefileCmd(app *App) *cobra.Command {
	var from string
	var keep bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "refile <file>",
		Short: "Move a heading (and its subtree) under a picked destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc := svc.Document()

			src, err := resolvePath(doc, from)
			if err != nil {
				return writeErr(cmd, err)
			}
			if src == org.None {
				// No --from: pick the source first via the synchronous bridge.
				src, err = pickPosition(svc, "Refile what?", timeout)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			srcPath, err := doc.OutlinePath(src)
			if err != nil {
				return writeErr(cmd, err)
			}

			action := navigate.ActionRefile
			if keep {
				action = navigate.ActionRefileKeep
			}
			sctx, err := svc.NewSearch(navigate.Options{
				Source:        navigate.SourceDescendants,
				DefaultAction: action,
				Label:         "Refile to",
				RefileSource:  src,
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
			if res.Action != action {
				// The session ended some other way (e.g. create-child):
				// no refile happened, so don't record a mark.
				return reportPosition(cmd, app, svc, res.Pos)
			}

			destPath, err := doc.OutlinePath(res.Pos)
			if err != nil {
				return writeErr(cmd, err)
			}
			if st, err := app.stateStore(); err == nil {
				// Remember the destination so refile-again works across runs.
				_ = st.SaveRefileMark(context.Background(), doc.Path(), destPath)
			}
			return writeOut(cmd, app, map[string]any{
				"from": strings.Join(srcPath, "/"),
				"to":   strings.Join(destPath, "/"),
				"kept": keep,
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source heading path; picked interactively when omitted")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave the source in place (copy instead of move)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the source picker after this long (0 = wait)")
	return cmd
}

func newRefileAgainCmd(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "refile-again <file>",
		Short: "Refile another heading to the last refile destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc := svc.Document()

			src, err := resolvePath(doc, from)
			if err != nil {
				return writeErr(cmd, err)
			}
			if src == org.None {
				return writeErr(cmd, missingFlagError{flag: "--from"})
			}

			st, err := app.stateStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			markPath, ok, err := st.LoadRefileMark(context.Background(), doc.Path())
			if err != nil {
				return writeErr(cmd, err)
			}
			if ok {
				// A persisted mark that no longer resolves is reported, not
				// silently dropped: the user asked to repeat a specific move.
				mark, err := doc.FindPath(markPath)
				if err != nil {
					return writeErr(cmd, navigate.DocumentStateError{Op: "refile again", Err: err})
				}
				svc.SetRefileMark(mark)
			}

			dest, err := svc.RefileAgain(src)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"from": from,
				"to":   dest,
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source heading path")
	return cmd
}

// pickPosition blocks on a whole-document return-result search.
func pickPosition(svc *navigate.Service, label string, timeout time.Duration) (org.Position, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return svc.SearchSync(ctx, navigate.Options{
		Source: navigate.SourceDescendants,
		Label:  label,
	}, picker.Runner(svc))
}
