package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"orgnav-cli/internal/format"
	"orgnav-cli/internal/navigate"
	"orgnav-cli/internal/org"
	"orgnav-cli/internal/picker"
	"orgnav-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type App struct {
	ConfigFile string
	StatePath  string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "orgnav",
		Short:        "Fuzzy outline navigation, refile and clock-in for org files",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Interactive jump across a whole file
  orgnav notes.org

  # Refile the heading "inbox/call dentist" somewhere under "projects"
  orgnav refile notes.org --from "inbox/call dentist"

  # Repeat the last refile for another heading
  orgnav refile-again notes.org --from "inbox/buy stamps"

  # Scriptable heading listing
  orgnav headings notes.org --max-level 2
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// A bare file argument behaves like `orgnav jump <file>`.
			if len(args) == 1 {
				return runJump(cmd, app, args[0], jumpOptions{})
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig(app)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("ORGNAV_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/orgnav/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.StatePath, "state", envOr("ORGNAV_STATE", ""), "Navigation state db (default: $XDG_CONFIG_HOME/orgnav/state.sqlite)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newJumpCmd(app))
	cmd.AddCommand(newRefileCmd(app))
	cmd.AddCommand(newRefileAgainCmd(app))
	cmd.AddCommand(newClockCmd(app))
	cmd.AddCommand(newAncestorsCmd(app))
	cmd.AddCommand(newHeadingsCmd(app))
	cmd.AddCommand(newPickCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func (app *App) stateStore() (store.Store, error) {
	path := app.StatePath
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return store.Store{}, err
		}
		path = p
	}
	return store.Store{Path: path}, nil
}

func loadService(file string) (*navigate.Service, error) {
	doc, err := org.Load(file)
	if err != nil {
		return nil, err
	}
	return navigate.NewService(doc, configDefaults()), nil
}

// resolvePath turns a "/"-separated heading chain into a Position; empty
// input means "no anchor" (whole document).
func resolvePath(doc *org.Document, path string) (org.Position, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return org.None, nil
	}
	return doc.FindPath(strings.Split(path, "/"))
}

// runPicker drives one interactive session with the file watcher alongside,
// so external edits surface in the picker instead of silently corrupting a
// later action.
func runPicker(svc *navigate.Service, sctx *navigate.Context) (picker.Result, error) {
	p := tea.NewProgram(picker.New(svc, sctx), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := org.Watch(gctx, svc.Document(), func() {
			p.Send(picker.DocumentChangedMsg{})
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	var res picker.Result
	g.Go(func() error {
		final, err := p.Run()
		cancel()
		if err != nil {
			return err
		}
		res = final.(picker.Model).Result()
		return nil
	})

	if err := g.Wait(); err != nil {
		return picker.Result{Aborted: true}, err
	}
	return res, nil
}
