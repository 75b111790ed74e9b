package picker

import (
	"fmt"
	"strings"

	"orgnav-cli/internal/navigate"
	"orgnav-cli/internal/org"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DocumentChangedMsg is sent by the file watcher when the document changed
// on disk. The session stays open; operations will fail with a document
// state error until the caller reloads.
type DocumentChangedMsg struct{}

// Result is what a finished picker session produced.
type Result struct {
	Action  navigate.Action
	Pos     org.Position
	Aborted bool
}

type mode int

const (
	modePick mode = iota
	modePrompt
)

type promptKind int

const (
	promptRename promptKind = iota
	promptChild
)

// Model is one picker session over the active search context. Refinement
// actions swap the context (and candidate set) in place; terminal actions
// quit with a Result.
type Model struct {
	svc  *navigate.Service
	ctx  *navigate.Context
	list list.Model
	keys keyMap

	mode      mode
	prompt    textinput.Model
	promptFor promptKind
	promptPos org.Position

	errText string
	result  Result
	width   int
	height  int
}

// New builds a picker session for ctx. Candidates are loaded eagerly; a
// load failure surfaces in the footer with an empty list.
func New(svc *navigate.Service, ctx *navigate.Context) Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "> "

	m := Model{
		svc:    svc,
		ctx:    ctx,
		list:   l,
		keys:   defaultKeyMap(),
		prompt: ti,
		result: Result{Aborted: true},
	}
	m.reload(ctx)
	return m
}

// Result returns the session outcome; valid after the program finished.
func (m Model) Result() Result { return m.result }

// Err returns the footer error text, if any.
func (m Model) Err() string { return m.errText }

func (m *Model) reload(ctx *navigate.Context) {
	m.ctx = ctx
	cands, err := m.svc.Candidates(ctx)
	if err != nil {
		m.errText = err.Error()
		m.list.SetItems(nil)
		return
	}
	items := make([]list.Item, 0, len(cands))
	for _, c := range cands {
		items = append(items, candidateItem{c: c})
	}
	m.errText = ""
	m.list.SetItems(items)
	m.list.ResetSelected()
	if strings.TrimSpace(ctx.Input) != "" {
		// Refinement sessions keep the free-text input the user had typed.
		m.list.SetFilterText(ctx.Input)
	} else {
		m.list.ResetFilter()
	}
}

func (m Model) selected() (org.Position, bool) {
	it, ok := m.list.SelectedItem().(candidateItem)
	if !ok {
		return org.None, false
	}
	return it.c.Pos, true
}

func (m Model) input() string {
	return m.list.FilterInput.Value()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 4 // title + context + footer
		if h < 3 {
			h = 3
		}
		m.list.SetSize(msg.Width, h)
		return m, nil

	case DocumentChangedMsg:
		m.errText = "document changed on disk; reopen to refresh"
		return m, nil

	case tea.KeyMsg:
		if m.mode == modePrompt {
			return m.updatePrompt(msg)
		}
		return m.updatePick(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter input is focused, every key belongs to it (enter
	// applies, esc cancels) - the action keys only fire outside filtering.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.svc.Cancel(m.ctx)
		m.result = Result{Aborted: true}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		pos, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.dispatch(m.ctx.DefaultAction, pos)

	case key.Matches(msg, m.keys.Explore):
		if pos, ok := m.selected(); ok {
			return m.dispatch(navigate.ActionExplore, pos)
		}
		return m, nil

	case key.Matches(msg, m.keys.ExploreParent):
		return m.dispatch(navigate.ActionExploreParent, org.None)

	case key.Matches(msg, m.keys.Ancestors):
		if pos, ok := m.selected(); ok {
			return m.dispatch(navigate.ActionExploreAncestors, pos)
		}
		return m, nil

	case key.Matches(msg, m.keys.IncreaseDepth):
		return m.dispatch(navigate.ActionIncreaseDepth, org.None)

	case key.Matches(msg, m.keys.DecreaseDepth):
		return m.dispatch(navigate.ActionDecreaseDepth, org.None)

	case key.Matches(msg, m.keys.Rename):
		if pos, ok := m.selected(); ok {
			return m.dispatch(navigate.ActionRename, pos)
		}
		return m, nil

	case key.Matches(msg, m.keys.CreateChild):
		if pos, ok := m.selected(); ok {
			return m.dispatch(navigate.ActionCreateChild, pos)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) dispatch(action navigate.Action, pos org.Position) (tea.Model, tea.Cmd) {
	out, err := m.svc.Dispatch(m.ctx, action, pos, m.input())
	if err != nil {
		// Report and leave the session open for the user to retry.
		m.errText = err.Error()
		return m, nil
	}
	switch out.Kind {
	case navigate.OutcomeSearch:
		m.reload(out.Next)
		return m, nil
	case navigate.OutcomePromptRename:
		m.mode = modePrompt
		m.promptFor = promptRename
		m.promptPos = out.Pos
		m.prompt.SetValue(out.Initial)
		m.prompt.CursorEnd()
		m.prompt.Focus()
		return m, textinput.Blink
	case navigate.OutcomePromptChild:
		m.mode = modePrompt
		m.promptFor = promptChild
		m.promptPos = out.Pos
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink
	default:
		m.result = Result{Action: action, Pos: out.Pos}
		return m, tea.Quit
	}
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modePick
		m.prompt.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.prompt.Value())
		if text == "" {
			return m, nil
		}
		m.prompt.Blur()
		m.mode = modePick
		switch m.promptFor {
		case promptRename:
			next, err := m.svc.CompleteRename(m.ctx, m.promptPos, text, m.input())
			if err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.reload(next)
			return m, nil
		default:
			child, err := m.svc.CompleteCreateChild(m.ctx, m.promptPos, text)
			if err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.result = Result{Action: navigate.ActionCreateChild, Pos: child}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.mode == modePrompt {
		title := "New child heading"
		if m.promptFor == promptRename {
			title = "Rename heading"
		}
		return promptTitleStyle.Render(title) + "\n" +
			renderPromptLine(m.width, m.prompt.View()) + "\n" +
			helpStyle.Render("enter confirm · esc back")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteByte('\n')
	b.WriteString(contextStyle.Render(m.contextLine()))
	b.WriteByte('\n')
	b.WriteString(m.list.View())
	b.WriteByte('\n')
	if m.errText != "" {
		b.WriteString(errStyle.Render(m.errText))
	} else {
		b.WriteString(helpStyle.Render("enter " + m.ctx.DefaultAction.String() +
			" · tab explore · shift+tab parent · ctrl+a ancestors · +/- depth · ctrl+r rename · ctrl+n child · / filter"))
	}
	return b.String()
}

func (m Model) title() string {
	if m.ctx.Label != "" {
		return m.ctx.Label
	}
	return "orgnav"
}

func (m Model) contextLine() string {
	anchor := "(whole document)"
	if m.ctx.Anchor != org.None {
		if path, err := m.svc.Document().OutlinePath(m.ctx.Anchor); err == nil {
			anchor = strings.Join(path, " / ")
		}
	}
	if m.ctx.Source == navigate.SourceAncestors {
		return fmt.Sprintf("ancestors of %s", anchor)
	}
	return fmt.Sprintf("under %s · depth %d", anchor, m.ctx.Depth)
}

// Run drives one picker session to completion and returns its result.
func Run(svc *navigate.Service, ctx *navigate.Context) (Result, error) {
	final, err := tea.NewProgram(New(svc, ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return Result{Aborted: true}, err
	}
	return final.(Model).Result(), nil
}

// Runner adapts Run for the synchronous bridge.
func Runner(svc *navigate.Service) navigate.Runner {
	return func(ctx *navigate.Context) error {
		_, err := Run(svc, ctx)
		return err
	}
}
