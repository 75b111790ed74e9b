package navigate

import (
	"time"

	"orgnav-cli/internal/org"
)

// OutcomeKind says what the picker should do after a dispatch.
type OutcomeKind int

const (
	// OutcomeDone ends the search loop.
	OutcomeDone OutcomeKind = iota
	// OutcomeSearch re-enters the loop with Outcome.Next.
	OutcomeSearch
	// OutcomePromptRename asks the UI to collect new heading text, then call
	// CompleteRename.
	OutcomePromptRename
	// OutcomePromptChild asks the UI to collect child heading text, then call
	// CompleteCreateChild.
	OutcomePromptChild
)

// Outcome is the dispatcher's answer: terminal, a replacement search
// context, or a prompt request.
type Outcome struct {
	Kind    OutcomeKind
	Next    *Context     // OutcomeSearch
	Pos     org.Position // terminal result / prompt target
	Initial string       // prompt pre-fill
}

// Dispatch applies action to the selected position under ctx. input is the
// picker's current free-text filter, preserved across depth changes and
// rename. Errors leave the active session in place so the user can retry.
func (s *Service) Dispatch(ctx *Context, action Action, selected org.Position, input string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case ActionGoto, ActionReturnResult, ActionClockIn, ActionRefile, ActionRefileKeep:
		return s.dispatchTerminalLocked(ctx, action, selected)

	case ActionExplore:
		next := s.newSearchLocked(Options{
			Source:        SourceDescendants,
			Anchor:        selected,
			Depth:         intp(1),
			DefaultAction: ctx.DefaultAction,
			Label:         ctx.Label,
			RefileSource:  ctx.RefileSource,
		})
		next.result = ctx.result
		return Outcome{Kind: OutcomeSearch, Next: next}, nil

	case ActionExploreParent:
		anchor := org.None
		if ctx.Anchor != org.None {
			p, err := s.doc.Parent(ctx.Anchor)
			if err != nil {
				return Outcome{}, DocumentStateError{Op: "explore parent", Err: err}
			}
			anchor = p // None at a root: degrade to whole-document search
		}
		next := s.newSearchLocked(Options{
			Source:        SourceDescendants,
			Anchor:        anchor,
			Depth:         intp(1),
			DefaultAction: ctx.DefaultAction,
			Label:         ctx.Label,
			RefileSource:  ctx.RefileSource,
		})
		next.result = ctx.result
		return Outcome{Kind: OutcomeSearch, Next: next}, nil

	case ActionExploreAncestors:
		// Ancestor searches never window by depth.
		next := s.newSearchLocked(Options{
			Source:        SourceAncestors,
			Anchor:        selected,
			DefaultAction: ctx.DefaultAction,
			Label:         ctx.Label,
			RefileSource:  ctx.RefileSource,
		})
		next.result = ctx.result
		return Outcome{Kind: OutcomeSearch, Next: next}, nil

	case ActionIncreaseDepth:
		return s.redepthLocked(ctx, ctx.Depth+1, input), nil

	case ActionDecreaseDepth:
		d := ctx.Depth - 1
		if d < 1 {
			d = 1 // clamped, not an error
		}
		return s.redepthLocked(ctx, d, input), nil

	case ActionRename:
		text, err := s.doc.HeadingText(selected)
		if err != nil {
			return Outcome{}, DocumentStateError{Op: "rename", Err: err}
		}
		return Outcome{Kind: OutcomePromptRename, Pos: selected, Initial: text}, nil

	case ActionCreateChild:
		return Outcome{Kind: OutcomePromptChild, Pos: selected}, nil

	default:
		return Outcome{}, ConfigError{Err: UnknownActionError{Action: action}}
	}
}

func (s *Service) dispatchTerminalLocked(ctx *Context, action Action, selected org.Position) (Outcome, error) {
	switch action {
	case ActionClockIn:
		if err := s.doc.ClockIn(selected, time.Now()); err != nil {
			return Outcome{}, DocumentStateError{Op: "clock in", Err: err}
		}
		if err := s.doc.Save(); err != nil {
			return Outcome{}, DocumentStateError{Op: "clock in", Err: err}
		}

	case ActionRefile, ActionRefileKeep:
		if ctx.RefileSource == org.None {
			return Outcome{}, ConfigError{Err: MissingRefileSourceError{}}
		}
		// Record the mark first: repeat-refile targets the destination even
		// if this move fails halfway through saving.
		s.mark = selected
		keep := action == ActionRefileKeep
		if err := s.doc.Refile(ctx.RefileSource, selected, keep); err != nil {
			return Outcome{}, DocumentStateError{Op: "refile", Err: err}
		}
		if err := s.doc.Save(); err != nil {
			return Outcome{}, DocumentStateError{Op: "refile", Err: err}
		}

	case ActionReturnResult:
		if ctx.result != nil {
			select {
			case ctx.result <- selected:
			default:
			}
		}
	}

	if s.active == ctx {
		s.active = nil
	}
	return Outcome{Kind: OutcomeDone, Pos: selected}, nil
}

func (s *Service) redepthLocked(ctx *Context, depth int, input string) Outcome {
	next := s.newSearchLocked(Options{
		Source:        ctx.Source,
		Anchor:        ctx.Anchor,
		Depth:         intp(depth),
		DefaultAction: ctx.DefaultAction,
		Label:         ctx.Label,
		InitialInput:  input,
		RefileSource:  ctx.RefileSource,
	})
	next.result = ctx.result
	return Outcome{Kind: OutcomeSearch, Next: next}
}

// CompleteRename commits the text collected for an OutcomePromptRename and
// re-runs the same search, preserving anchor, depth and input.
func (s *Service) CompleteRename(ctx *Context, pos org.Position, text, input string) (*Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.Rename(pos, text); err != nil {
		return nil, DocumentStateError{Op: "rename", Err: err}
	}
	if err := s.doc.Save(); err != nil {
		return nil, DocumentStateError{Op: "rename", Err: err}
	}
	var depth *int
	if ctx.Source == SourceDescendants {
		depth = intp(ctx.Depth)
	}
	next := s.newSearchLocked(Options{
		Source:        ctx.Source,
		Anchor:        ctx.Anchor,
		Depth:         depth,
		DefaultAction: ctx.DefaultAction,
		Label:         ctx.Label,
		InitialInput:  input,
		RefileSource:  ctx.RefileSource,
	})
	next.result = ctx.result
	return next, nil
}

// CompleteCreateChild commits the text collected for an OutcomePromptChild.
// Terminal: the new heading is handed back for the capture flow.
func (s *Service) CompleteCreateChild(ctx *Context, parent org.Position, text string) (org.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	child, err := s.doc.CreateChild(parent, text)
	if err != nil {
		return org.None, DocumentStateError{Op: "create child", Err: err}
	}
	if err := s.doc.Save(); err != nil {
		return org.None, DocumentStateError{Op: "create child", Err: err}
	}
	if s.active == ctx {
		s.active = nil
	}
	return child, nil
}

func intp(v int) *int { return &v }
