package navigate

import (
	"fmt"
	"strings"
	"sync"

	"orgnav-cli/internal/org"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Defaults carries the configurable search defaults (see internal/cli config).
type Defaults struct {
	// SearchDepth is the initial depth of a plain descendants search.
	SearchDepth int
	// RefileDepth is the initial depth of a refile destination search.
	RefileDepth int
	// ClockDepth is the initial depth of a clock-in search.
	ClockDepth int
	// Marker is the level marker character used in candidate labels.
	Marker string
}

// FillDefaults replaces zero values with the stock defaults.
func (d Defaults) FillDefaults() Defaults {
	if d.SearchDepth < 1 {
		d.SearchDepth = 1
	}
	if d.RefileDepth < 1 {
		d.RefileDepth = 2
	}
	if d.ClockDepth < 1 {
		d.ClockDepth = 2
	}
	if strings.TrimSpace(d.Marker) == "" {
		d.Marker = "*"
	}
	return d
}

// Options configures one search. Unknown keys are impossible by construction
// (typed struct); value errors are rejected eagerly by Validate.
type Options struct {
	Source        Source
	Anchor        org.Position // zero value: whole document (descendants mode)
	Depth         *int         // nil: per-source default; ignored in ancestors mode
	DefaultAction Action
	Label         string
	InitialInput  string

	// RefileSource is the heading being refiled; required when the default
	// action is a refile variant.
	RefileSource org.Position
}

// Validate rejects bad options at call time.
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Source, validation.In(SourceDescendants, SourceAncestors).Error("unknown candidate source")),
		validation.Field(&o.Depth, validation.By(func(any) error {
			if o.Depth != nil && *o.Depth < 1 {
				return fmt.Errorf("depth must be >= 1, got %d", *o.Depth)
			}
			return nil
		})),
		validation.Field(&o.DefaultAction, validation.By(func(any) error {
			if !o.DefaultAction.known() {
				return fmt.Errorf("unknown action %d", int(o.DefaultAction))
			}
			return nil
		})),
		validation.Field(&o.RefileSource,
			validation.When(o.DefaultAction == ActionRefile || o.DefaultAction == ActionRefileKeep,
				validation.Required.Error("refile search needs a source heading"))),
	)
	if err != nil {
		return ConfigError{Err: err}
	}
	return nil
}

// Context is one picker session's search state. Contexts are never mutated
// after creation; refinement actions build a replacement via Dispatch.
type Context struct {
	Source        Source
	Anchor        org.Position
	Depth         int // 0 = unbounded (ancestors mode)
	DefaultAction Action
	Label         string
	Input         string
	SessionID     string
	RefileSource  org.Position

	result chan org.Position // set for return-result searches (sync bridge)
}

// Candidate is one selectable row: level markers + heading text, plus the
// position it stands for. Labels may collide; positions are unique.
type Candidate struct {
	Label string
	Pos   org.Position
}

// Service owns the single active search session, the refile mark and the
// document handle. One search is active for dispatch purposes at a time;
// opening a new one atomically supersedes the previous.
type Service struct {
	mu       sync.Mutex
	doc      *org.Document
	defaults Defaults
	active   *Context
	mark     org.Position
}

func NewService(doc *org.Document, defaults Defaults) *Service {
	return &Service{doc: doc, defaults: defaults.FillDefaults()}
}

func (s *Service) Document() *org.Document { return s.doc }

func (s *Service) Defaults() Defaults { return s.defaults }

// NewSearch validates opts, builds the session context and installs it as
// the active dispatch target.
func (s *Service) NewSearch(opts Options) (*Context, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newSearchLocked(opts), nil
}

func (s *Service) newSearchLocked(opts Options) *Context {
	depth := 0
	if opts.Source == SourceDescendants {
		switch {
		case opts.Depth != nil:
			depth = *opts.Depth
		case opts.DefaultAction == ActionRefile || opts.DefaultAction == ActionRefileKeep:
			depth = s.defaults.RefileDepth
		case opts.DefaultAction == ActionClockIn:
			depth = s.defaults.ClockDepth
		default:
			depth = s.defaults.SearchDepth
		}
	}
	ctx := &Context{
		Source:        opts.Source,
		Anchor:        opts.Anchor,
		Depth:         depth,
		DefaultAction: opts.DefaultAction,
		Label:         strings.TrimSpace(opts.Label),
		Input:         opts.InitialInput,
		SessionID:     uuid.NewString(),
		RefileSource:  opts.RefileSource,
	}
	s.active = ctx
	return ctx
}

// Active returns the current dispatch target, or nil.
func (s *Service) Active() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Cancel clears the active context if it is still ctx, so an aborted picker
// session cannot be resurrected by a stray refinement keypress.
func (s *Service) Cancel(ctx *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == ctx {
		s.active = nil
	}
}

// Candidates computes the filtered, labeled candidate set for ctx.
//
// Descendants mode windows levels to (anchor level, anchor level + depth];
// a zero anchor searches the whole document with base level 0. Ancestors
// mode returns the full chain, anchor first, no level filtering.
func (s *Service) Candidates(ctx *Context) ([]Candidate, error) {
	var raw []org.Position
	var err error
	switch ctx.Source {
	case SourceAncestors:
		raw, err = s.doc.Ancestors(ctx.Anchor)
	default:
		raw, err = s.doc.Descendants(ctx.Anchor)
		if err == nil {
			base := 0
			if ctx.Anchor != org.None {
				base, err = s.doc.Level(ctx.Anchor)
			}
			if err == nil {
				min := base + 1
				max := base + ctx.Depth
				raw, err = FilterByDepth(s.doc, raw, &min, &max)
			}
		}
	}
	if err != nil {
		return nil, DocumentStateError{Op: "collect candidates", Err: err}
	}

	out := make([]Candidate, 0, len(raw))
	for _, p := range raw {
		lvl, err := s.doc.Level(p)
		if err != nil {
			return nil, DocumentStateError{Op: "collect candidates", Err: err}
		}
		text, err := s.doc.HeadingText(p)
		if err != nil {
			return nil, DocumentStateError{Op: "collect candidates", Err: err}
		}
		out = append(out, Candidate{
			Label: strings.Repeat(s.defaults.Marker, lvl) + " " + text,
			Pos:   p,
		})
	}
	return out, nil
}
