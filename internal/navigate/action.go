package navigate

// Action is what happens to the selected candidate when the picker fires.
type Action int

const (
	// Terminal actions: they end the search loop.
	ActionGoto Action = iota
	ActionCreateChild
	ActionClockIn
	ActionRefile
	ActionRefileKeep
	ActionReturnResult

	// Refinement actions: they supersede the context and re-enter the loop.
	ActionExplore
	ActionExploreParent
	ActionExploreAncestors
	ActionIncreaseDepth
	ActionDecreaseDepth
	ActionRename
)

func (a Action) String() string {
	switch a {
	case ActionGoto:
		return "goto"
	case ActionCreateChild:
		return "create-child"
	case ActionClockIn:
		return "clock-in"
	case ActionRefile:
		return "refile"
	case ActionRefileKeep:
		return "refile-keep"
	case ActionReturnResult:
		return "return-result"
	case ActionExplore:
		return "explore"
	case ActionExploreParent:
		return "explore-parent"
	case ActionExploreAncestors:
		return "explore-ancestors"
	case ActionIncreaseDepth:
		return "increase-depth"
	case ActionDecreaseDepth:
		return "decrease-depth"
	case ActionRename:
		return "rename"
	default:
		return "unknown"
	}
}

func (a Action) known() bool {
	return a >= ActionGoto && a <= ActionRename
}

// Source selects where raw candidates come from.
type Source int

const (
	SourceDescendants Source = iota
	SourceAncestors
)

func (s Source) String() string {
	switch s {
	case SourceDescendants:
		return "descendants"
	case SourceAncestors:
		return "ancestors"
	default:
		return "unknown"
	}
}
