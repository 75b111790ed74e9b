package navigate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"orgnav-cli/internal/org"
)

func TestDispatch_ExploreResetsDepthAndReroots(t *testing.T) {
	svc := newTestService(t)
	a := findHeading(t, svc, "A")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, Depth: intp(3)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.Dispatch(ctx, ActionExplore, a, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Kind != OutcomeSearch {
		t.Fatalf("outcome kind = %d", out.Kind)
	}
	next := out.Next
	if next.Anchor != a || next.Depth != 1 {
		t.Fatalf("explore anchor=%d depth=%d", next.Anchor, next.Depth)
	}
	if svc.Active() != next {
		t.Fatalf("explore did not supersede the active context")
	}

	// Re-exploring the same anchor at the same depth is idempotent.
	first := candidateLabels(t, svc, next)
	out2, err := svc.Dispatch(next, ActionExplore, a, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	second := candidateLabels(t, svc, out2.Next)
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Fatalf("explore not idempotent: %v vs %v", first, second)
	}
}

func TestDispatch_DepthRoundTripAndClamp(t *testing.T) {
	svc := newTestService(t)
	a := findHeading(t, svc, "A")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, Anchor: a, Depth: intp(2)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	before := candidateLabels(t, svc, ctx)

	up, err := svc.Dispatch(ctx, ActionIncreaseDepth, org.None, "a.1")
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if up.Next.Depth != 3 {
		t.Fatalf("depth after increase = %d", up.Next.Depth)
	}
	if up.Next.Input != "a.1" {
		t.Fatalf("increase dropped input: %q", up.Next.Input)
	}

	down, err := svc.Dispatch(up.Next, ActionDecreaseDepth, org.None, "a.1")
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	after := candidateLabels(t, svc, down.Next)
	if strings.Join(before, ",") != strings.Join(after, ",") {
		t.Fatalf("depth round trip changed candidates: %v vs %v", before, after)
	}

	// Repeated decreases from depth 1 stay at depth 1.
	cur := down.Next
	for i := 0; i < 3; i++ {
		o, err := svc.Dispatch(cur, ActionDecreaseDepth, org.None, "")
		if err != nil {
			t.Fatalf("decrease: %v", err)
		}
		cur = o.Next
	}
	if cur.Depth != 1 {
		t.Fatalf("depth clamped to %d, want 1", cur.Depth)
	}
}

func TestDispatch_ExploreParentAtRootDegradesToWholeDocument(t *testing.T) {
	svc := newTestService(t)
	a := findHeading(t, svc, "A")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, Anchor: a})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.Dispatch(ctx, ActionExploreParent, org.None, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Next.Anchor != org.None {
		t.Fatalf("expected whole-document anchor, got %d", out.Next.Anchor)
	}
	got := candidateLabels(t, svc, out.Next)
	if strings.Join(got, ",") != "* A,* B" {
		t.Fatalf("whole-document candidates = %v", got)
	}
}

func TestDispatch_ExploreAncestorsFromCandidate(t *testing.T) {
	svc := newTestService(t)
	a1a := findHeading(t, svc, "A", "A.1", "A.1.a")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, Depth: intp(3)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.Dispatch(ctx, ActionExploreAncestors, a1a, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Next.Source != SourceAncestors || out.Next.Depth != 0 {
		t.Fatalf("ancestor context source=%v depth=%d", out.Next.Source, out.Next.Depth)
	}
	got := candidateLabels(t, svc, out.Next)
	if strings.Join(got, ",") != "*** A.1.a,** A.1,* A" {
		t.Fatalf("ancestor candidates = %v", got)
	}
}

func TestDispatch_RenamePromptsThenRerunsSearch(t *testing.T) {
	svc := newTestService(t)
	a := findHeading(t, svc, "A")
	a1 := findHeading(t, svc, "A", "A.1")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, Anchor: a, Depth: intp(2)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.Dispatch(ctx, ActionRename, a1, "a.")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Kind != OutcomePromptRename || out.Pos != a1 || out.Initial != "A.1" {
		t.Fatalf("prompt outcome = %+v", out)
	}

	next, err := svc.CompleteRename(ctx, a1, "A.renamed", "a.")
	if err != nil {
		t.Fatalf("complete rename: %v", err)
	}
	if next.Anchor != a || next.Depth != 2 || next.Input != "a." {
		t.Fatalf("rename did not preserve anchor/depth/input: %+v", next)
	}
	text, err := svc.Document().HeadingText(a1)
	if err != nil || text != "A.renamed" {
		t.Fatalf("rename not committed: %q, %v", text, err)
	}
}

func TestCompleteRename_WithWatcherKeepsSessionUsable(t *testing.T) {
	svc := newTestService(t)
	a := findHeading(t, svc, "A")
	a1 := findHeading(t, svc, "A", "A.1")

	wctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = org.Watch(wctx, svc.Document(), nil)
	}()
	defer func() {
		cancel()
		<-done
	}()
	time.Sleep(100 * time.Millisecond)

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, Anchor: a, Depth: intp(2)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	next, err := svc.CompleteRename(ctx, a1, "A.renamed", "a.")
	if err != nil {
		t.Fatalf("complete rename: %v", err)
	}

	// The rename's own save must not invalidate the re-run search.
	time.Sleep(500 * time.Millisecond)
	if svc.Document().Invalidated() {
		t.Fatalf("rename's save invalidated the document")
	}
	got := candidateLabels(t, svc, next)
	if strings.Join(got, ",") != "** A.renamed,*** A.1.a,** A.2" {
		t.Fatalf("candidates after rename under watcher = %v", got)
	}
}

func TestDispatch_GotoIsTerminal(t *testing.T) {
	svc := newTestService(t)
	b := findHeading(t, svc, "B")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.Dispatch(ctx, ActionGoto, b, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Kind != OutcomeDone || out.Pos != b {
		t.Fatalf("goto outcome = %+v", out)
	}
	if svc.Active() != nil {
		t.Fatalf("terminal action left a dangling context")
	}
}

func TestDispatch_RefileRecordsMarkAndMoves(t *testing.T) {
	svc := newTestService(t)
	a1 := findHeading(t, svc, "A", "A.1")
	b := findHeading(t, svc, "B")

	ctx, err := svc.NewSearch(Options{
		Source:        SourceDescendants,
		DefaultAction: ActionRefile,
		RefileSource:  a1,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.Dispatch(ctx, ActionRefile, b, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Kind != OutcomeDone {
		t.Fatalf("refile outcome = %+v", out)
	}
	if svc.RefileMark() != b {
		t.Fatalf("mark = %d, want %d", svc.RefileMark(), b)
	}
	if _, err := svc.Document().FindPath([]string{"A", "A.1"}); err == nil {
		t.Fatalf("source still at old location")
	}
	if _, err := svc.Document().FindPath([]string{"B", "A.1"}); err != nil {
		t.Fatalf("source not under destination: %v", err)
	}
}

func TestDispatch_RefileKeepLeavesOriginal(t *testing.T) {
	svc := newTestService(t)
	a1 := findHeading(t, svc, "A", "A.1")
	b := findHeading(t, svc, "B")

	ctx, err := svc.NewSearch(Options{
		Source:        SourceDescendants,
		DefaultAction: ActionRefileKeep,
		RefileSource:  a1,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := svc.Dispatch(ctx, ActionRefileKeep, b, ""); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := svc.Document().FindPath([]string{"A", "A.1"}); err != nil {
		t.Fatalf("refile-keep removed the original: %v", err)
	}
	if _, err := svc.Document().FindPath([]string{"B", "A.1"}); err != nil {
		t.Fatalf("refile-keep did not duplicate: %v", err)
	}
}

func TestRefileAgain_ReusesMark(t *testing.T) {
	svc := newTestService(t)
	a1 := findHeading(t, svc, "A", "A.1")
	a2 := findHeading(t, svc, "A", "A.2")
	b := findHeading(t, svc, "B")

	ctx, err := svc.NewSearch(Options{
		Source:        SourceDescendants,
		DefaultAction: ActionRefile,
		RefileSource:  a1,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := svc.Dispatch(ctx, ActionRefile, b, ""); err != nil {
		t.Fatalf("refile: %v", err)
	}

	dest, err := svc.RefileAgain(a2)
	if err != nil {
		t.Fatalf("refile again: %v", err)
	}
	if dest != "B" {
		t.Fatalf("refile-again destination = %q", dest)
	}
	if _, err := svc.Document().FindPath([]string{"B", "A.2"}); err != nil {
		t.Fatalf("second source not under destination: %v", err)
	}
}

func TestRefileAgain_NoMarkIsErrorWithoutMutation(t *testing.T) {
	svc := newTestService(t)
	a1 := findHeading(t, svc, "A", "A.1")
	before := svc.Document().String()

	_, err := svc.RefileAgain(a1)
	var noMark NoLastRefileError
	if !errors.As(err, &noMark) {
		t.Fatalf("expected NoLastRefileError, got %v", err)
	}
	if svc.Document().String() != before {
		t.Fatalf("refile-again mutated the document without a mark")
	}
}

func TestDispatch_StalePositionIsDocumentStateError(t *testing.T) {
	svc := newTestService(t)
	b := findHeading(t, svc, "B")

	ctx, err := svc.NewSearch(Options{Source: SourceDescendants, DefaultAction: ActionClockIn})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	svc.Document().Invalidate()

	_, err = svc.Dispatch(ctx, ActionClockIn, b, "")
	var state DocumentStateError
	if !errors.As(err, &state) {
		t.Fatalf("expected DocumentStateError, got %v", err)
	}
	// The session stays open for a retry.
	if svc.Active() != ctx {
		t.Fatalf("error dispatch cleared the active session")
	}
}

func TestDispatch_UnknownActionRejected(t *testing.T) {
	svc := newTestService(t)
	ctx, err := svc.NewSearch(Options{Source: SourceDescendants})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	_, err = svc.Dispatch(ctx, Action(77), org.None, "")
	var cfg ConfigError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
