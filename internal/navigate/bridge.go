package navigate

import (
	"context"

	"orgnav-cli/internal/org"
)

// Runner drives one picker session to completion (the bubbletea program, or
// a scripted stand-in under test). It returns when the session ends.
type Runner func(*Context) error

// SearchSync adapts the event-driven picker into a blocking call that
// returns the single selected position. The search is opened with a
// return-result default action and a per-call one-shot channel, so
// concurrent synchronous searches don't race over a shared slot. ctx
// deadlines turn into TimeoutError; a session that ends without a selection
// is a CancelledError.
func (s *Service) SearchSync(ctx context.Context, opts Options, run Runner) (org.Position, error) {
	opts.DefaultAction = ActionReturnResult
	sctx, err := s.NewSearch(opts)
	if err != nil {
		return org.None, err
	}
	result := make(chan org.Position, 1)
	sctx.result = result

	done := make(chan error, 1)
	go func() { done <- run(sctx) }()

	select {
	case pos := <-result:
		return pos, nil
	case err := <-done:
		// The runner may have delivered the result just before returning.
		select {
		case pos := <-result:
			return pos, nil
		default:
		}
		s.Cancel(sctx)
		if err != nil {
			return org.None, err
		}
		return org.None, CancelledError{Label: sctx.Label}
	case <-ctx.Done():
		s.Cancel(sctx)
		return org.None, TimeoutError{Label: sctx.Label}
	}
}
