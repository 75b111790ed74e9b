package navigate

import "orgnav-cli/internal/org"

// RefileMark returns the most recent refile destination, or org.None.
func (s *Service) RefileMark() org.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mark
}

// SetRefileMark restores a mark (used when resuming a persisted mark).
func (s *Service) SetRefileMark(pos org.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mark = pos
}

// RefileAgain moves src under the remembered refile destination without
// re-searching and returns the destination heading's current text for
// confirmation. No recorded destination is a NoLastRefileError; a stale one
// is a DocumentStateError, never a silent move somewhere else.
func (s *Service) RefileAgain(src org.Position) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mark == org.None {
		return "", NoLastRefileError{}
	}
	if err := s.doc.Refile(src, s.mark, false); err != nil {
		return "", DocumentStateError{Op: "refile again", Err: err}
	}
	if err := s.doc.Save(); err != nil {
		return "", DocumentStateError{Op: "refile again", Err: err}
	}
	text, err := s.doc.HeadingText(s.mark)
	if err != nil {
		return "", DocumentStateError{Op: "refile again", Err: err}
	}
	return text, nil
}
