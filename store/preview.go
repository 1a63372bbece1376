package store

import (
	"errors"
	"fmt"

	"github.com/andrejsstepanovs/storyboard/models"
)

var (
	ErrNoScenes      = errors.New("no scenes to preview, create at least one scene first")
	ErrPreviewClosed = errors.New("preview is not open")
)

type preview struct {
	open   bool
	cursor int
}

// OpenPreview starts a slideshow at the first scene.
func (s *Store) OpenPreview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.project.Scenes) == 0 {
		return ErrNoScenes
	}
	s.preview = preview{open: true}
	return nil
}

func (s *Store) ClosePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = preview{}
}

// Step moves the preview cursor one slide. It stops at either end.
func (s *Store) Step(dir models.Direction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.preview.open {
		return 0, ErrPreviewClosed
	}
	switch dir {
	case models.Prev:
		if s.preview.cursor > 0 {
			s.preview.cursor--
		}
	case models.Next:
		if s.preview.cursor < len(s.project.Scenes)-1 {
			s.preview.cursor++
		}
	default:
		return s.preview.cursor, fmt.Errorf("%w: unknown direction %q", ErrInvalidValue, dir)
	}
	return s.preview.cursor, nil
}

// PreviewCursor returns the cursor and whether a preview is open.
func (s *Store) PreviewCursor() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview.cursor, s.preview.open
}

// clampPreview keeps the cursor valid after scenes were removed. Callers hold
// the lock.
func (s *Store) clampPreview() {
	n := len(s.project.Scenes)
	if n == 0 {
		s.preview = preview{}
		return
	}
	if s.preview.cursor >= n {
		s.preview.cursor = n - 1
	}
}
