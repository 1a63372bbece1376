// Package store owns the in-memory project. Every mutation runs under one
// lock, is flushed to the persister and then announced to subscribers.
package store

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/logger"
	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/persistence"
)

var (
	// ErrNotSaved wraps a persistence failure. The mutation itself was
	// applied and the in-memory project stays authoritative.
	ErrNotSaved = errors.New("changes were applied but could not be saved")
	// ErrMissingScenes rejects a replacement snapshot without a scene list.
	ErrMissingScenes = errors.New("snapshot has no scenes")
	ErrInvalidValue  = errors.New("invalid field value")
)

// Persister flushes a project snapshot to durable storage.
type Persister interface {
	Save(models.Project) error
}

// Listener receives a copy of the project after each applied mutation.
type Listener func(models.Project)

type Store struct {
	mu        sync.Mutex
	project   models.Project
	preview   preview
	persister Persister
	listeners []Listener
	logger    *zap.Logger

	// seq numbers applied mutations; guarded by mu.
	seq uint64

	// flushMu serializes saves. savedSeq is the newest mutation written and
	// is guarded by flushMu; older snapshots are never written over it.
	flushMu  sync.Mutex
	savedSeq uint64
}

// New wraps an initial project, usually the result of persistence.Load.
func New(initial models.Project, persister Persister, log *zap.Logger) *Store {
	p := initial.Clone()
	if p.ViewMode == "" {
		p.ViewMode = models.ViewGrid
	}
	return &Store{
		project:   p,
		persister: persister,
		logger:    logger.Component(log, "store"),
	}
}

// Subscribe registers a refresh callback. Callbacks run after the store lock
// is released and may call back into the store.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Project returns a deep copy of the current project.
func (s *Store) Project() models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Clone()
}

// mutate applies fn under the lock. fn reports whether it changed anything;
// unchanged projects are neither flushed nor announced.
func (s *Store) mutate(op string, fn func(p *models.Project) (bool, error)) error {
	s.mu.Lock()
	changed, err := fn(&s.project)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	if s.preview.open && s.preview.cursor >= len(s.project.Scenes) {
		s.clampPreview()
	}
	snapshot := s.project.Clone()
	listeners := append([]Listener(nil), s.listeners...)
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	saveErr := s.flush(op, seq, snapshot)

	for _, l := range listeners {
		l(snapshot.Clone())
	}
	return saveErr
}

// flush writes snapshot unless a newer mutation has already been written.
func (s *Store) flush(op string, seq uint64, snapshot models.Project) error {
	if s.persister == nil {
		return nil
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if seq <= s.savedSeq {
		return nil
	}
	if err := s.persister.Save(snapshot); err != nil {
		s.logger.Error("failed to save project", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	s.savedSeq = seq
	return nil
}

// CreateProject discards the current project and starts from defaults. The
// view mode is a preference and survives.
func (s *Store) CreateProject() error {
	return s.mutate("create_project", func(p *models.Project) (bool, error) {
		mode := p.ViewMode
		*p = models.NewProject()
		p.ViewMode = mode
		s.preview = preview{}
		return true, nil
	})
}

// AddScene appends a new scene and returns its id. The id is allocated and the
// scene inserted in the same critical section.
func (s *Store) AddScene() (int, error) {
	var id int
	err := s.mutate("add_scene", func(p *models.Project) (bool, error) {
		id = p.LastAssignedID + 1
		p.Scenes = append(p.Scenes, models.NewScene(id, len(p.Scenes)+1))
		p.LastAssignedID = id
		return true, nil
	})
	if err == nil || errors.Is(err, ErrNotSaved) {
		s.logger.Debug("scene added", zap.Int("scene_id", id))
	}
	return id, err
}

// DeleteScene removes the scene with id. Unknown ids are ignored.
func (s *Store) DeleteScene(id int) error {
	return s.mutate("delete_scene", func(p *models.Project) (bool, error) {
		i := p.IndexOf(id)
		if i < 0 {
			return false, nil
		}
		p.Scenes = append(p.Scenes[:i], p.Scenes[i+1:]...)
		return true, nil
	})
}

// MoveScene swaps the scene with its neighbour. Moving the first scene up or
// the last scene down does nothing.
func (s *Store) MoveScene(id int, dir models.Direction) error {
	return s.mutate("move_scene", func(p *models.Project) (bool, error) {
		i := p.IndexOf(id)
		if i < 0 {
			return false, nil
		}
		var j int
		switch dir {
		case models.Up:
			j = i - 1
		case models.Down:
			j = i + 1
		default:
			return false, fmt.Errorf("%w: unknown direction %q", ErrInvalidValue, dir)
		}
		if j < 0 || j >= len(p.Scenes) {
			return false, nil
		}
		p.Scenes[i], p.Scenes[j] = p.Scenes[j], p.Scenes[i]
		return true, nil
	})
}

// UpdateSceneField sets one field of the scene with id. Durations are coerced
// here, at commit time. An empty image string clears the image.
func (s *Store) UpdateSceneField(id int, field models.Field, value any) error {
	return s.mutate("update_scene", func(p *models.Project) (bool, error) {
		i := p.IndexOf(id)
		if i < 0 {
			return false, nil
		}
		scene := &p.Scenes[i]

		if field == models.FieldDuration {
			scene.Duration = models.CoerceDuration(value)
			return true, nil
		}

		text, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("%w: %s expects text, got %T", ErrInvalidValue, field, value)
		}
		switch field {
		case models.FieldTitle:
			scene.Title = text
		case models.FieldVisualDescription:
			scene.VisualDescription = text
		case models.FieldAudioNarration:
			scene.AudioNarration = text
		case models.FieldNotes:
			scene.Notes = text
		case models.FieldImage:
			if text == "" {
				scene.Image = nil
			} else {
				scene.Image = &text
			}
		default:
			return false, fmt.Errorf("%w: unknown field %q", ErrInvalidValue, field)
		}
		return true, nil
	})
}

func (s *Store) SetProjectTitle(title string) error {
	return s.mutate("set_title", func(p *models.Project) (bool, error) {
		p.Title = title
		return true, nil
	})
}

func (s *Store) SetViewMode(mode models.ViewMode) error {
	if _, err := models.ParseViewMode(string(mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return s.mutate("set_view_mode", func(p *models.Project) (bool, error) {
		p.ViewMode = mode
		return true, nil
	})
}

// ReplaceProject swaps in an imported title and scene list. The scene counter
// is recomputed from the imported ids. Nothing changes when the snapshot has
// no scene list.
func (s *Store) ReplaceProject(snap persistence.Imported) error {
	if snap.Scenes == nil {
		return ErrMissingScenes
	}
	return s.mutate("replace_project", func(p *models.Project) (bool, error) {
		mode := p.ViewMode
		*p = models.Project{
			Title:          snap.Title,
			Scenes:         models.CloneScenes(snap.Scenes),
			LastAssignedID: models.MaxSceneID(snap.Scenes),
			ViewMode:       mode,
		}
		s.preview = preview{}
		return true, nil
	})
}
