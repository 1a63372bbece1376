// Package persistence moves project state between memory, the durable slot
// and portable JSON files.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/db"
	"github.com/andrejsstepanovs/storyboard/logger"
	"github.com/andrejsstepanovs/storyboard/models"
)

// ErrQuotaExceeded is returned by Save when the encoded snapshot is larger than
// the configured storage quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// storedSnapshot is the durable slot schema.
type storedSnapshot struct {
	ProjectTitle string          `json:"projectTitle"`
	Scenes       []models.Scene  `json:"scenes"`
	LastSceneID  int             `json:"lastSceneId"`
	ViewMode     models.ViewMode `json:"viewMode"`
}

// Adapter reads and writes one durable slot.
type Adapter struct {
	db     *sql.DB
	key    string
	quota  int64
	logger *zap.Logger
}

// NewAdapter binds the adapter to a slot key. quota is the maximum encoded size
// in bytes; 0 disables the check.
func NewAdapter(conn *sql.DB, key string, quota int64, log *zap.Logger) *Adapter {
	return &Adapter{
		db:     conn,
		key:    key,
		quota:  quota,
		logger: logger.Component(log, "persistence"),
	}
}

// Save writes title, scenes, counter and view mode to the slot.
func (a *Adapter) Save(p models.Project) error {
	scenes := p.Scenes
	if scenes == nil {
		scenes = []models.Scene{}
	}
	data, err := json.Marshal(storedSnapshot{
		ProjectTitle: p.Title,
		Scenes:       scenes,
		LastSceneID:  p.LastAssignedID,
		ViewMode:     p.ViewMode,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if a.quota > 0 && int64(len(data)) > a.quota {
		return fmt.Errorf("%w: snapshot is %d bytes, quota is %d", ErrQuotaExceeded, len(data), a.quota)
	}

	if err := db.SaveSlot(a.db, a.key, data); err != nil {
		return err
	}
	a.logger.Debug("snapshot saved", zap.Int("bytes", len(data)), zap.Int("scenes", len(scenes)))
	return nil
}

// Load returns the stored project, or defaults when the slot is empty or can't
// be read. A malformed snapshot is discarded from the slot. Failures are
// logged and never returned so startup always succeeds.
func (a *Adapter) Load() models.Project {
	data, err := db.LoadSlot(a.db, a.key)
	if err != nil {
		if !errors.Is(err, db.ErrSlotNotFound) {
			a.logger.Warn("error loading stored project, starting fresh", zap.Error(err))
		}
		return models.NewProject()
	}

	var stored storedSnapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		a.logger.Warn("stored project is malformed, starting fresh", zap.Error(err))
		if err := db.DeleteSlot(a.db, a.key); err != nil {
			a.logger.Error("failed to discard malformed project", zap.Error(err))
		}
		return models.NewProject()
	}

	p := models.NewProject()
	if stored.ProjectTitle != "" {
		p.Title = stored.ProjectTitle
	}
	if stored.Scenes != nil {
		p.Scenes = stored.Scenes
	}
	if stored.ViewMode == models.ViewGrid || stored.ViewMode == models.ViewList {
		p.ViewMode = stored.ViewMode
	}
	p.LastAssignedID = stored.LastSceneID
	if maxID := p.MaxSceneID(); maxID > p.LastAssignedID {
		a.logger.Warn("stored scene counter is behind scene ids, raising it",
			zap.Int("last_scene_id", stored.LastSceneID), zap.Int("max_scene_id", maxID))
		p.LastAssignedID = maxID
	}
	return p
}
