package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/andrejsstepanovs/storyboard/models"
)

// ErrInvalidSnapshot is returned by ImportSnapshot for payloads without a
// scenes array.
var ErrInvalidSnapshot = errors.New("invalid storyboard file")

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ExportDocument is the portable file shape.
type ExportDocument struct {
	ProjectTitle string         `json:"projectTitle"`
	Scenes       []models.Scene `json:"scenes"`
	ExportDate   string         `json:"exportDate"`
}

// Imported is a validated import ready for store.ReplaceProject. Scenes is
// never nil.
type Imported struct {
	Title  string
	Scenes []models.Scene
}

// ExportSnapshot renders the current title and scenes as an indented JSON
// document. The scene counter and view mode are not portable.
func ExportSnapshot(p models.Project, now time.Time) ([]byte, error) {
	scenes := p.Scenes
	if scenes == nil {
		scenes = []models.Scene{}
	}
	doc := ExportDocument{
		ProjectTitle: p.Title,
		Scenes:       scenes,
		ExportDate:   now.UTC().Format(isoMillis),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ImportSnapshot parses an exported document. Only a scenes array is
// required; individual scenes are not validated.
func ImportSnapshot(raw []byte) (Imported, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Imported{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	scenesRaw := bytes.TrimSpace(fields["scenes"])
	if len(scenesRaw) == 0 || scenesRaw[0] != '[' {
		return Imported{}, fmt.Errorf("%w: missing scenes array", ErrInvalidSnapshot)
	}

	scenes := []models.Scene{}
	if err := json.Unmarshal(scenesRaw, &scenes); err != nil {
		return Imported{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	title := ""
	if t, ok := fields["projectTitle"]; ok {
		_ = json.Unmarshal(t, &title)
	}
	if title == "" {
		title = models.ImportedProjectTitle
	}

	return Imported{Title: title, Scenes: scenes}, nil
}

var (
	whitespace    = regexp.MustCompile(`\s+`)
	pathSeparator = regexp.MustCompile(`[/\\:\x00]`)
)

// ExportFileName derives a download name such as "My_Film_storyboard.json".
// Path separators are replaced too, so the name never leaves the target
// directory.
func ExportFileName(title, ext string) string {
	name := whitespace.ReplaceAllString(title, "_")
	name = pathSeparator.ReplaceAllString(name, "_")
	return name + "_storyboard." + ext
}
