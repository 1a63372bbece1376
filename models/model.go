package models

import (
	"fmt"
	"strings"
)

const (
	DefaultProjectTitle  = "Untitled Project"
	ImportedProjectTitle = "Imported Project"
	DefaultDuration      = 5
)

// ViewMode selects how the scene list is laid out.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewGrid, ViewList:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("unknown view mode %q (expected grid or list)", s)
}

// Direction is used both for moving scenes and for stepping through a preview.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Prev Direction = "prev"
	Next Direction = "next"
)

// Field names an editable scene attribute. Values match the JSON keys.
type Field string

const (
	FieldTitle             Field = "title"
	FieldVisualDescription Field = "visualDescription"
	FieldAudioNarration    Field = "audioNarration"
	FieldNotes             Field = "notes"
	FieldDuration          Field = "duration"
	FieldImage             Field = "image"
)

var fieldAliases = map[string]Field{
	"title":             FieldTitle,
	"visualdescription": FieldVisualDescription,
	"description":       FieldVisualDescription,
	"audionarration":    FieldAudioNarration,
	"narration":         FieldAudioNarration,
	"notes":             FieldNotes,
	"duration":          FieldDuration,
	"image":             FieldImage,
}

// ParseField accepts the JSON key of a field (case-insensitive) or one of the
// short aliases used on the command line.
func ParseField(s string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown scene field %q", s)
	}
	return f, nil
}

// Project is the whole editable document.
type Project struct {
	Title          string
	Scenes         []Scene
	LastAssignedID int
	ViewMode       ViewMode
}

// NewProject returns a project holding the defaults.
func NewProject() Project {
	return Project{
		Title:    DefaultProjectTitle,
		Scenes:   []Scene{},
		ViewMode: ViewGrid,
	}
}

// Clone returns a deep copy so callers can't alias the store's scene slice.
func (p Project) Clone() Project {
	c := p
	c.Scenes = CloneScenes(p.Scenes)
	return c
}

// CloneScenes deep-copies scenes. The result is never nil.
func CloneScenes(scenes []Scene) []Scene {
	out := make([]Scene, len(scenes))
	for i, s := range scenes {
		out[i] = s.Clone()
	}
	return out
}

// IndexOf returns the position of the scene with the given id or -1.
func (p Project) IndexOf(id int) int {
	for i, s := range p.Scenes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// MaxSceneID returns the highest scene id, 0 for an empty project.
func (p Project) MaxSceneID() int {
	return MaxSceneID(p.Scenes)
}

func MaxSceneID(scenes []Scene) int {
	m := 0
	for _, s := range scenes {
		if s.ID > m {
			m = s.ID
		}
	}
	return m
}
