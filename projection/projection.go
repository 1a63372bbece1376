// Package projection derives render-ready view-models from a project. All
// functions are pure and are recomputed in full on every change.
package projection

import (
	"fmt"

	"github.com/andrejsstepanovs/storyboard/models"
)

const (
	DescriptionPreviewLimit = 120
	NoDescription           = "No description yet. Click edit to add details."
	NoImage                 = "No image"
	// PlaceholderThumbnail is the empty-frame icon shown in the timeline.
	PlaceholderThumbnail = `data:image/svg+xml;charset=UTF-8,%3Csvg xmlns="http://www.w3.org/2000/svg" width="40" height="40" viewBox="0 0 24 24" fill="none" stroke="%23cbd5e1" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"%3E%3Crect x="2" y="2" width="20" height="20" rx="2.18" ry="2.18"%3E%3C/rect%3E%3Cline x1="7" y1="2" x2="7" y2="22"%3E%3C/line%3E%3Cline x1="17" y1="2" x2="17" y2="22"%3E%3C/line%3E%3Cline x1="2" y1="12" x2="22" y2="12"%3E%3C/line%3E%3C/svg%3E`
)

type Card struct {
	Position           int
	Number             string
	ID                 int
	Title              string
	DurationLabel      string
	DescriptionPreview string
	Image              string
	HasImage           bool
}

type CardList struct {
	Mode  models.ViewMode
	Empty bool
	Cards []Card
}

type TimelineEntry struct {
	Position      int
	Number        string
	ID            int
	DurationLabel string
	Thumbnail     string
	HasImage      bool
	// Anchor identifies the card to scroll to.
	Anchor string
}

type Slide struct {
	Position          int
	Total             int
	Title             string
	DurationLabel     string
	Image             string
	HasImage          bool
	VisualDescription string
	AudioNarration    string
}

func SceneNumber(position int) string {
	return fmt.Sprintf("Scene %d", position)
}

func Anchor(id int) string {
	return fmt.Sprintf("scene-%d", id)
}

func DurationLabel(s models.Scene) string {
	return fmt.Sprintf("%ds", s.EffectiveDuration())
}

// Cards builds the card list in scene order.
func Cards(p models.Project) CardList {
	list := CardList{
		Mode:  p.ViewMode,
		Empty: len(p.Scenes) == 0,
		Cards: make([]Card, 0, len(p.Scenes)),
	}
	if list.Mode == "" {
		list.Mode = models.ViewGrid
	}
	for i, s := range p.Scenes {
		card := Card{
			Position:           i + 1,
			Number:             SceneNumber(i + 1),
			ID:                 s.ID,
			Title:              s.Title,
			DurationLabel:      DurationLabel(s),
			DescriptionPreview: DescriptionPreview(s.VisualDescription),
			HasImage:           s.HasImage(),
		}
		if card.HasImage {
			card.Image = *s.Image
		}
		list.Cards = append(list.Cards, card)
	}
	return list
}

// DescriptionPreview shortens long descriptions to DescriptionPreviewLimit
// characters followed by "...".
func DescriptionPreview(text string) string {
	if text == "" {
		return NoDescription
	}
	runes := []rune(text)
	if len(runes) > DescriptionPreviewLimit {
		return string(runes[:DescriptionPreviewLimit]) + "..."
	}
	return text
}

// Timeline builds the timeline strip in scene order.
func Timeline(p models.Project) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(p.Scenes))
	for i, s := range p.Scenes {
		entry := TimelineEntry{
			Position:      i + 1,
			Number:        SceneNumber(i + 1),
			ID:            s.ID,
			DurationLabel: DurationLabel(s),
			Thumbnail:     PlaceholderThumbnail,
			HasImage:      s.HasImage(),
			Anchor:        Anchor(s.ID),
		}
		if entry.HasImage {
			entry.Thumbnail = *s.Image
		}
		entries = append(entries, entry)
	}
	return entries
}

// TotalSeconds sums scene durations, counting missing ones as the default.
func TotalSeconds(scenes []models.Scene) int {
	total := 0
	for _, s := range scenes {
		total += s.EffectiveDuration()
	}
	return total
}

// TotalDuration formats the project length as "45s" or "1m 15s".
func TotalDuration(scenes []models.Scene) string {
	return FormatSeconds(TotalSeconds(scenes))
}

func FormatSeconds(total int) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// SlideAt builds the preview slide for the scene at cursor. ok is false when
// the cursor is out of range.
func SlideAt(p models.Project, cursor int) (Slide, bool) {
	if cursor < 0 || cursor >= len(p.Scenes) {
		return Slide{}, false
	}
	s := p.Scenes[cursor]
	slide := Slide{
		Position:          cursor + 1,
		Total:             len(p.Scenes),
		Title:             s.Title,
		DurationLabel:     DurationLabel(s),
		Image:             NoImage,
		HasImage:          s.HasImage(),
		VisualDescription: s.VisualDescription,
		AudioNarration:    s.AudioNarration,
	}
	if slide.Title == "" {
		slide.Title = SceneNumber(cursor + 1)
	}
	if slide.HasImage {
		slide.Image = *s.Image
	}
	return slide, true
}
