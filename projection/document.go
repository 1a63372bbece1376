package projection

import (
	"fmt"

	"github.com/andrejsstepanovs/storyboard/models"
)

// Document is the printable storyboard handed to the PDF renderer. Unlike the
// preview slide it carries notes.
type Document struct {
	Title  string
	Scenes []DocumentScene
}

type DocumentScene struct {
	Heading  string
	Duration string
	Image    string
	ImageAlt string
	Sections []Section
}

type Section struct {
	Heading string
	Body    string
}

func BuildDocument(p models.Project) Document {
	doc := Document{
		Title:  p.Title,
		Scenes: make([]DocumentScene, 0, len(p.Scenes)),
	}
	for i, s := range p.Scenes {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		ds := DocumentScene{
			Heading:  fmt.Sprintf("%s: %s", SceneNumber(i+1), title),
			Duration: fmt.Sprintf("Duration: %d seconds", s.EffectiveDuration()),
		}
		if s.HasImage() {
			ds.Image = *s.Image
			ds.ImageAlt = SceneNumber(i+1) + " image"
		}
		for _, sec := range []Section{
			{Heading: "Visual Description", Body: s.VisualDescription},
			{Heading: "Audio Narration", Body: s.AudioNarration},
			{Heading: "Notes", Body: s.Notes},
		} {
			if sec.Body != "" {
				ds.Sections = append(ds.Sections, sec)
			}
		}
		doc.Scenes = append(doc.Scenes, ds)
	}
	return doc
}
