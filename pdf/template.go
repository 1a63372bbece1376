package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/andrejsstepanovs/storyboard/projection"
)

var documentTemplate = template.Must(template.New("storyboard").Parse(`<div class="pdf-export">
<h1>{{.Title}}</h1>
{{- range .Scenes}}
<div class="pdf-scene">
<div class="pdf-scene-header"><h2>{{.Heading}}</h2><p>{{.Duration}}</p></div>
<div class="pdf-scene-content">
{{- if .Image}}
<div class="pdf-image-container"><img src="{{.Image}}" alt="{{.ImageAlt}}"></div>
{{- end}}
<div class="pdf-text-content">
{{- range .Sections}}
<div class="pdf-section"><h3>{{.Heading}}</h3><p>{{.Body}}</p></div>
{{- end}}
</div>
</div>
</div>
{{- end}}
<style>` + styles + `</style>
</div>
`))

const styles = `
.pdf-export { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1e293b; padding: 20px; }
.pdf-scene { page-break-inside: avoid; margin-bottom: 30px; border: 1px solid #e2e8f0; border-radius: 8px; overflow: hidden; }
.pdf-scene-header { background-color: #f1f5f9; padding: 10px 15px; border-bottom: 1px solid #e2e8f0; }
.pdf-scene-header h2 { margin: 0 0 5px 0; font-size: 18px; }
.pdf-scene-header p { margin: 0; font-size: 14px; color: #64748b; }
.pdf-scene-content { display: flex; padding: 15px; }
.pdf-image-container { width: 30%; margin-right: 15px; }
.pdf-image-container img { width: 100%; border-radius: 4px; }
.pdf-text-content { flex: 1; }
.pdf-section { margin-bottom: 15px; }
.pdf-section h3 { margin: 0 0 5px 0; font-size: 16px; color: #4f46e5; }
.pdf-section p { margin: 0; white-space: pre-wrap; }
@media print { .pdf-scene { page-break-inside: avoid; } }
`

type sceneView struct {
	Heading  string
	Duration string
	Image    template.URL
	ImageAlt string
	Sections []projection.Section
}

type documentView struct {
	Title  string
	Scenes []sceneView
}

// RenderHTML renders the document fragment sent to the renderer. Text is
// escaped; image data URIs are passed through untouched.
func RenderHTML(doc projection.Document) (string, error) {
	view := documentView{Title: doc.Title, Scenes: make([]sceneView, 0, len(doc.Scenes))}
	for _, s := range doc.Scenes {
		view.Scenes = append(view.Scenes, sceneView{
			Heading:  s.Heading,
			Duration: s.Duration,
			Image:    template.URL(s.Image), //nolint:gosec // data URIs come from local files
			ImageAlt: s.ImageAlt,
			Sections: s.Sections,
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}
