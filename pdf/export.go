// Package pdf renders the storyboard document through an external HTML-to-PDF
// service and writes the result next to the user's other exports.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/client"
	"github.com/andrejsstepanovs/storyboard/config"
	"github.com/andrejsstepanovs/storyboard/logger"
	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/persistence"
	"github.com/andrejsstepanovs/storyboard/projection"
)

// ErrNothingToExport is returned for projects without scenes.
var ErrNothingToExport = errors.New("project has no scenes to export")

// Renderer turns an HTML fragment into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, req client.RenderRequest) ([]byte, error)
}

type Exporter struct {
	renderer Renderer
	options  client.RenderOptions
	logger   *zap.Logger
}

func NewExporter(renderer Renderer, cfg config.PDF, log *zap.Logger) *Exporter {
	return &Exporter{
		renderer: renderer,
		options: client.RenderOptions{
			MarginMM:     cfg.MarginMM,
			Format:       cfg.Format,
			Orientation:  cfg.Orientation,
			ImageType:    "jpeg",
			ImageQuality: cfg.ImageQuality,
			Scale:        cfg.Scale,
		},
		logger: logger.Component(log, "pdf"),
	}
}

// Export renders p and writes it into dir. The PDF is first written to a
// uniquely named .part file which is renamed into place on success and
// removed otherwise.
func (e *Exporter) Export(ctx context.Context, p models.Project, dir string) (string, error) {
	if len(p.Scenes) == 0 {
		return "", ErrNothingToExport
	}

	html, err := RenderHTML(projection.BuildDocument(p))
	if err != nil {
		return "", err
	}

	name := persistence.ExportFileName(p.Title, "pdf")
	e.logger.Debug("rendering pdf", zap.String("file", name), zap.Int("scenes", len(p.Scenes)))

	data, err := e.renderer.Render(ctx, client.RenderRequest{
		HTML:     html,
		FileName: name,
		Options:  e.options,
	})
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	dest := filepath.Join(dir, name)
	tmp := fmt.Sprintf("%s.%s.part", dest, uuid.NewString())
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			e.logger.Warn("failed to remove temporary pdf", zap.String("path", tmp), zap.Error(rmErr))
		}
	}()

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return "", fmt.Errorf("move pdf into place: %w", err)
	}

	e.logger.Info("pdf exported", zap.String("path", dest), zap.Int("bytes", len(data)))
	return dest, nil
}

// ExportAsync runs Export in the background and reports through done. The
// project is cloned before the call returns, so later store mutations do not
// leak into the export.
func (e *Exporter) ExportAsync(ctx context.Context, p models.Project, dir string, done func(path string, err error)) {
	snapshot := p.Clone()
	go func() {
		path, err := e.Export(ctx, snapshot, dir)
		if err != nil {
			e.logger.Error("pdf export failed", zap.Error(err))
		}
		if done != nil {
			done(path, err)
		}
	}()
}
