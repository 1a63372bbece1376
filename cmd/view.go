package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/projection"
)

func newTimelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show the scene strip with durations and the total running time",
		Args:  cobra.NoArgs,
		Run:   app.handleTimeline,
	}
}

func newPreviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Step through the scenes as a slideshow (n: next, p: previous, q: quit)",
		Args:  cobra.NoArgs,
		Run:   app.handlePreview,
	}
	cmd.Flags().Int("slide", 1, "slide to start from")
	return cmd
}

func (a *App) handleTimeline(cmd *cobra.Command, _ []string) {
	p := a.store.Project()
	fmt.Fprintln(cmd.OutOrStdout(), renderTimeline(projection.Timeline(p), projection.TotalDuration(p.Scenes)))
}

func (a *App) handlePreview(cmd *cobra.Command, _ []string) {
	if a.check(cmd, a.store.OpenPreview()) {
		return
	}
	defer a.store.ClosePreview()

	start, _ := cmd.Flags().GetInt("slide")
	for i := 1; i < start; i++ {
		if a.check(cmd, a.stepPreview(models.Next)) {
			return
		}
	}
	a.showSlide(cmd)

	in := cmd.InOrStdin()
	if !a.interactive(in) {
		return
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "next", "":
			if a.check(cmd, a.stepPreview(models.Next)) {
				return
			}
		case "p", "prev":
			if a.check(cmd, a.stepPreview(models.Prev)) {
				return
			}
		case "q", "quit", "exit":
			return
		default:
			fmt.Fprintln(cmd.ErrOrStderr(), "n: next, p: previous, q: quit")
			continue
		}
		a.showSlide(cmd)
	}
}

func (a *App) stepPreview(dir models.Direction) error {
	_, err := a.store.Step(dir)
	return err
}

func (a *App) showSlide(cmd *cobra.Command) {
	cursor, open := a.store.PreviewCursor()
	if !open {
		return
	}
	slide, ok := projection.SlideAt(a.store.Project(), cursor)
	if !ok {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSlide(slide))
}
