package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/file"
	"github.com/andrejsstepanovs/storyboard/models"
)

func newSceneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Add, remove, reorder and edit scenes",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Append a new scene. With --from-dir, one scene per image in the directory",
		Args:  cobra.NoArgs,
		Run:   app.handleSceneAdd,
	}
	addCmd.Flags().String("from-dir", "", "create one scene per image file found in this directory")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a scene",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleSceneDelete,
	}
	deleteCmd.Flags().Bool("yes", false, "do not ask for confirmation")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update several fields of a scene at once",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleSceneEdit,
	}
	editCmd.Flags().String("title", "", "scene title")
	editCmd.Flags().String("duration", "", "duration in seconds")
	editCmd.Flags().String("description", "", "visual description")
	editCmd.Flags().String("narration", "", "audio narration")
	editCmd.Flags().String("notes", "", "production notes")

	cmd.AddCommand(
		addCmd,
		deleteCmd,
		&cobra.Command{
			Use:   "move <id> <up|down>",
			Short: "Swap a scene with its neighbour",
			Args:  cobra.ExactArgs(2),
			Run:   app.handleSceneMove,
		},
		&cobra.Command{
			Use:   "set <id> <field> <value>",
			Short: "Set one field: title, description, narration, notes, duration or image",
			Args:  cobra.ExactArgs(3),
			Run:   app.handleSceneSet,
		},
		editCmd,
		&cobra.Command{
			Use:   "image <id> <path>",
			Short: "Attach an image file to a scene. An empty path removes the image",
			Args:  cobra.ExactArgs(2),
			Run:   app.handleSceneImage,
		},
	)
	return cmd
}

type pendingImage struct {
	sceneID int
	result  <-chan file.ImageResult
}

func (a *App) handleSceneAdd(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	dir, _ := cmd.Flags().GetString("from-dir")
	if dir == "" {
		id, err := a.store.AddScene()
		if a.check(cmd, err) {
			return
		}
		fmt.Fprintf(out, "Added scene %d\n", id)
		return
	}

	paths, err := file.ImageFiles(dir)
	if a.check(cmd, err) {
		return
	}
	if len(paths) == 0 {
		a.fail(cmd, fmt.Errorf("no images found in %s", dir))
		return
	}

	ctx := contextOf(cmd)
	pending := make([]pendingImage, 0, len(paths))
	for _, path := range paths {
		id, err := a.store.AddScene()
		if a.check(cmd, err) {
			return
		}
		pending = append(pending, pendingImage{sceneID: id, result: file.ReadImage(ctx, path)})
	}

	attached := 0
	for _, p := range pending {
		res := <-p.result
		if res.Err != nil {
			a.logger.Warn("image not attached", zap.String("path", res.Path), zap.Int("scene_id", p.sceneID), zap.Error(res.Err))
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", res.Err)
			continue
		}
		if a.check(cmd, a.store.UpdateSceneField(p.sceneID, models.FieldImage, res.DataURI)) {
			return
		}
		attached++
	}
	fmt.Fprintf(out, "Added %d scenes with %d images from %s\n", len(pending), attached, dir)
}

func (a *App) handleSceneDelete(cmd *cobra.Command, args []string) {
	id, ok := a.sceneID(cmd, args[0])
	if !ok {
		return
	}
	confirmed, err := a.confirm(cmd, "Are you sure you want to delete this scene?")
	if a.check(cmd, err) {
		return
	}
	if !confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return
	}
	if a.check(cmd, a.store.DeleteScene(id)) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted scene %d\n", id)
}

func (a *App) handleSceneMove(cmd *cobra.Command, args []string) {
	id, ok := a.sceneID(cmd, args[0])
	if !ok {
		return
	}
	dir := models.Direction(args[1])
	if dir != models.Up && dir != models.Down {
		a.fail(cmd, fmt.Errorf("direction must be up or down, got %q", args[1]))
		return
	}
	if a.check(cmd, a.store.MoveScene(id, dir)) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Scene %d is now %s\n", id, a.positionOf(id))
}

func (a *App) handleSceneSet(cmd *cobra.Command, args []string) {
	id, ok := a.sceneID(cmd, args[0])
	if !ok {
		return
	}
	field, err := models.ParseField(args[1])
	if a.check(cmd, err) {
		return
	}
	if field == models.FieldImage {
		a.attachImage(cmd, id, args[2])
		return
	}
	if a.check(cmd, a.store.UpdateSceneField(id, field, args[2])) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s of scene %d\n", field, id)
}

func (a *App) handleSceneEdit(cmd *cobra.Command, args []string) {
	id, ok := a.sceneID(cmd, args[0])
	if !ok {
		return
	}
	flags := []struct {
		name  string
		field models.Field
	}{
		{"title", models.FieldTitle},
		{"duration", models.FieldDuration},
		{"description", models.FieldVisualDescription},
		{"narration", models.FieldAudioNarration},
		{"notes", models.FieldNotes},
	}

	updated := 0
	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, _ := cmd.Flags().GetString(f.name)
		if a.check(cmd, a.store.UpdateSceneField(id, f.field, value)) {
			return
		}
		updated++
	}
	if updated == 0 {
		a.fail(cmd, fmt.Errorf("nothing to update, pass at least one field flag"))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d fields of scene %d\n", updated, id)
}

func (a *App) handleSceneImage(cmd *cobra.Command, args []string) {
	id, ok := a.sceneID(cmd, args[0])
	if !ok {
		return
	}
	a.attachImage(cmd, id, args[1])
}

// attachImage reads path asynchronously and commits the result. The scene may
// have been deleted by the time the read finishes, in which case the update is
// a no-op.
func (a *App) attachImage(cmd *cobra.Command, id int, path string) {
	if path == "" {
		if a.check(cmd, a.store.UpdateSceneField(id, models.FieldImage, "")) {
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed image from scene %d\n", id)
		return
	}

	res := <-file.ReadImage(contextOf(cmd), path)
	if a.check(cmd, res.Err) {
		return
	}
	if a.check(cmd, a.store.UpdateSceneField(id, models.FieldImage, res.DataURI)) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to scene %d\n", path, id)
}

// sceneID parses arg and makes sure the scene exists.
func (a *App) sceneID(cmd *cobra.Command, arg string) (int, bool) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		a.fail(cmd, fmt.Errorf("invalid scene id %q", arg))
		return 0, false
	}
	if a.store.Project().IndexOf(id) < 0 {
		a.fail(cmd, fmt.Errorf("scene %d not found", id))
		return 0, false
	}
	return id, true
}

func (a *App) positionOf(id int) string {
	i := a.store.Project().IndexOf(id)
	return fmt.Sprintf("scene %d of %d", i+1, len(a.store.Project().Scenes))
}
