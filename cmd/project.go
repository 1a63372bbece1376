package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/projection"
)

var errNotConfirmed = errors.New("aborted: pass --yes to confirm when not running in a terminal")

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create, inspect and rename the current project",
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new empty project. Existing scenes are discarded",
		Args:  cobra.NoArgs,
		Run:   app.handleProjectNew,
	}
	newCmd.Flags().Bool("yes", false, "do not ask for confirmation")

	cmd.AddCommand(
		newCmd,
		&cobra.Command{
			Use:   "show",
			Short: "Show all scenes in the current view mode and the total duration",
			Args:  cobra.NoArgs,
			Run:   app.handleProjectShow,
		},
		&cobra.Command{
			Use:   "title <text>",
			Short: "Rename the project",
			Args:  cobra.ExactArgs(1),
			Run:   app.handleProjectTitle,
		},
		&cobra.Command{
			Use:   "view <grid|list>",
			Short: "Switch between grid and list view",
			Args:  cobra.ExactArgs(1),
			Run:   app.handleProjectView,
		},
	)
	return cmd
}

func (a *App) handleProjectNew(cmd *cobra.Command, _ []string) {
	if len(a.store.Project().Scenes) > 0 {
		ok, err := a.confirm(cmd, "Creating a new project will clear all current scenes. Continue?")
		if a.check(cmd, err) {
			return
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return
		}
	}
	if a.check(cmd, a.store.CreateProject()) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %q\n", a.store.Project().Title)
}

func (a *App) handleProjectShow(cmd *cobra.Command, _ []string) {
	p := a.store.Project()
	list := projection.Cards(p)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s view)\n", p.Title, list.Mode)
	fmt.Fprintln(out, renderCards(list))
	fmt.Fprintf(out, "Total duration: %s\n", projection.TotalDuration(p.Scenes))
}

func (a *App) handleProjectTitle(cmd *cobra.Command, args []string) {
	if a.check(cmd, a.store.SetProjectTitle(args[0])) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Project renamed to %q\n", args[0])
}

func (a *App) handleProjectView(cmd *cobra.Command, args []string) {
	mode, err := models.ParseViewMode(args[0])
	if a.check(cmd, err) {
		return
	}
	if a.check(cmd, a.store.SetViewMode(mode)) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "View mode set to %s\n", mode)
}

// confirm asks a yes/no question on the command's input. Without a terminal
// the answer is taken from --yes only.
func (a *App) confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	in := cmd.InOrStdin()
	if !a.interactive(in) {
		return false, errNotConfirmed
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
