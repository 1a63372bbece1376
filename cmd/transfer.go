package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/persistence"
)

type exportResult struct {
	path string
	err  error
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the project to a portable file",
	}
	cmd.PersistentFlags().String("out", ".", "directory to write the file into")
	cmd.AddCommand(
		&cobra.Command{
			Use:   "json",
			Short: "Export title and scenes as JSON",
			Args:  cobra.NoArgs,
			Run:   app.handleExportJSON,
		},
		&cobra.Command{
			Use:   "pdf",
			Short: "Export a printable document through the configured PDF renderer",
			Args:  cobra.NoArgs,
			Run:   app.handleExportPDF,
		},
	)
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the current project with a previously exported JSON file",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleImport,
	}
}

func (a *App) handleExportJSON(cmd *cobra.Command, _ []string) {
	dir, _ := cmd.Flags().GetString("out")
	p := a.store.Project()

	data, err := persistence.ExportSnapshot(p, a.now())
	if a.check(cmd, err) {
		return
	}
	path := filepath.Join(dir, persistence.ExportFileName(p.Title, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.fail(cmd, fmt.Errorf("write export: %w", err))
		return
	}
	a.logger.Info("project exported", zap.String("path", path), zap.Int("scenes", len(p.Scenes)))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d scenes to %s\n", len(p.Scenes), path)
}

func (a *App) handleExportPDF(cmd *cobra.Command, _ []string) {
	dir, _ := cmd.Flags().GetString("out")

	done := make(chan exportResult, 1)
	a.exporter().ExportAsync(contextOf(cmd), a.store.Project(), dir, func(path string, err error) {
		done <- exportResult{path: path, err: err}
	})
	fmt.Fprintln(cmd.ErrOrStderr(), "Rendering PDF...")

	res := <-done
	if res.err != nil {
		a.fail(cmd, fmt.Errorf("generating PDF: %w", res.err))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported PDF to %s\n", res.path)
}

func (a *App) handleImport(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		a.fail(cmd, fmt.Errorf("read import: %w", err))
		return
	}
	snap, err := persistence.ImportSnapshot(raw)
	if a.check(cmd, err) {
		return
	}
	if a.check(cmd, a.store.ReplaceProject(snap)) {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %q with %d scenes\n", snap.Title, len(snap.Scenes))
}
