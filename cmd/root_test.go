package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/config"
	"github.com/andrejsstepanovs/storyboard/db"
	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/persistence"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type runResult struct {
	out    string
	errOut string
	code   int
}

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[storage]\npath = %q\n\n%s", filepath.Join(dir, "storyboard.db"), extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, cfgPath, stdin string, interactive bool, args ...string) runResult {
	t.Helper()
	var out, errOut bytes.Buffer
	code := 0

	app := newApp()
	app.exit = func(c int) { code = c }
	app.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	app.interactive = func(io.Reader) bool { return interactive }

	root := newRootCmd(app)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	if err := root.Execute(); err != nil {
		code = 1
	}
	return runResult{out: out.String(), errOut: errOut.String(), code: code}
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	res := run(t, cfgPath, "", false, args...)
	require.Equal(t, 0, res.code, res.errOut)
	return res.out
}

func storedProject(t *testing.T, cfgPath string) models.Project {
	t.Helper()
	cfg, _, err := config.Load(cfgPath)
	require.NoError(t, err)
	conn, err := db.InitDB(cfg.Storage.Path)
	require.NoError(t, err)
	defer conn.Close()
	return persistence.NewAdapter(conn, cfg.Storage.SlotKey, 0, zap.NewNop()).Load()
}

func TestSceneLifecycle(t *testing.T) {
	cfg := writeConfig(t, "")

	assert.Contains(t, mustRun(t, cfg, "scene", "add"), "Added scene 1")
	assert.Contains(t, mustRun(t, cfg, "scene", "add"), "Added scene 2")
	assert.Contains(t, mustRun(t, cfg, "scene", "add"), "Added scene 3")

	mustRun(t, cfg, "scene", "set", "1", "title", "Opening")
	mustRun(t, cfg, "scene", "set", "2", "duration", "60")
	mustRun(t, cfg, "scene", "edit", "3", "--description", "Wide shot", "--narration", "Hello", "--duration", "10")

	show := mustRun(t, cfg, "project", "show")
	assert.Contains(t, show, "Untitled Project (grid view)")
	assert.Contains(t, show, "Opening")
	assert.Contains(t, show, "Wide shot")
	assert.Contains(t, show, "Total duration: 1m 15s")

	out := mustRun(t, cfg, "scene", "move", "1", "down")
	assert.Contains(t, out, "Scene 1 is now scene 2 of 3")

	mustRun(t, cfg, "scene", "delete", "2", "--yes")

	p := storedProject(t, cfg)
	require.Len(t, p.Scenes, 2)
	assert.Equal(t, 1, p.Scenes[0].ID)
	assert.Equal(t, 3, p.Scenes[1].ID)
	assert.Equal(t, "Wide shot", p.Scenes[1].VisualDescription)
	assert.Equal(t, 10, p.Scenes[1].Duration)
	assert.Equal(t, 3, p.LastAssignedID)

	assert.Contains(t, mustRun(t, cfg, "scene", "add"), "Added scene 4")
}

func TestChangeSummary(t *testing.T) {
	cfg := writeConfig(t, "")

	out := mustRun(t, cfg, "scene", "add")
	assert.Contains(t, out, "Untitled Project: 1 scenes, 5s total")

	out = mustRun(t, cfg, "scene", "edit", "1", "--duration", "70")
	assert.Equal(t, 1, strings.Count(out, "scenes, "))
	assert.Contains(t, out, "Untitled Project: 1 scenes, 1m 10s total")

	assert.NotContains(t, mustRun(t, cfg, "timeline"), "scenes, ")
	assert.NotContains(t, mustRun(t, cfg, "scene", "move", "1", "up"), "scenes, ")
}

func TestSceneCommands_Errors(t *testing.T) {
	cfg := writeConfig(t, "")
	mustRun(t, cfg, "scene", "add")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown scene", []string{"scene", "set", "99", "title", "x"}, "scene 99 not found"},
		{"bad id", []string{"scene", "move", "abc", "up"}, `invalid scene id "abc"`},
		{"bad direction", []string{"scene", "move", "1", "left"}, "direction must be up or down"},
		{"bad field", []string{"scene", "set", "1", "colour", "red"}, "unknown scene field"},
		{"edit without flags", []string{"scene", "edit", "1"}, "nothing to update"},
		{"delete without confirmation", []string{"scene", "delete", "1"}, "--yes"},
		{"missing image", []string{"scene", "image", "1", filepath.Join(t.TempDir(), "nope.png")}, "read image"},
		{"bad view mode", []string{"project", "view", "table"}, "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, cfg, "", false, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.errOut, tt.wantErr)
		})
	}

	assert.Len(t, storedProject(t, cfg).Scenes, 1)
}

func TestSceneDelete_Interactive(t *testing.T) {
	cfg := writeConfig(t, "")
	mustRun(t, cfg, "scene", "add")

	res := run(t, cfg, "n\n", true, "scene", "delete", "1")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.out, "Cancelled.")
	assert.Len(t, storedProject(t, cfg).Scenes, 1)

	res = run(t, cfg, "y\n", true, "scene", "delete", "1")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.out, "Deleted scene 1")
	assert.Empty(t, storedProject(t, cfg).Scenes)
}

func TestSceneAdd_FromDir(t *testing.T) {
	cfg := writeConfig(t, "")
	images := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(images, "a.png"), pngHeader, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(images, "b.png"), pngHeader, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(images, "notes.txt"), []byte("x"), 0o644))

	out := mustRun(t, cfg, "scene", "add", "--from-dir", images)
	assert.Contains(t, out, "Added 2 scenes with 2 images")

	p := storedProject(t, cfg)
	require.Len(t, p.Scenes, 2)
	for _, s := range p.Scenes {
		require.NotNil(t, s.Image)
		assert.True(t, strings.HasPrefix(*s.Image, "data:image/png;base64,"))
	}

	res := run(t, cfg, "", false, "scene", "add", "--from-dir", t.TempDir())
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "no images found")
}

func TestSceneImage_AttachAndClear(t *testing.T) {
	cfg := writeConfig(t, "")
	mustRun(t, cfg, "scene", "add")
	img := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o644))

	mustRun(t, cfg, "scene", "image", "1", img)
	require.NotNil(t, storedProject(t, cfg).Scenes[0].Image)

	assert.Contains(t, mustRun(t, cfg, "scene", "image", "1", ""), "Removed image")
	assert.Nil(t, storedProject(t, cfg).Scenes[0].Image)
}

func TestProjectCommands(t *testing.T) {
	cfg := writeConfig(t, "")

	mustRun(t, cfg, "project", "title", "My Film")
	mustRun(t, cfg, "project", "view", "list")
	mustRun(t, cfg, "scene", "add")

	show := mustRun(t, cfg, "project", "show")
	assert.Contains(t, show, "My Film (list view)")
	assert.Contains(t, show, "Scene 1 (id 1)  5s")

	res := run(t, cfg, "", false, "project", "new")
	assert.Equal(t, 1, res.code)
	assert.Len(t, storedProject(t, cfg).Scenes, 1)

	assert.Contains(t, mustRun(t, cfg, "project", "new", "--yes"), `Created "Untitled Project"`)
	p := storedProject(t, cfg)
	assert.Empty(t, p.Scenes)
	assert.Equal(t, models.ViewList, p.ViewMode)
	assert.Contains(t, mustRun(t, cfg, "project", "show"), "No scenes yet")
}

func TestTimeline(t *testing.T) {
	cfg := writeConfig(t, "")
	assert.Contains(t, mustRun(t, cfg, "timeline"), "No scenes yet")

	mustRun(t, cfg, "scene", "add")
	mustRun(t, cfg, "scene", "add")
	mustRun(t, cfg, "scene", "set", "2", "duration", "25")

	out := mustRun(t, cfg, "timeline")
	assert.Contains(t, out, "scene-1")
	assert.Contains(t, out, "scene-2")
	assert.Contains(t, out, "25s")
	assert.Contains(t, out, "Total duration: 30s")
}

func TestPreview(t *testing.T) {
	cfg := writeConfig(t, "")

	res := run(t, cfg, "", false, "preview")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "no scenes to preview")

	mustRun(t, cfg, "scene", "add")
	mustRun(t, cfg, "scene", "add")
	mustRun(t, cfg, "scene", "set", "2", "narration", "The end")

	out := mustRun(t, cfg, "preview")
	assert.Contains(t, out, "1 / 2")
	assert.NotContains(t, out, "2 / 2")

	res = run(t, cfg, "n\nn\np\nq\nn\n", true, "preview")
	require.Equal(t, 0, res.code)
	assert.Equal(t, 2, strings.Count(res.out, "1 / 2"))
	assert.Equal(t, 2, strings.Count(res.out, "2 / 2"))
	assert.Contains(t, res.out, "The end")

	out = mustRun(t, cfg, "preview", "--slide", "5")
	assert.Contains(t, out, "2 / 2")
}

func TestExportImportJSON(t *testing.T) {
	cfg := writeConfig(t, "")
	outDir := t.TempDir()

	mustRun(t, cfg, "project", "title", "My Film")
	mustRun(t, cfg, "scene", "add")
	mustRun(t, cfg, "scene", "set", "1", "title", "Opening")

	out := mustRun(t, cfg, "export", "json", "--out", outDir)
	path := filepath.Join(outDir, "My_Film_storyboard.json")
	assert.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "2024-05-01T12:00:00.000Z", doc["exportDate"])

	other := writeConfig(t, "")
	mustRun(t, other, "scene", "add")
	mustRun(t, other, "scene", "add")
	assert.Contains(t, mustRun(t, other, "import", path), `Imported "My Film" with 1 scenes`)

	p := storedProject(t, other)
	assert.Equal(t, "My Film", p.Title)
	require.Len(t, p.Scenes, 1)
	assert.Equal(t, "Opening", p.Scenes[0].Title)
	assert.Equal(t, 1, p.LastAssignedID)
}

func TestExportJSON_TitleWithSeparators(t *testing.T) {
	cfg := writeConfig(t, "")
	outDir := t.TempDir()

	mustRun(t, cfg, "project", "title", "../Act 1/2")
	mustRun(t, cfg, "scene", "add")
	mustRun(t, cfg, "export", "json", "--out", outDir)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._Act_1_2_storyboard.json", entries[0].Name())
}

func TestImport_InvalidLeavesProject(t *testing.T) {
	cfg := writeConfig(t, "")
	mustRun(t, cfg, "scene", "add")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"projectTitle":"X","scenes":{}}`), 0o644))

	res := run(t, cfg, "", false, "import", bad)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, persistence.ErrInvalidSnapshot.Error())

	p := storedProject(t, cfg)
	assert.Equal(t, models.DefaultProjectTitle, p.Title)
	assert.Len(t, p.Scenes, 1)
}

func TestExportPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer server.Close()

	cfg := writeConfig(t, fmt.Sprintf("[pdf]\nrenderer_url = %q\ntimeout_seconds = 5\n", server.URL))
	outDir := t.TempDir()

	res := run(t, cfg, "", false, "export", "pdf", "--out", outDir)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "no scenes")

	mustRun(t, cfg, "scene", "add")
	out := mustRun(t, cfg, "export", "pdf", "--out", outDir)
	path := filepath.Join(outDir, "Untitled_Project_storyboard.pdf")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "[logging]\nlevel = \"loud\"\n")
	res := run(t, cfg, "", false, "project", "show")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "logging.level")
}
