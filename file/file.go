package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageExtensions are the file types picked up when building scenes from a
// directory.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp", "svg"}

// ImageFiles returns the image files directly inside dir, sorted by name so
// scenes are created in a predictable order.
func ImageFiles(dir string) ([]string, error) {
	return FilesWithExtensions(dir, ImageExtensions)
}

// FilesWithExtensions lists the files directly inside dir whose extension is
// in extensions, compared case-insensitively. Hidden files and
// subdirectories are skipped.
func FilesWithExtensions(dir string, extensions []string) ([]string, error) {
	// Normalize extensions to include the dot and be lowercase
	normalizedExts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalizedExts[ext] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := normalizedExts[strings.ToLower(filepath.Ext(name))]; ok {
			files = append(files, filepath.Join(dir, name))
		}
	}

	sort.Strings(files)
	return files, nil
}
