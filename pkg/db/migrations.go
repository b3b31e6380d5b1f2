package db

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migration is a single SQL migration file
type Migration struct {
	Filename string
	SQL      string
}

// PendingMigrations reads the .sql files in dir, sorted by filename, skipping those already applied
func PendingMigrations(fsys fs.FS, dir string, applied map[string]bool) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var filenames []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			filenames = append(filenames, entry.Name())
		}
	}
	sort.Strings(filenames)

	var pending []Migration
	for _, filename := range filenames {
		if applied[filename] {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}
		pending = append(pending, Migration{Filename: filename, SQL: string(content)})
	}

	return pending, nil
}
