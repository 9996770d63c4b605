package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const snapshotSuffix = "-snapshot.txt"

// Dir stores the ledger "name" in the file <dir>/<name>-snapshot.txt.
type Dir string

func (d Dir) path(name string) string {
	return filepath.Join(string(d), name+snapshotSuffix)
}

// Load reads the snapshot file. A missing file is an error wrapping
// fs.ErrNotExist.
func (d Dir) Load(_ context.Context, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	content, err := os.ReadFile(d.path(name))
	if err != nil {
		return "", fmt.Errorf("could not read snapshot %q: %w", name, err)
	}
	return string(content), nil
}

// Save replaces the snapshot file. The content is written to a temporary file
// first, so readers never see a partial snapshot.
func (d Dir) Save(_ context.Context, name, text string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(string(d), 0755); err != nil {
		return fmt.Errorf("could not create snapshot directory: %w", err)
	}
	f, err := os.CreateTemp(string(d), name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not save snapshot %q: %w", name, err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("could not save snapshot %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not save snapshot %q: %w", name, err)
	}
	if err := os.Rename(f.Name(), d.path(name)); err != nil {
		return fmt.Errorf("could not save snapshot %q: %w", name, err)
	}
	return nil
}

// List returns the names of the snapshot files in the directory. A missing
// directory holds no ledger.
func (d Dir) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(string(d))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not list snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), snapshotSuffix)
		if e.IsDir() || !ok || checkName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
