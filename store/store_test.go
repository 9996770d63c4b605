package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/date"
)

// stores returns one store of each kind, in a fresh temporary directory.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "yootles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]Store{
		KindDir:    Dir(filepath.Join(t.TempDir(), "data")),
		KindSQLite: db,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			if _, err := s.Load(ctx, "friends"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Load() of a missing ledger error = %v, want fs.ErrNotExist", err)
			}
			if names, err := s.List(ctx); err != nil || len(names) != 0 {
				t.Errorf("List() = %v, %v, want nothing", names, err)
			}

			if err := s.Save(ctx, "friends", "v1"); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			if err := s.Save(ctx, "friends", "v2"); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			if err := s.Save(ctx, "family", "f"); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}

			got, err := s.Load(ctx, "friends")
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if got != "v2" {
				t.Errorf("Load() = %q, want the last saved %q", got, "v2")
			}
			names, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() unexpected error: %v", err)
			}
			if want := []string{"family", "friends"}; !reflect.DeepEqual(names, want) {
				t.Errorf("List() = %v, want %v", names, want)
			}

			if err := s.Save(ctx, "../escape", "x"); !errors.Is(err, yootles.ErrInvalidName) {
				t.Errorf("Save() of an invalid name error = %v, want %v", err, yootles.ErrInvalidName)
			}
		})
	}
}

func TestDir_Layout(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "friends-snapshot.txt"), []byte(`account[alice, "Alice"];`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a ledger"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Dir(dir)
	l, err := yootles.Load(context.Background(), s, "friends", date.Today())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if l.Account("alice") == nil {
		t.Errorf("Load() accounts = %v, want alice", l.Accounts)
	}
	names, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if want := []string{"friends"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open("cloud", t.TempDir()); err == nil {
		t.Error("Open(cloud) want an error")
	}
	s, err := Open(KindDir, t.TempDir())
	if err != nil {
		t.Fatalf("Open(dir) unexpected error: %v", err)
	}
	if _, ok := s.(Dir); !ok {
		t.Errorf("Open(dir) = %T, want Dir", s)
	}
}
