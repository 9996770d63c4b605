package yootles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// padServer serves the pads by name, as the collaborative pad does.
func padServer(t *testing.T, pads map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for name, text := range pads {
		mux.HandleFunc("/yl-"+name+"/export/txt", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(text))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// recorder is a Notifier remembering the ledgers it was told about.
type recorder struct {
	names []string
	err   error
}

func (r *recorder) LedgerChanged(_ context.Context, name string) error {
	r.names = append(r.names, name)
	return r.err
}

func TestPadSource_Fetch(t *testing.T) {
	srv := padServer(t, map[string]string{"friends": "account[alice, \"Alice\"];"})
	src := PadSource{BaseURL: srv.URL + "/", Client: srv.Client()}

	got, err := src.Fetch(context.Background(), "friends")
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if want := "account[alice, \"Alice\"];"; got != want {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}

	if _, err := src.Fetch(context.Background(), "strangers"); err == nil {
		t.Error("Fetch(strangers) want an error for a missing pad")
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	srv := padServer(t, map[string]string{"friends": "account[alice, \"Alice\"];"})
	src := PadSource{BaseURL: srv.URL, Client: srv.Client()}

	t.Run("saves and notifies", func(t *testing.T) {
		store, n := memStore{}, &recorder{}
		if err := Refresh(ctx, src, store, n, "friends"); err != nil {
			t.Fatalf("Refresh() unexpected error: %v", err)
		}
		if got := store["friends"]; got != "account[alice, \"Alice\"];" {
			t.Errorf("saved snapshot = %q", got)
		}
		if len(n.names) != 1 || n.names[0] != "friends" {
			t.Errorf("notified %v, want [friends]", n.names)
		}
	})

	t.Run("notification failure is ignored", func(t *testing.T) {
		store := memStore{}
		n := &recorder{err: errors.New("broker down")}
		if err := Refresh(ctx, src, store, n, "friends"); err != nil {
			t.Fatalf("Refresh() unexpected error: %v", err)
		}
		if _, ok := store["friends"]; !ok {
			t.Error("snapshot not saved")
		}
	})

	t.Run("nil notifier", func(t *testing.T) {
		if err := Refresh(ctx, src, memStore{}, nil, "friends"); err != nil {
			t.Fatalf("Refresh() unexpected error: %v", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		err := Refresh(ctx, src, memStore{}, nil, "../friends")
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Refresh() error = %v, want %v", err, ErrInvalidName)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		n := &recorder{}
		if err := Refresh(ctx, src, brokenStore{errors.New("read only")}, n, "friends"); err == nil {
			t.Error("Refresh() want an error when the snapshot cannot be saved")
		}
		if len(n.names) != 0 {
			t.Errorf("notified %v, want nothing", n.names)
		}
	})
}
