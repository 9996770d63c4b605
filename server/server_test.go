package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/date"
	"golang.org/x/time/rate"
)

// memStore is an in-memory yootles.Store, safe for concurrent use.
type memStore struct {
	mu    sync.Mutex
	texts map[string]string
}

func (m *memStore) Load(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.texts[name]
	if !ok {
		return "", fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return text, nil
}

func (m *memStore) Save(_ context.Context, name, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[name] = text
	return nil
}

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) LedgerChanged(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	return nil
}

const friends = `account[alice, "Alice"];
account[bob, "Bob"];
iou[2024.01.15, 100, alice, bob, "loan"];`

// newTestServer returns a running API over a store holding a few ledgers and
// a pad serving the next version of "friends".
func newTestServer(t *testing.T) (*httptest.Server, *Server, *recorder) {
	t.Helper()
	pad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/yl-friends/export/txt" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, friends+"\niou[2024.02.01, 50, bob, alice, \"refund\"];")
	}))
	t.Cleanup(pad.Close)

	store := &memStore{texts: map[string]string{
		"friends": friends,
		"blank":   "\n",
		"broken":  "account[alice, \"Alice\"];\niou[oops",
	}}
	n := &recorder{}
	s := New(store, yootles.PadSource{BaseURL: pad.URL, Client: pad.Client()}, n)
	s.today = func() date.Date { return date.New(2024, 6, 1) }

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, s, n
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func TestRouter_Status(t *testing.T) {
	srv, _, _ := newTestServer(t)

	testCases := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/health", http.StatusOK, `"ok"`},
		{"/api/ledger/friends", http.StatusOK, `"balance":100.00`},
		{"/api/ledger/broken", http.StatusOK, `"error":"line 2: syntax error`},
		{"/api/ledger/strangers", http.StatusNotFound, `ledger not found`},
		{"/api/ledger/bad.name", http.StatusBadRequest, `invalid ledger name`},
		{"/api/ledger/blank", http.StatusBadRequest, `ledger is empty`},
		{"/api/ledger/friends/statement/alice", http.StatusOK, `"balance":-100.00`},
		{"/api/ledger/friends/statement/carol", http.StatusNotFound, `unknown account`},
		{"/api/ledger/broken/transactions.csv", http.StatusUnprocessableEntity, `syntax error`},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			code, body, _ := get(t, srv.URL+tc.path)
			if code != tc.wantCode {
				t.Errorf("GET %s code = %d, want %d: %s", tc.path, code, tc.wantCode, body)
			}
			if !strings.Contains(body, tc.wantBody) {
				t.Errorf("GET %s body = %s, want it to contain %s", tc.path, body, tc.wantBody)
			}
		})
	}
}

func TestRouter_TransactionsCSV(t *testing.T) {
	srv, _, _ := newTestServer(t)

	code, body, header := get(t, srv.URL+"/api/ledger/friends/transactions.csv")
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200: %s", code, body)
	}
	if got := header.Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
	if got := header.Get("Content-Disposition"); !strings.Contains(got, "friends-transactions.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}
	want := "Date,From,To,Amount,Description\n2024-01-15,Alice,Bob,100.00,loan\n"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestRouter_Refresh(t *testing.T) {
	srv, _, n := newTestServer(t)

	// Computes and caches the current version.
	if code, body, _ := get(t, srv.URL+"/api/ledger/friends"); code != http.StatusOK {
		t.Fatalf("GET code = %d: %s", code, body)
	}

	resp, err := http.Post(srv.URL+"/api/ledger/friends/refresh", "", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	var got map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding refresh response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !got["success"] {
		t.Fatalf("POST refresh = %d %v, want 200 success", resp.StatusCode, got)
	}
	if len(n.names) != 1 || n.names[0] != "friends" {
		t.Errorf("notified %v, want [friends]", n.names)
	}

	_, body, _ := get(t, srv.URL+"/api/ledger/friends")
	if !strings.Contains(body, `"balance":50.00`) {
		t.Errorf("GET after refresh = %s, want the refreshed balances", body)
	}

	resp, err = http.Post(srv.URL+"/api/ledger/strangers/refresh", "", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("POST refresh of an unknown pad = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	srv, s, _ := newTestServer(t)
	s.limiter = rate.NewLimiter(0, 1)

	if code, _, _ := get(t, srv.URL+"/health"); code != http.StatusOK {
		t.Errorf("first request code = %d, want 200", code)
	}
	if code, _, _ := get(t, srv.URL+"/health"); code != http.StatusTooManyRequests {
		t.Errorf("second request code = %d, want 429", code)
	}
}

func TestServer_Invalidate(t *testing.T) {
	_, s, _ := newTestServer(t)
	ctx := context.Background()

	first, err := s.ledger(ctx, "friends")
	if err != nil {
		t.Fatalf("ledger() unexpected error: %v", err)
	}
	if again, _ := s.ledger(ctx, "friends"); again != first {
		t.Error("ledger() did not use the cache")
	}
	s.Invalidate("friends")
	if again, _ := s.ledger(ctx, "friends"); again == first {
		t.Error("ledger() used the cache after Invalidate")
	}
}
