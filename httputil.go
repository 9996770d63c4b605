package yootles

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// contains http utils to deal with remote services

// DefaultPadURL is the collaborative pad server hosting the ledger sources.
const DefaultPadURL = "https://padm.us"

// PadSource fetches ledger sources from the collaborative pad, where the
// ledger "name" is edited in the pad "yl-name".
type PadSource struct {
	BaseURL string       // DefaultPadURL if empty
	Client  *http.Client // http.DefaultClient if nil
}

// Fetch returns the plain text export of the ledger's pad.
func (p PadSource) Fetch(ctx context.Context, name string) (string, error) {
	base := p.BaseURL
	if base == "" {
		base = DefaultPadURL
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	addr := strings.TrimSuffix(base, "/") + "/yl-" + url.PathEscape(name) + "/export/txt"
	text, err := tget(ctx, client, addr)
	if err != nil {
		return "", fmt.Errorf("could not fetch ledger %q from pad: %w", name, err)
	}
	return text, nil
}

// Notifier is told when a ledger source changed, so that viewers can refresh.
type Notifier interface {
	LedgerChanged(ctx context.Context, name string) error
}

// Refresh fetches the ledger name from the pad and saves it as the new
// snapshot. A failing notification is logged, the snapshot is saved anyway.
// n may be nil.
func Refresh(ctx context.Context, src PadSource, s Store, n Notifier, name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	text, err := src.Fetch(ctx, name)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, name, text); err != nil {
		return fmt.Errorf("could not save ledger %q: %w", name, err)
	}
	if n != nil {
		if err := n.LedgerChanged(ctx, name); err != nil {
			log.Printf("could not notify change of ledger %q (ignored): %v", name, err)
		}
	}
	return nil
}

// tget performs an HTTP GET request and returns the response body as text.
func tget(ctx context.Context, client *http.Client, addr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return "", err
	}
	return buf.String(), nil
}
