// Package server exposes ledgers over HTTP as JSON and CSV.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/date"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Server computes ledgers from a store on demand and caches them for the day.
type Server struct {
	store    yootles.Store
	pad      yootles.PadSource
	notifier yootles.Notifier
	ledgers  *cache.Cache
	limiter  *rate.Limiter
	today    func() date.Date
}

// New returns a server reading ledgers from store and refreshing them from
// pad. notifier may be nil.
func New(store yootles.Store, pad yootles.PadSource, notifier yootles.Notifier) *Server {
	return &Server{
		store:    store,
		pad:      pad,
		notifier: notifier,
		ledgers:  cache.New(15*time.Minute, 30*time.Minute),
		limiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 30),
		today:    date.Today,
	}
}

// cacheKey is specific to the day, balances change every day.
func cacheKey(name string, on date.Date) string { return name + "@" + on.String() }

// ledger returns the ledger name computed for today, from cache if possible.
func (s *Server) ledger(ctx context.Context, name string) (*yootles.Ledger, error) {
	today := s.today()
	key := cacheKey(name, today)
	if l, found := s.ledgers.Get(key); found {
		return l.(*yootles.Ledger), nil
	}
	l, err := yootles.Load(ctx, s.store, name, today)
	if err != nil {
		return nil, err
	}
	s.ledgers.Set(key, l, cache.DefaultExpiration)
	return l, nil
}

// Invalidate drops the cached ledger name, it is computed again on the next
// request.
func (s *Server) Invalidate(name string) {
	s.ledgers.Delete(cacheKey(name, s.today()))
}

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()

	log.Printf("server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	log.Println("server stopped")
	return nil
}
