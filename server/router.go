package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns the HTTP API:
//
//	GET  /health
//	GET  /api/ledger/{name}
//	GET  /api/ledger/{name}/transactions.csv
//	GET  /api/ledger/{name}/statement/{account}
//	POST /api/ledger/{name}/refresh
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	r.Use(s.rateLimit)

	r.Get("/health", s.health)
	r.Route("/api/ledger/{name}", func(r chi.Router) {
		r.Get("/", s.getLedger)
		r.Get("/transactions.csv", s.getTransactionsCSV)
		r.Get("/statement/{account}", s.getStatement)
		r.Post("/refresh", s.refresh)
	})
	return r
}

// rateLimit answers 429 once the server wide request budget is exhausted.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			log.Printf("rate limit exceeded: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
