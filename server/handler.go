package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/etnz/yootles"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("could not write response: %v", err)
	}
}

// writeErr writes err as {"error": "..."}.
func writeErr(w http.ResponseWriter, err error, code int) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// loadStatus maps a yootles.Load error to an HTTP status.
func loadStatus(err error) int {
	switch {
	case errors.Is(err, yootles.ErrInvalidName),
		errors.Is(err, yootles.ErrEmpty),
		errors.Is(err, yootles.ErrNoAccounts):
		return http.StatusBadRequest
	case errors.Is(err, yootles.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getLedger writes the ledger, or its syntax error, as JSON.
func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.ledger(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeErr(w, err, loadStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) getTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	l, err := s.ledger(r.Context(), name)
	if err != nil {
		writeErr(w, err, loadStatus(err))
		return
	}
	if err := l.Err(); err != nil {
		writeErr(w, err, http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"-transactions.csv"))
	if err := yootles.EncodeTransactionsCSV(w, l); err != nil {
		log.Printf("could not write transactions of %q: %v", name, err)
	}
}

func (s *Server) getStatement(w http.ResponseWriter, r *http.Request) {
	l, err := s.ledger(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeErr(w, err, loadStatus(err))
		return
	}
	if err := l.Err(); err != nil {
		writeErr(w, err, http.StatusUnprocessableEntity)
		return
	}
	account := chi.URLParam(r, "account")
	if l.Account(account) == nil {
		writeErr(w, fmt.Errorf("unknown account %q", account), http.StatusNotFound)
		return
	}
	lines, err := l.Statement(account)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// refresh fetches the ledger source from the pad and drops the cached result.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := yootles.Refresh(r.Context(), s.pad, s.store, s.notifier, name)
	switch {
	case errors.Is(err, yootles.ErrInvalidName):
		writeErr(w, err, http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("could not refresh %q: %v", name, err)
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	s.Invalidate(name)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
