// Package devapi is the bundled stand-in for the production affiliate
// backend. It implements the same wire contract against a local sqlite
// file so the portal runs end to end without an upstream, including the
// double "Bearer Bearer" Authorization header the real backend expects.
package devapi

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type Server struct {
	db       *sql.DB
	linkCode string
	mux      *http.ServeMux
}

func New(dbPath, linkCode string) (*Server, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Server{db: db, linkCode: linkCode, mux: http.NewServeMux()}
	s.routes()
	if err := s.seedAdmin(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /register/{linkCode}", s.handleRegister)
	s.mux.HandleFunc("POST /login", s.handleLogin)

	s.mux.Handle("GET /admin/affiliates", s.requireRole(roleAdmin, s.handleListAffiliates))
	s.mux.Handle("GET /admin/pending-requests", s.requireRole(roleAdmin, s.handleListPending))
	s.mux.Handle("POST /admin/review-request", s.requireRole(roleAdmin, s.handleReview))

	s.mux.Handle("GET /affiliate/profile", s.requireRole(roleAffiliate, s.handleProfile))
	s.mux.Handle("DELETE /affiliate/profile", s.requireRole(roleAffiliate, s.handleDeleteProfile))
	s.mux.Handle("GET /affiliate/referrals", s.requireRole(roleAffiliate, s.handleReferrals))
	s.mux.Handle("GET /affiliate/status", s.requireRole(roleAffiliate, s.handleStatus))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// writeError uses the "detail" key, matching the upstream backend's error
// body so the client's message extraction works unchanged.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
