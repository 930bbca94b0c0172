package devapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/onemove/affiliate-portal/internal/validate"
)

// Wire shapes, matching the production backend's snake_case payloads.

type affiliateRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	Language    string `json:"language"`
	UniqueLink  string `json:"unique_link"`
	OnemoveLink string `json:"onemove_link"`
	PuprimeLink string `json:"puprime_link"`
	CreatedAt   string `json:"created_at"`
}

type pendingRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	Language  string `json:"language"`
	CreatedAt string `json:"created_at"`
}

type referralRow struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Headline  string `json:"headline"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

type registerPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Location    string `json:"location"`
	Language    string `json:"language"`
	OnemoveLink string `json:"onemove_link"`
	PuprimeLink string `json:"puprime_link"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type reviewPayload struct {
	RequestID int64  `json:"request_id"`
	Approve   bool   `json:"approve"`
	Reason    string `json:"reason"`
}

// seedAdmin makes sure a login exists on a fresh database.
func (s *Server) seedAdmin() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM accounts WHERE role = ?", roleAdmin).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("INSERT INTO accounts (email, password_hash, role) VALUES (?, ?, ?)",
		"admin@1move.local", string(hash), roleAdmin)
	if err != nil {
		return err
	}
	log.Info().Str("email", "admin@1move.local").Msg("seeded admin account")
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("linkCode") != s.linkCode {
		writeError(w, http.StatusForbidden, "Invalid registration link")
		return
	}
	var p registerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Name == "" || p.Email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if err := validate.Password(p.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.URL(p.OnemoveLink); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.URL(p.PuprimeLink); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var exists bool
	s.db.QueryRow(`SELECT EXISTS(
		SELECT 1 FROM pending_requests WHERE email = ?
		UNION SELECT 1 FROM accounts WHERE email = ?)`, p.Email, p.Email).Scan(&exists)
	if exists {
		writeError(w, http.StatusConflict, "An application with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_, err = s.db.Exec(`INSERT INTO pending_requests
		(name, email, password_hash, location, language, onemove_link, puprime_link)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Email, string(hash), p.Location, p.Language, p.OnemoveLink, p.PuprimeLink)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Application submitted. You will be notified once it is reviewed.",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))

	var id int64
	var hash string
	err := s.db.QueryRow("SELECT id, password_hash FROM accounts WHERE email = ?", email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(p.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO tokens (token, account_id) VALUES (?, ?)", token, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// The production backend responds with the prefix already baked into
	// access_token; the client normalizes it away, so keep the shape.
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": "Bearer " + token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleListAffiliates(w http.ResponseWriter, r *http.Request, _ *account) {
	rows, err := s.db.Query(`SELECT id, name, email, location, language,
		unique_link, onemove_link, puprime_link, created_at
		FROM affiliates ORDER BY created_at DESC`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer rows.Close()

	affiliates := []affiliateRow{}
	for rows.Next() {
		var a affiliateRow
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Location, &a.Language,
			&a.UniqueLink, &a.OnemoveLink, &a.PuprimeLink, &a.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		affiliates = append(affiliates, a)
	}
	writeJSON(w, http.StatusOK, affiliates)
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request, _ *account) {
	rows, err := s.db.Query(`SELECT id, name, email, location, language, created_at
		FROM pending_requests ORDER BY created_at ASC`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer rows.Close()

	pending := []pendingRow{}
	for rows.Next() {
		var p pendingRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Location, &p.Language, &p.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		pending = append(pending, p)
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request, reviewer *account) {
	var p reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req registerPayload
	var hash string
	err := s.db.QueryRow(`SELECT name, email, password_hash, location, language,
		onemove_link, puprime_link FROM pending_requests WHERE id = ?`, p.RequestID).
		Scan(&req.Name, &req.Email, &hash, &req.Location, &req.Language,
			&req.OnemoveLink, &req.PuprimeLink)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Pending request not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !p.Approve {
		s.db.Exec("DELETE FROM pending_requests WHERE id = ?", p.RequestID)
		log.Info().Int64("request_id", p.RequestID).Str("reviewer", reviewer.Email).
			Str("reason", p.Reason).Msg("application rejected")
		writeJSON(w, http.StatusOK, map[string]string{"message": "Application rejected"})
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO accounts (email, password_hash, role) VALUES (?, ?, ?)",
		req.Email, hash, roleAffiliate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	accountID, _ := res.LastInsertId()

	uniqueLink := fmt.Sprintf("https://portal.1move.example/ref/%s", uuid.NewString())
	_, err = tx.Exec(`INSERT INTO affiliates
		(account_id, name, email, location, language, unique_link, onemove_link, puprime_link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, req.Name, req.Email, req.Location, req.Language,
		uniqueLink, req.OnemoveLink, req.PuprimeLink)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if _, err := tx.Exec("DELETE FROM pending_requests WHERE id = ?", p.RequestID); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info().Int64("request_id", p.RequestID).Str("reviewer", reviewer.Email).
		Str("reason", p.Reason).Msg("application approved")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Application approved"})
}

func (s *Server) affiliateByAccount(accountID int64) (*affiliateRow, error) {
	var a affiliateRow
	err := s.db.QueryRow(`SELECT id, name, email, location, language,
		unique_link, onemove_link, puprime_link, created_at
		FROM affiliates WHERE account_id = ?`, accountID).
		Scan(&a.ID, &a.Name, &a.Email, &a.Location, &a.Language,
			&a.UniqueLink, &a.OnemoveLink, &a.PuprimeLink, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, acc *account) {
	a, err := s.affiliateByAccount(acc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Affiliate profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request, acc *account) {
	// Deleting the account cascades to the affiliate row, its referrals
	// and every issued token.
	res, err := s.db.Exec("DELETE FROM accounts WHERE id = ?", acc.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "Affiliate profile not found")
		return
	}
	log.Info().Str("email", acc.Email).Msg("affiliate profile deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted"})
}

func (s *Server) handleReferrals(w http.ResponseWriter, r *http.Request, acc *account) {
	rows, err := s.db.Query(`SELECT r.id, r.full_name, r.headline, r.email,
		r.location, r.timezone, r.created_at
		FROM referrals r JOIN affiliates a ON a.id = r.affiliate_id
		WHERE a.account_id = ? ORDER BY r.created_at DESC`, acc.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer rows.Close()

	referrals := []referralRow{}
	for rows.Next() {
		var ref referralRow
		if err := rows.Scan(&ref.ID, &ref.FullName, &ref.Headline, &ref.Email,
			&ref.Location, &ref.Timezone, &ref.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		referrals = append(referrals, ref)
	}
	writeJSON(w, http.StatusOK, referrals)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, acc *account) {
	var status, joined string
	var earnings, rate float64
	var affiliateID int64
	err := s.db.QueryRow(`SELECT id, status, earnings, commission_rate, created_at
		FROM affiliates WHERE account_id = ?`, acc.ID).
		Scan(&affiliateID, &status, &earnings, &rate, &joined)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Affiliate profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var total int
	s.db.QueryRow("SELECT COUNT(*) FROM referrals WHERE affiliate_id = ?", affiliateID).Scan(&total)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          status,
		"total_referrals": total,
		"earnings":        earnings,
		"commission_rate": rate,
		"joined_at":       joined,
	})
}
