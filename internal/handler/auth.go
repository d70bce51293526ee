package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dinedesk-lite/api/internal/auth"
	"github.com/dinedesk-lite/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// ProfileStore defines the database methods needed by the admin profile handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProfileStore interface {
	GetAdminProfile(ctx context.Context) (database.AdminProfile, error)
	CreateAdminProfile(ctx context.Context, arg database.CreateAdminProfileParams) (database.AdminProfile, error)
	UpdateAdminProfile(ctx context.Context, arg database.UpdateAdminProfileParams) (database.AdminProfile, error)
}

// AuthHandler owns the admin profile and the PIN unlock.
type AuthHandler struct {
	store     ProfileStore
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler. Unlock tokens live for tokenTTL.
func NewAuthHandler(store ProfileStore, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// RegisterRoutes registers the unauthenticated admin endpoints.
// Expected to be mounted at /admin
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/profile", h.Setup)
	r.Post("/unlock", h.Unlock)
}

// RegisterProtectedRoutes registers the endpoints that need an unlock token.
// Expected to be mounted at /admin behind the admin scope check.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
}

// --- Request / Response types ---

type profileRequest struct {
	AdminName string `json:"admin_name"`
	Pin       string `json:"pin"`
}

type unlockRequest struct {
	Pin string `json:"pin"`
}

type profileResponse struct {
	AdminName string    `json:"admin_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

type unlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Handlers ---

// Setup creates the admin profile. It can only succeed once.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.AdminName = strings.TrimSpace(req.AdminName)
	if req.AdminName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "admin_name is required"})
		return
	}
	if !validPin(req.Pin) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pin must be 4 to 8 digits"})
		return
	}

	if _, err := h.store.GetAdminProfile(r.Context()); err == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "admin profile already exists"})
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("ERROR: get admin profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash pin: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	profile, err := h.store.CreateAdminProfile(r.Context(), database.CreateAdminProfileParams{
		AdminName: req.AdminName,
		HashedPin: string(hash),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "admin profile already exists"})
			return
		}
		log.Printf("ERROR: create admin profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, profileResponse{AdminName: profile.AdminName, UpdatedAt: profile.UpdatedAt})
}

// Unlock checks the PIN and issues a short-lived admin token.
func (h *AuthHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Pin == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pin is required"})
		return
	}

	profile, err := h.store.GetAdminProfile(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "admin profile is not set up"})
			return
		}
		log.Printf("ERROR: get admin profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.HashedPin), []byte(req.Pin)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid pin"})
		return
	}

	token, expires, err := auth.GenerateAdminToken(h.jwtSecret, profile.AdminName, h.tokenTTL)
	if err != nil {
		log.Printf("ERROR: generate admin token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, unlockResponse{Token: token, ExpiresAt: expires})
}

// GetProfile returns the admin profile without the PIN hash.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.GetAdminProfile(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "admin profile is not set up"})
			return
		}
		log.Printf("ERROR: get admin profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{AdminName: profile.AdminName, UpdatedAt: profile.UpdatedAt})
}

// UpdateProfile renames the admin and optionally changes the PIN. An empty
// pin keeps the current one.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.AdminName = strings.TrimSpace(req.AdminName)
	if req.AdminName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "admin_name is required"})
		return
	}
	if req.Pin != "" && !validPin(req.Pin) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pin must be 4 to 8 digits"})
		return
	}

	current, err := h.store.GetAdminProfile(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "admin profile is not set up"})
			return
		}
		log.Printf("ERROR: get admin profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	hashed := current.HashedPin
	if req.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: hash pin: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		hashed = string(hash)
	}

	profile, err := h.store.UpdateAdminProfile(r.Context(), database.UpdateAdminProfileParams{
		AdminName: req.AdminName,
		HashedPin: hashed,
	})
	if err != nil {
		log.Printf("ERROR: update admin profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{AdminName: profile.AdminName, UpdatedAt: profile.UpdatedAt})
}

// --- Helpers ---

func validPin(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
