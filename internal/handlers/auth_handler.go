package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"payments-monitor/internal/auth"
	"payments-monitor/internal/models"
	"payments-monitor/pkg/utils"
)

// AuthHandler logs in the single admin account configured at startup
type AuthHandler struct {
	jwtManager   *auth.JWTManager
	adminEmail   string
	passwordHash string
	tokenTTL     time.Duration
}

func NewAuthHandler(jwtManager *auth.JWTManager, adminEmail, passwordHash string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		jwtManager:   jwtManager,
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

// Login handles admin authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.adminEmail == "" || email != h.adminEmail || !auth.VerifyPassword(h.passwordHash, req.Password) {
		log.Printf("[Auth] Failed login for %q from %s", email, getIPAddress(r))
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.jwtManager.GenerateToken(email)
	if err != nil {
		log.Printf("[Auth] Failed to sign token: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("[Auth] Admin login from %s", getIPAddress(r))
	utils.JSON(w, http.StatusOK, models.AuthResponse{
		Token:     token,
		Email:     email,
		ExpiresAt: time.Now().Add(h.tokenTTL).UTC(),
	})
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first (for proxies/load balancers)
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// Strip the port from RemoteAddr
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i != -1 {
		return addr[:i]
	}
	return addr
}
