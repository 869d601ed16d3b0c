package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"horizon/internal/domain/user"
	"horizon/internal/shared/logging"
	"horizon/internal/shared/middleware"
)

const minPasswordLength = 8

// IdentityService is the slice of the identity vendor the auth handler
// needs. Credential custody stays with the vendor; only opaque session
// secrets flow through here.
type IdentityService interface {
	CreateUser(ctx context.Context, params user.SignUpParams) (*user.Principal, error)
	CreateEmailSession(ctx context.Context, email, password string) (*user.Session, error)
	GetAccount(ctx context.Context, sessionToken string) (*user.Principal, error)
	DeleteSession(ctx context.Context, sessionToken string) error
}

// AuthHandler manages sign-up, sign-in and sign-out through the identity
// vendor and owns the session cookie.
type AuthHandler struct {
	identity      IdentityService
	cookieName    string
	cookieMaxAge  time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(identity IdentityService, cookieName string, cookieMaxAge time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		identity:      identity,
		cookieName:    cookieName,
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp registers a new user and opens a session for them.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var params user.SignUpParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		writeError(w, http.StatusBadRequest, "email must be a valid email address")
		return
	}
	if len(params.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	principal, err := h.identity.CreateUser(r.Context(), params)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create user")
		writeError(w, http.StatusBadGateway, "failed to create user")
		return
	}

	session, err := h.identity.CreateEmailSession(r.Context(), params.Email, params.Password)
	if err != nil {
		logger.Error().Err(err).Str("user_id", principal.ID).Msg("failed to open session after sign-up")
		writeError(w, http.StatusBadGateway, "failed to create session")
		return
	}

	h.setSessionCookie(w, session.Secret)
	writeJSON(w, http.StatusCreated, principal)
}

// HandleSignIn exchanges credentials for a session cookie.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := h.identity.CreateEmailSession(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Debug().Err(err).Msg("sign-in rejected")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	principal, err := h.identity.GetAccount(r.Context(), session.Secret)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load account after sign-in")
		writeError(w, http.StatusBadGateway, "failed to load account")
		return
	}

	h.setSessionCookie(w, session.Secret)
	writeJSON(w, http.StatusOK, principal)
}

// HandleSignOut revokes the current session and clears the cookie. The
// cookie is cleared even when the vendor revocation fails.
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.identity.DeleteSession(r.Context(), cookie.Value); err != nil {
			logger.Warn().Err(err).Msg("failed to revoke session")
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated principal.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, principal)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, secret string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    secret,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
