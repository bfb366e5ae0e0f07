package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cantinho/common/httputil"
	"cantinho/internal/remote"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes mounts the public auth routes.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/login", h.Login)
}

// RegisterPrivateRoutes mounts routes that sit behind RequireAuth.
func (h *Handler) RegisterPrivateRoutes(router chi.Router) {
	router.Get("/me", h.Me)
	router.Post("/auth/logout", h.Logout)
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *remote.User `json:"user"`
}

type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to decode request", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.manager.SignIn(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidInput):
		h.logger.WarnContext(r.Context(), "validation failed", "error", err)
		httputil.RespondWithValidationError(w, err)
	case errors.Is(err, ErrInvalidCredentials):
		h.logger.InfoContext(r.Context(), "login rejected", "email", req.Email)
		httputil.RespondWithError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case err != nil:
		h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadGateway, "failed to sign in")
	default:
		token := h.manager.Token()
		h.setCookie(w, r, token)
		httputil.RespondWithJSON(w, http.StatusOK, LoginResponse{AccessToken: token, User: user})
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.manager.SignOut(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.RespondWithJSON(w, http.StatusOK, LogoutResponse{Redirect: "/"})
}

func (h *Handler) setCookie(w http.ResponseWriter, r *http.Request, token string) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if claims, err := DecodeToken(token); err == nil && !claims.ExpiresAt.IsZero() {
		cookie.Expires = claims.ExpiresAt
	}
	http.SetCookie(w, cookie)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, user)
}
