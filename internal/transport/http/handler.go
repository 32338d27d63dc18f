package http

import (
	"context"
	"net/http"
	"time"

	"wicki/internal/dto"
	"wicki/internal/observability/logging"
	"wicki/internal/service"
	"wicki/internal/validation"
)

type Handler struct {
	Auth          service.AuthService
	Permissions   service.PermissionService
	Verifications service.VerificationService
	Users         service.UserService
	Posts         service.PostService
	Email         service.EmailService
	Cookies       *CookieCodec

	// Ping checks the database for /healthcheck.
	Ping func(ctx context.Context) error
	// Dev adds authorization details to 403 responses.
	Dev bool
}

func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.Ping != nil {
		if err := h.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).Error("healthcheck failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "unhealthy"})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// me returns the root data shared by every page.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	out := dto.MeResponse{Theme: ReadTheme(r)}

	userID, ok, err := h.getUserID(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ok {
		u, err := h.Users.Get(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		roles, perms, err := h.Permissions.Capabilities(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out.User = &dto.CurrentUser{
			ID:          u.ID.String(),
			Username:    u.Username,
			Email:       u.Email,
			Roles:       roles,
			Permissions: perms,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) themeSwitch(w http.ResponseWriter, r *http.Request) {
	req := dto.ThemeRequest{Theme: r.PostFormValue("theme")}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}
	h.Cookies.WriteTheme(w, req.Theme)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "theme": req.Theme})
}
