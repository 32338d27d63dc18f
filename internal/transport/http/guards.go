package http

import (
	"errors"
	"net/http"

	"wicki/internal/domain"
	"wicki/internal/netutil"
	"wicki/internal/observability/logging"
	"wicki/internal/permission"
	"wicki/internal/service"

	"github.com/google/uuid"
)

func clientMeta(r *http.Request) service.ClientMeta {
	return service.ClientMeta{
		IP:        netutil.ClientIP(r),
		UserAgent: netutil.TruncateUserAgent(r.UserAgent()),
	}
}

// sessionID returns the verified session id from the cookie, or uuid.Nil.
func (h *Handler) sessionID(r *http.Request) (domain.SessionID, bool) {
	raw, err := h.Cookies.Read(r, SessionCookie)
	if err != nil {
		return uuid.Nil, !errors.Is(err, http.ErrNoCookie)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, true
	}
	return id, false
}

// getUserID resolves the caller. Missing, tampered, expired or orphaned
// sessions make the caller anonymous and clear the cookie; only storage
// failures are returned as errors.
func (h *Handler) getUserID(w http.ResponseWriter, r *http.Request) (domain.UserID, bool, error) {
	id, tampered := h.sessionID(r)
	if id == uuid.Nil {
		if tampered {
			h.Cookies.Clear(w, SessionCookie)
		}
		return uuid.Nil, false, nil
	}

	userID, err := h.Auth.ResolveSession(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		if lerr := h.Auth.Logout(r.Context(), id, clientMeta(r)); lerr != nil {
			logging.FromContext(r.Context()).Warn("drop stale session", "error", lerr)
		}
		h.Cookies.Clear(w, SessionCookie)
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

// requireUserID writes a login redirect (or a 500) and returns false when
// the caller is not authenticated.
func (h *Handler) requireUserID(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	userID, ok, err := h.getUserID(w, r)
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, false
	}
	if !ok {
		loginRedirect(w, r)
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return nil, false
	}
	u, err := h.Users.Get(r.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		h.logout(w, r, "/")
		return nil, false
	}
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return u, true
}

// requireAnonymous redirects authenticated callers to the home page.
func (h *Handler) requireAnonymous(w http.ResponseWriter, r *http.Request) bool {
	_, ok, err := h.getUserID(w, r)
	if err != nil {
		writeError(w, r, err)
		return false
	}
	if ok {
		redirect(w, r, "/")
		return false
	}
	return true
}

func (h *Handler) requireUserWithPermission(w http.ResponseWriter, r *http.Request, p permission.Permission) (domain.UserID, bool) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return uuid.Nil, false
	}
	allowed, err := h.Permissions.HasPermission(r.Context(), userID, p)
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, false
	}
	if !allowed {
		h.writeForbidden(w, "Unauthorized: required permissions: "+p.String())
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) requireUserWithRole(w http.ResponseWriter, r *http.Request, role string) (domain.UserID, bool) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return uuid.Nil, false
	}
	allowed, err := h.Permissions.HasRole(r.Context(), userID, role)
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, false
	}
	if !allowed {
		h.writeForbidden(w, "Unauthorized: required role: "+role)
		return uuid.Nil, false
	}
	return userID, true
}

// logout deletes the session row (failures are logged, not surfaced),
// clears the cookie and redirects.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request, redirectTo string) {
	if id, _ := h.sessionID(r); id != uuid.Nil {
		if err := h.Auth.Logout(r.Context(), id, clientMeta(r)); err != nil {
			logging.FromContext(r.Context()).Warn("logout: delete session", "error", err)
		}
	}
	h.Cookies.Clear(w, SessionCookie)
	redirect(w, r, netutil.SafeRedirect(redirectTo, "/"))
}
