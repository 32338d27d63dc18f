package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"wicki/internal/domain"
	"wicki/internal/dto"
	"wicki/internal/observability/logging"
	"wicki/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

// loginRedirect sends the caller to the login page, remembering where they
// were going.
func loginRedirect(w http.ResponseWriter, r *http.Request) {
	redirectTo := r.URL.Path
	if r.URL.RawQuery != "" {
		redirectTo += "?" + r.URL.RawQuery
	}
	redirect(w, r, "/login?"+url.Values{"redirectTo": {redirectTo}}.Encode())
}

func writeFieldErrors(w http.ResponseWriter, fe validation.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid submission", Fields: fe})
}

func writeFormError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func (h *Handler) writeForbidden(w http.ResponseWriter, detail string) {
	body := dto.ErrorResponse{Error: "Forbidden"}
	if h.Dev {
		body.Detail = detail
	}
	writeJSON(w, http.StatusForbidden, body)
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
}

// writeError maps service errors onto responses: validation problems are
// 400, missing records 404, anything else a logged, generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := validation.AsFieldErrors(err); ok {
		writeFieldErrors(w, fe)
		return
	}
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		writeFieldErrors(w, validation.Single("email", "A user already exists with this email"))
	case errors.Is(err, domain.ErrUsernameTaken):
		writeFieldErrors(w, validation.Single("username", "A user already exists with this username"))
	case errors.Is(err, domain.ErrTitleTaken):
		writeFieldErrors(w, validation.Single("title", "A post with this title already exists"))
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrPostNotFound):
		writeNotFound(w)
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Something went wrong"})
	}
}

// checkbox reads an HTML checkbox value.
func checkbox(v string) bool {
	switch v {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
