package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"wicki/internal/domain"
	"wicki/internal/dto"
	"wicki/internal/service/impl"
	"wicki/internal/validation"
)

func (h *Handler) settingsPage(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, impl.ProfileResponse(u))
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	switch intent := r.PostFormValue("intent"); intent {
	case dto.IntentUpdateProfile:
		req := dto.ProfileRequest{
			Email:    r.PostFormValue("email"),
			Username: r.PostFormValue("username"),
		}
		if err := validation.Struct(req); err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := h.Users.UpdateProfile(r.Context(), u.ID, req, clientMeta(r)); err != nil {
			writeError(w, r, err)
			return
		}
		redirect(w, r, "/settings")

	case dto.IntentDeleteData:
		if err := h.Users.DeleteData(r.Context(), u.ID, clientMeta(r)); err != nil {
			writeError(w, r, err)
			return
		}
		// sessions went with the user row
		h.Cookies.Clear(w, SessionCookie)
		redirect(w, r, "/")

	default:
		writeFormError(w, "Invalid intent: "+intent)
	}
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	req := dto.ChangePasswordRequest{
		CurrentPassword:    r.PostFormValue("currentPassword"),
		NewPassword:        r.PostFormValue("newPassword"),
		ConfirmNewPassword: r.PostFormValue("confirmNewPassword"),
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}
	keep, _ := h.sessionID(r)
	err := h.Auth.ChangePassword(r.Context(), userID, keep, req.CurrentPassword, req.NewPassword, clientMeta(r))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeFieldErrors(w, validation.Single("currentPassword", "Incorrect password"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	redirect(w, r, "/settings")
}

func (h *Handler) downloadUserData(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	export, err := h.Users.Export(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="user-data.json"`)
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(export)
}
