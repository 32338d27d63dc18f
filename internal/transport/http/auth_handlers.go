package http

import (
	"errors"
	"net/http"
	"net/url"

	"wicki/internal/domain"
	"wicki/internal/dto"
	"wicki/internal/netutil"
	"wicki/internal/observability/logging"
	"wicki/internal/service"
	"wicki/internal/validation"
)

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if !h.requireAnonymous(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirectTo": r.URL.Query().Get("redirectTo")})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.requireAnonymous(w, r) {
		return
	}
	req := dto.LoginRequest{
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		Remember:   checkbox(r.PostFormValue("remember")),
		RedirectTo: r.PostFormValue("redirectTo"),
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.Auth.Login(r.Context(), req.Email, req.Password, clientMeta(r))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeFormError(w, "Invalid email or password")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Cookies.WriteSession(w, sess.ID.String(), sess.ExpiresAt, req.Remember); err != nil {
		writeError(w, r, err)
		return
	}
	redirect(w, r, netutil.SafeRedirect(req.RedirectTo, "/"))
}

func (h *Handler) logoutAction(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, r.PostFormValue("redirectTo"))
}

func (h *Handler) signupPage(w http.ResponseWriter, r *http.Request) {
	if !h.requireAnonymous(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirectTo": r.URL.Query().Get("redirectTo")})
}

// signup starts onboarding: it emails a one-time code for the address and
// sends the caller to the verify page.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if !h.requireAnonymous(w, r) {
		return
	}
	req := dto.SignupRequest{Email: validation.NormalizeEmail(r.PostFormValue("email"))}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}
	taken, err := h.Users.EmailRegistered(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if taken {
		writeError(w, r, domain.ErrEmailTaken)
		return
	}

	code, err := h.Verifications.Issue(r.Context(), req.Email, domain.VerificationOnboarding)
	if err != nil {
		writeError(w, r, err)
		return
	}

	redirectTo := r.PostFormValue("redirectTo")
	q := url.Values{
		"type":   {string(domain.VerificationOnboarding)},
		"target": {req.Email},
	}
	if redirectTo != "" {
		q.Set("redirectTo", redirectTo)
	}
	verifyPath := "/verify?" + q.Encode()
	q.Set("code", code)
	verifyURL := netutil.DomainURL(r) + "/verify?" + q.Encode()

	if err := h.Email.Send(r.Context(), service.OnboardingEmail(req.Email, code, verifyURL)); err != nil {
		writeError(w, r, err)
		return
	}
	redirect(w, r, verifyPath)
}

// verify accepts the code either from the emailed link (GET with code) or
// from the form (POST).
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		if q.Get("code") == "" {
			writeJSON(w, http.StatusOK, map[string]string{
				"type": q.Get("type"), "target": q.Get("target"), "redirectTo": q.Get("redirectTo"),
			})
			return
		}
		req = dto.VerifyRequest{Code: q.Get("code"), Type: q.Get("type"), Target: q.Get("target"), RedirectTo: q.Get("redirectTo")}
	} else {
		req = dto.VerifyRequest{
			Code:       r.PostFormValue("code"),
			Type:       r.PostFormValue("type"),
			Target:     r.PostFormValue("target"),
			RedirectTo: r.PostFormValue("redirectTo"),
		}
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	target := validation.NormalizeEmail(req.Target)
	err := h.Verifications.Validate(r.Context(), target, domain.VerificationType(req.Type), req.Code)
	if errors.Is(err, domain.ErrInvalidCode) {
		writeFieldErrors(w, validation.Single("code", "Invalid code"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Cookies.WriteVerification(w, target); err != nil {
		writeError(w, r, err)
		return
	}
	next := "/onboarding"
	if req.RedirectTo != "" {
		next += "?" + url.Values{"redirectTo": {req.RedirectTo}}.Encode()
	}
	redirect(w, r, next)
}

// onboardingEmail returns the verified address from the verification
// cookie, redirecting to /signup when there is none.
func (h *Handler) onboardingEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.requireAnonymous(w, r) {
		return "", false
	}
	email, err := h.Cookies.Read(r, VerificationCookie)
	if err != nil || email == "" {
		redirect(w, r, "/signup")
		return "", false
	}
	return email, true
}

func (h *Handler) onboardingPage(w http.ResponseWriter, r *http.Request) {
	email, ok := h.onboardingEmail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "redirectTo": r.URL.Query().Get("redirectTo")})
}

func (h *Handler) onboarding(w http.ResponseWriter, r *http.Request) {
	email, ok := h.onboardingEmail(w, r)
	if !ok {
		return
	}
	req := dto.OnboardingRequest{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		AgreeToTerms:    checkbox(r.PostFormValue("agreeToTermsOfServiceAndPrivacyPolicy")),
		Remember:        checkbox(r.PostFormValue("remember")),
		RedirectTo:      r.PostFormValue("redirectTo"),
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}
	taken, err := h.Users.UsernameTaken(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if taken {
		writeError(w, r, domain.ErrUsernameTaken)
		return
	}

	_, sess, err := h.Auth.Signup(r.Context(), email, req.Username, req.Password, clientMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("user onboarded", "user_id", sess.UserID)

	if err := h.Cookies.WriteSession(w, sess.ID.String(), sess.ExpiresAt, req.Remember); err != nil {
		writeError(w, r, err)
		return
	}
	h.Cookies.Clear(w, VerificationCookie)
	redirect(w, r, netutil.SafeRedirect(req.RedirectTo, "/"))
}
