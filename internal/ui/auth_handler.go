package ui

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/campushq/portal/internal/http/errors"
	"github.com/campushq/portal/internal/session"
)

// loginFailedMessage is the single message shown for every login failure.
// The portal deliberately does not distinguish bad credentials from missing
// fields or an unreachable authentication endpoint.
const loginFailedMessage = "Nieprawidłowe dane logowania"

type loginForm struct {
	Email    string
	Password string
}

func (f loginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required),
		validation.Field(&f.Password, validation.Required),
	)
}

// LoginPage renders the login form. Authenticated visitors have no business
// here and go straight to the enrollment page.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess.LoggedIn() {
		h.redirect(w, r, "/enrollment", nil)
		return
	}
	h.render(w, r, "login.html", h.pageData(r, "Logowanie", "login"))
}

// Login exchanges the submitted credentials for a bearer token and stores it
// in the session cookie. The follow-up redirect lets the gate resolve the
// identity behind the fresh token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.BadRequest(w, r, err, "malformed form")
		return
	}

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := form.Validate(); err != nil {
		h.loginFailed(w, r, "login form validation failed", err)
		return
	}

	token, err := h.client.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil || token == "" {
		h.loginFailed(w, r, "authentication rejected", err)
		return
	}

	if err := h.sessions.Issue(w, token); err != nil {
		errors.InternalError(w, r, err, "failed to issue session cookie")
		return
	}
	h.redirect(w, r, "/", nil)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, message string, err error) {
	if err != nil {
		errors.LogError(r, message, err)
	}

	data := h.pageData(r, "Logowanie", "login")
	data["FlashError"] = loginFailedMessage
	h.renderStatus(w, r, http.StatusUnauthorized, "login.html", data)
}

// Logout clears the stored token and forgets its cached identity, so a token
// reissued to the same value cannot revive the old session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess.Token != "" {
		h.resolver.Forget(sess.Token)
	}

	h.sessions.Clear(w)
	h.redirect(w, r, "/login", nil)
}

// Main is the landing route; the portal has no front page of its own.
func (h *Handler) Main(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, "/enrollment", nil)
}
