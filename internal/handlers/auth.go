package handlers

import (
	"net/http"

	"github.com/SohamKamathi18/synaphack/internal/session"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// AuthPageData holds data for the login and register templates.
type AuthPageData struct {
	Error  string
	Notice string
	Email  string
	Name   string
	Role   string
}

// handleLoginPage renders the login form.
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// An authenticated session goes straight to its dashboard
	if h.Session.Snapshot().Status == session.Authenticated {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	h.templates.Login.Execute(w, AuthPageData{Notice: r.URL.Query().Get("notice")})
}

// handleLogin processes the login form submission.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	_, err := h.Session.Login(r.Context(), email, password)
	if err != nil {
		// Backend detail ("Invalid credentials", ...) is shown verbatim
		h.templates.Login.Execute(w, AuthPageData{
			Error: userMessage(err),
			Email: email,
		})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleRegisterPage renders the registration form.
func (h *Handlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.Session.Snapshot().Status == session.Authenticated {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	h.templates.Register.Execute(w, AuthPageData{})
}

// handleRegister processes the registration form. Registration does not
// log the new account in; it lands on the login page with a notice.
func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	data := AuthPageData{
		Email: r.FormValue("email"),
		Name:  r.FormValue("name"),
		Role:  r.FormValue("role"),
	}

	role := hackapi.Role(r.FormValue("role"))
	if !role.Known() {
		data.Error = "Please pick a role"
		h.templates.Register.Execute(w, data)
		return
	}

	_, err := h.Session.Register(r.Context(), data.Email, data.Name, r.FormValue("password"), role)
	if err != nil {
		data.Error = userMessage(err)
		h.templates.Register.Execute(w, data)
		return
	}

	http.Redirect(w, r, "/login?notice=Account+created.+Please+log+in.", http.StatusFound)
}

// handleLogout clears the session and redirects to login.
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusFound)
}
