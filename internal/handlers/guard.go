package handlers

import (
	"net/http"

	"github.com/SohamKamathi18/synaphack/internal/session"
)

// RequireSession is the route guard for console pages. It re-evaluates
// the session on every request:
//
//	Loading         -> neutral waiting page, no redirect
//	Unauthenticated -> redirect to the login page
//	Authenticated   -> the requested view
func (h *Handlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch h.Session.Snapshot().Status {
		case session.Loading:
			h.renderLoading(w)
		case session.Unauthenticated:
			http.Redirect(w, r, "/login", http.StatusFound)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireSessionAPI is the guard variant for JSON endpoints: a loading
// session answers 503 so page scripts retry, an absent one answers 401.
func (h *Handlers) RequireSessionAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch h.Session.Snapshot().Status {
		case session.Loading:
			respondJSON(w, http.StatusServiceUnavailable, &APIError{
				Code:    ErrCodeSessionLoading,
				Message: "Session still loading",
			})
		case session.Unauthenticated:
			respondJSON(w, http.StatusUnauthorized, &APIError{
				Code:    ErrCodeUnauthorized,
				Message: "Unauthorized - please log in",
			})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (h *Handlers) renderLoading(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	h.templates.Loading.Execute(w, nil)
}

// forceLogout handles a backend 401 on a dashboard fetch: the token is
// no longer valid, so tear the session down and bounce to login.
func (h *Handlers) forceLogout(w http.ResponseWriter, r *http.Request) {
	h.Log.Info("session rejected by backend, forcing logout")
	h.Session.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusFound)
}
