package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/four2theizz0/gearz/internal/auth"
)

// HandleLogin returns an HTTP handler for the admin login form. A successful
// login sets the session cookie.
func HandleLogin(a *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := a.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		http.SetCookie(w, a.SessionCookie(token))
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

// HandleAuthCheck reports whether the request carries a valid admin session.
func HandleAuthCheck(a *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		claims, err := a.FromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, authCheckResponse{Success: true, Email: claims.Email})
	}
}

// HandleLogout clears the session cookie.
func HandleLogout(a *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		http.SetCookie(w, a.ClearCookie())
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

// RequireAdmin rejects requests without a valid admin session before they
// reach the wrapped handler.
func RequireAdmin(a *auth.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.FromRequest(r); err != nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authCheckResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
}
