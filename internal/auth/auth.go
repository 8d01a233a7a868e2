// Package auth implements the single-admin login: credentials checked against
// configuration, sessions carried as a JWT in an HttpOnly cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/four2theizz0/gearz/internal/clock"
)

const (
	// CookieName is the session cookie holding the admin token.
	CookieName = "admin-token"

	tokenTTL = 24 * time.Hour
)

var (
	ErrMissingConfig      = errors.New("missing auth configuration")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AdminClaims is the JWT payload for an authenticated admin.
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret        []byte
	adminEmail    string
	adminPassword string
	secureCookies bool
	clock         clock.Clock
}

// NewAuthenticator builds the admin authenticator. All three settings are
// required; secureCookies should be on everywhere HTTPS terminates.
func NewAuthenticator(jwtSecret, adminEmail, adminPassword string, secureCookies bool, clk clock.Clock) (*Authenticator, error) {
	if jwtSecret == "" || adminEmail == "" || adminPassword == "" {
		return nil, ErrMissingConfig
	}
	return &Authenticator{
		secret:        []byte(jwtSecret),
		adminEmail:    strings.ToLower(adminEmail),
		adminPassword: adminPassword,
		secureCookies: secureCookies,
		clock:         clk,
	}, nil
}

// Login verifies credentials and mints a session token. Email comparison is
// case-insensitive; the password check is constant-time.
func (a *Authenticator) Login(email, password string) (string, error) {
	emailOK := strings.ToLower(strings.TrimSpace(email)) == a.adminEmail
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.adminPassword)) == 1
	if !emailOK || !passwordOK {
		return "", ErrInvalidCredentials
	}

	now := a.clock.Now()
	claims := AdminClaims{
		Email: a.adminEmail,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses and validates a session token.
func (a *Authenticator) Verify(token string) (*AdminClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AdminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.clock.Now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || !parsed.Valid || claims.Role != "admin" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest extracts and validates the admin session from the request
// cookie.
func (a *Authenticator) FromRequest(r *http.Request) (*AdminClaims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidToken
	}
	return a.Verify(cookie.Value)
}

// SessionCookie wraps a token in the session cookie.
func (a *Authenticator) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookie expires the session cookie.
func (a *Authenticator) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
