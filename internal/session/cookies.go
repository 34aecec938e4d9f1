package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "luxstay_session"
	issuer     = "luxstay-web"
)

var ErrNoSession = errors.New("session: no valid cookie")

// Cookies issues and verifies the session cookie. The cookie value is an
// HS256 token whose jti is the session id; it has no Max-Age, so it ends
// with the browser session. Every response re-issues it, so exp trails the
// last interaction by ttl.
type Cookies struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewCookies(secret []byte, ttl time.Duration, secure bool) *Cookies {
	return &Cookies{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (c *Cookies) WithClock(now func() time.Time) *Cookies {
	c.now = now
	return c
}

func (c *Cookies) NewID() string { return uuid.NewString() }

// Issue signs a fresh token for id, valid for ttl from now, and sets it as
// the session cookie. The token is returned so pages can carry it in forms.
func (c *Cookies) Issue(w http.ResponseWriter, id string) (string, error) {
	v, err := c.sign(id)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    v,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return v, nil
}

func (c *Cookies) sign(id string) (string, error) {
	now := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	})
	v, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return v, nil
}

// Read returns the session id carried by r's cookie, or ErrNoSession when
// the cookie is missing, forged or expired.
func (c *Cookies) Read(r *http.Request) (string, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return c.Parse(ck.Value)
}

// Parse verifies a token produced by Issue and returns its session id.
func (c *Cookies) Parse(v string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(v, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", fmt.Errorf("%w: bad id", ErrNoSession)
	}
	return claims.ID, nil
}
