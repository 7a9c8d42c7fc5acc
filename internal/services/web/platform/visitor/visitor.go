// Package visitor keeps a browser's conversation ID in a signed cookie.
//
// The cookie holds an HS256 JWT whose subject is the conversation ID. A
// missing, expired or tampered token reads as "no conversation yet".
package visitor

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/digitalexpert/linkpage/internal/platform/id"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/requestmeta"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the visitor cookie.
	CookieName = "linkpage_visitor"
	// TTL is how long a visitor keeps its conversation without returning.
	TTL = 30 * 24 * time.Hour
	// MinKeyLen is the shortest accepted signing key.
	MinKeyLen = 16

	issuer = "linkpage"
)

// ErrInvalidToken reports a token that does not carry a usable conversation ID.
var ErrInvalidToken = errors.New("invalid visitor token")

// Codec signs and verifies visitor tokens.
type Codec struct {
	key    []byte
	policy requestmeta.Policy
	now    func() time.Time
}

// NewCodec returns a codec signing with key.
func NewCodec(key []byte, policy requestmeta.Policy) (*Codec, error) {
	if len(key) < MinKeyLen {
		return nil, fmt.Errorf("session key must be at least %d bytes", MinKeyLen)
	}
	return &Codec{
		key:    append([]byte(nil), key...),
		policy: policy,
		now:    time.Now,
	}, nil
}

// GenerateKey returns a random signing key. Tokens signed with it do not
// survive a restart.
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	return key, nil
}

// Issue returns a signed token for conversationID.
func (c *Codec) Issue(conversationID string) (string, error) {
	conversationID = strings.TrimSpace(conversationID)
	if !id.Valid(conversationID) {
		return "", fmt.Errorf("%w: conversation id %q", ErrInvalidToken, conversationID)
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   conversationID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	})
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign visitor token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns the conversation ID it carries.
func (c *Codec) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !id.Valid(claims.Subject) {
		return "", fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Read returns the conversation ID from the request cookie.
func (c *Codec) Read(r *http.Request) (string, bool) {
	if c == nil || r == nil {
		return "", false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", false
	}
	conversationID, err := c.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return conversationID, true
}

// Write sets the visitor cookie for conversationID.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, conversationID string) error {
	if w == nil {
		return nil
	}
	token, err := c.Issue(conversationID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL / time.Second),
		HttpOnly: true,
		Secure:   c.policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the visitor cookie.
func (c *Codec) Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// HasCookie reports whether r carries a visitor cookie, valid or not.
func HasCookie(r *http.Request) bool {
	if r == nil {
		return false
	}
	cookie, err := r.Cookie(CookieName)
	return err == nil && strings.TrimSpace(cookie.Value) != ""
}
