// Package auth signs and verifies the HS256 bearer tokens a cyro
// application issues for its own users, and provides the middleware and
// handler wrapper that gate routes on them.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/y4zdev/cyro"
)

var (
	// ErrNoSecret is returned by New when no signing secret is configured.
	ErrNoSecret = errors.New("auth: secret is required")
	// ErrInvalidToken is returned by Verify for any token that does not
	// check out: bad signature, expired, wrong issuer, malformed.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// SubjectItem is the Context item key Require stores the verified subject
// under.
const SubjectItem = "auth.subject"

// Config holds signing settings.
type Config struct {
	// Secret is the HMAC signing key. Required.
	Secret string
	// TTL is the token lifetime. Default: 24h.
	TTL time.Duration
	// Issuer, when set, is stamped into issued tokens and enforced on
	// verification.
	Issuer string
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// New creates a Manager from cfg.
func New(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(cfg.Secret), ttl: ttl, issuer: cfg.Issuer}, nil
}

// reserved claims are managed by Sign itself; extra claims must not
// overwrite them.
func reservedClaim(name string) bool {
	switch name {
	case "sub", "iat", "exp", "iss":
		return true
	}
	return false
}

// Sign issues a token for subject, valid for the configured TTL. Extra
// claims are included verbatim except for the reserved ones.
func (m *Manager) Sign(subject string, extra map[string]any) (string, error) {
	now := time.Now()
	claims := jwtlib.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}
	if m.issuer != "" {
		claims["iss"] = m.issuer
	}
	for k, v := range extra {
		if !reservedClaim(k) {
			claims[k] = v
		}
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Claims is what Verify returns for a valid token.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	Extra     map[string]any
}

// Verify parses and validates a token string, enforcing the HS256 method
// and, when configured, the issuer.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwtlib.Parse(tokenStr, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	issuer, _ := mapClaims.GetIssuer()
	if m.issuer != "" && issuer != m.issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}

	claims := &Claims{Subject: subject, Issuer: issuer, Extra: map[string]any{}}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	for k, v := range mapClaims {
		if !reservedClaim(k) {
			claims.Extra[k] = v
		}
	}
	return claims, nil
}

// bearerToken extracts the token from an Authorization: Bearer header,
// returning "" when the scheme is absent.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Guard returns a middleware that finishes the response with 401 unless
// the request carries a valid bearer token. Because it finishes the
// response, the chain halts and routing is skipped for rejected requests.
func (m *Manager) Guard() cyro.Middleware {
	return func(r *http.Request, res *cyro.Response) error {
		token := bearerToken(r)
		if token == "" {
			unauthorized(res)
			return nil
		}
		if _, err := m.Verify(token); err != nil {
			unauthorized(res)
			return nil
		}
		return nil
	}
}

// Require wraps a handler so it only runs for requests with a valid
// bearer token. The verified subject is exposed to the handler via
// c.Item(SubjectItem).
func (m *Manager) Require(h cyro.Handler) cyro.Handler {
	return func(r *http.Request, res *cyro.Response, c *cyro.Context) error {
		token := bearerToken(r)
		if token == "" {
			unauthorized(res)
			return nil
		}
		claims, err := m.Verify(token)
		if err != nil {
			unauthorized(res)
			return nil
		}
		c.SetItem(SubjectItem, claims.Subject)
		return h(r, res, c)
	}
}

func unauthorized(res *cyro.Response) {
	res.Status(http.StatusUnauthorized).JSON(map[string]string{
		"error": "authentication required",
	})
}
