package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y4zdev/cyro"
)

func newManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m, err := New(cfg)
	require.NoError(t, err)
	return m
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	m := newManager(t, Config{Secret: "s3cret", TTL: time.Hour, Issuer: "cyro-test"})

	token, err := m.Sign("ada", map[string]any{"role": "admin"})
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Subject)
	assert.Equal(t, "cyro-test", claims.Issuer)
	assert.Equal(t, "admin", claims.Extra["role"])
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestSignReservedClaimsAreProtected(t *testing.T) {
	m := newManager(t, Config{Secret: "s3cret", Issuer: "cyro-test"})

	token, err := m.Sign("ada", map[string]any{"sub": "mallory", "iss": "evil"})
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Subject)
	assert.Equal(t, "cyro-test", claims.Issuer)
	assert.NotContains(t, claims.Extra, "sub")
}

func TestVerifyRejects(t *testing.T) {
	m := newManager(t, Config{Secret: "s3cret", Issuer: "cyro-test"})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newManager(t, Config{Secret: "different", Issuer: "cyro-test"})
		token, err := other.Sign("ada", nil)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		now := time.Now()
		stale := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
			"sub": "ada",
			"iss": "cyro-test",
			"iat": now.Add(-2 * time.Hour).Unix(),
			"exp": now.Add(-time.Hour).Unix(),
		})
		token, err := stale.SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		other := newManager(t, Config{Secret: "s3cret", Issuer: "someone-else"})
		token, err := other.Sign("ada", nil)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{"sub": "ada"})
		token, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		anon := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
			"iss": "cyro-test",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		token, err := anon.SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGuard(t *testing.T) {
	m := newManager(t, Config{Secret: "s3cret"})

	var reached bool
	app := cyro.New()
	app.Use(m.Guard())
	app.Get("/", func(r *http.Request, res *cyro.Response, c *cyro.Context) error {
		reached = true
		res.Text("in")
		return nil
	})

	// no token
	res := app.Dispatch(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code())
	assert.False(t, reached)

	// wrong scheme
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	res = app.Dispatch(req)
	assert.Equal(t, http.StatusUnauthorized, res.Code())
	assert.False(t, reached)

	// valid token
	token, err := m.Sign("ada", nil)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = app.Dispatch(req)
	assert.Equal(t, http.StatusOK, res.Code())
	assert.True(t, reached)
}

func TestRequireExposesSubject(t *testing.T) {
	m := newManager(t, Config{Secret: "s3cret"})

	var subject string
	app := cyro.New()
	app.Get("/me", m.Require(func(r *http.Request, res *cyro.Response, c *cyro.Context) error {
		subject, _ = c.Item(SubjectItem).(string)
		res.Text(subject)
		return nil
	}))

	token, err := m.Sign("ada", nil)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := app.Dispatch(req)
	assert.Equal(t, http.StatusOK, res.Code())
	assert.Equal(t, "ada", subject)

	// tampered token never reaches the handler
	subject = ""
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	res = app.Dispatch(req)
	assert.Equal(t, http.StatusUnauthorized, res.Code())
	assert.Empty(t, subject)
}
