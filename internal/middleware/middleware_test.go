package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flytau/airline-reservation/internal/utils"
)

const testSecret = "test-secret"

func runWithAuth(t *testing.T, token string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, "alice@example.com", RoleCustomer, time.Minute)
	require.NoError(t, err)

	rec := runWithAuth(t, token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	rec := runWithAuth(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = runWithAuth(t, "not-a-token", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	token, err := utils.NewAccessToken("other-secret", "alice@example.com", RoleCustomer, time.Minute)
	require.NoError(t, err)
	rec = runWithAuth(t, token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, "alice@example.com", RoleCustomer, -time.Minute)
	require.NoError(t, err)

	rec := runWithAuth(t, token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleEnforcesClaim(t *testing.T) {
	customerToken, err := utils.NewAccessToken(testSecret, "alice@example.com", RoleCustomer, time.Minute)
	require.NoError(t, err)

	rec := runWithAuth(t, customerToken, JWTAuth(testSecret), RequireRole(RoleCustomer))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runWithAuth(t, customerToken, JWTAuth(testSecret), RequireRole(RoleManager))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"flights":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestCachePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	_, _, _, ok = decodePayload(make([]byte, 8)) // zero status, zero header, no body
	assert.True(t, ok, "minimal valid frame decodes")
}
