package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocky/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func runSession(t *testing.T, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sessionID string
	handler := SessionMiddleware(testSecret, false)(func(c echo.Context) error {
		sessionID, _ = common.GetSessionIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return sessionID, rec
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	sessionID, rec := runSession(t, nil)

	assert.NotEmpty(t, sessionID)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, sessionID, parseSessionToken(cookies[0].Value, []byte(testSecret)))
}

func TestSessionMiddleware_ReusesValidCookie(t *testing.T) {
	first, rec := runSession(t, nil)
	cookie := rec.Result().Cookies()[0]

	second, rec := runSession(t, cookie)
	assert.Equal(t, first, second)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionMiddleware_RejectsForgedCookie(t *testing.T) {
	forged, err := signSessionToken("6f1c5a2e-8f5e-4c1a-9f77-2b3c4d5e6f70", []byte("another-secret"), time.Now())
	require.NoError(t, err)

	sessionID, rec := runSession(t, &http.Cookie{Name: SessionCookieName, Value: forged})
	assert.NotEqual(t, "6f1c5a2e-8f5e-4c1a-9f77-2b3c4d5e6f70", sessionID)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestSessionMiddleware_RejectsExpiredCookie(t *testing.T) {
	expired, err := signSessionToken("6f1c5a2e-8f5e-4c1a-9f77-2b3c4d5e6f70", []byte(testSecret), time.Now().Add(-2*sessionLifetime))
	require.NoError(t, err)

	sessionID, _ := runSession(t, &http.Cookie{Name: SessionCookieName, Value: expired})
	assert.NotEqual(t, "6f1c5a2e-8f5e-4c1a-9f77-2b3c4d5e6f70", sessionID)
}

func TestVersionHeader(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/report", nil), rec)

	handler := NewVersionMiddleware("1.2.3").VersionHeader()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	assert.Equal(t, "v1", rec.Header().Get(HeaderAPIVersion))
	assert.Equal(t, "1.2.3", rec.Header().Get(HeaderAppVersion))
}
