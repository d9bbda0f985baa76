package middleware

import (
	"net/http"
	"time"

	"stocky/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "stocky_session"
	sessionLifetime   = 30 * 24 * time.Hour
)

// SessionMiddleware gives every browser a stable session identity carried in
// a signed cookie. It identifies a conversation; it does not authenticate.
func SessionMiddleware(secret string, secure bool) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				sessionID = parseSessionToken(cookie.Value, key)
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				token, err := signSessionToken(sessionID, key, time.Now())
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(sessionLifetime.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := common.WithSessionID(c.Request().Context(), sessionID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func signSessionToken(sessionID string, key []byte, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// parseSessionToken returns the session id, or "" for any invalid token.
func parseSessionToken(tokenString string, key []byte) string {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ""
	}
	return claims.Subject
}
