package middleware

import (
	"net/http"
	"strings"

	"toolshare-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

const HeaderUserID = "Ax-User-Id"

const ctxUserID = "ax.user_id"

// Actor requires a 32-char lowercase hex Ax-User-Id and stores it on the context.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			if !id.Valid(userID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderUserID})
			}
			c.Set(ctxUserID, userID)
			return next(c)
		}
	}
}

// UserID returns the caller installed by Actor, or "".
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}
