package http

import (
	"errors"
	"log/slog"
	"net/http"

	"toolshare-backend/internal/domain/borrow"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain sentinels to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, borrow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, borrow.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, borrow.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, borrow.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("err", err))
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindAndValidate writes the 400/422 response itself and reports false when it did.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
