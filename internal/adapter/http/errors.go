package http

import (
	"errors"
	"net/http"

	"treasury-desk/internal/domain/actor"
	"treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/withdrawal"
	flaguc "treasury-desk/internal/usecase/flag"
	withdrawaluc "treasury-desk/internal/usecase/withdrawal"
	"treasury-desk/pkg/id"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Map domain errors → HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, flaguc.ErrValidation),
		errors.Is(err, withdrawaluc.ErrValidation),
		errors.Is(err, withdrawal.ErrReasonRequired),
		errors.Is(err, withdrawal.ErrHashRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, actor.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, withdrawal.ErrNotFound),
		errors.Is(err, flag.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, withdrawal.ErrInvalidTransition),
		errors.Is(err, flag.ErrInvalidTransition),
		errors.Is(err, flag.ErrConcurrentReview),
		errors.Is(err, flag.ErrWithdrawalNotFlaggable):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, log *zap.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		// don't leak storage details
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err),
		)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

func hex32Param(c echo.Context, name string) (string, bool) {
	v := c.Param(name)
	return v, id.IsID32(v)
}
