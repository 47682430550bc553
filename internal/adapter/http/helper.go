package http

import (
	"net/http"

	"treasury-desk/internal/adapter/middleware"
	"treasury-desk/internal/domain/actor"

	"github.com/labstack/echo/v4"
)

// requireActor returns the request's operator or writes a 401.
func requireActor(c echo.Context) (actor.Actor, bool, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return actor.Actor{}, false, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing actor"})
	}
	return a, true, nil
}

func badParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param"})
}
