package middleware

import (
	"net/http"
	"strings"

	"treasury-desk/internal/domain/actor"
	"treasury-desk/pkg/id"

	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorName = "X-Actor-Name"
	HeaderActorRole = "X-Actor-Role"

	actorKey = "actor"
)

// Actor reads the operator identity set by the console in front of this API.
// Requests without a 32-hex id or a known role are refused; the headers are otherwise trusted.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			a := actor.Actor{
				ID:   strings.TrimSpace(h.Get(HeaderActorID)),
				Name: strings.TrimSpace(h.Get(HeaderActorName)),
				Role: actor.ParseRole(h.Get(HeaderActorRole)),
			}
			if a.ID == "" {
				return errJSON(c, http.StatusUnauthorized, "missing "+HeaderActorID)
			}
			// ids land in size:32 columns and idempotency keys
			if !id.IsID32(a.ID) {
				return errJSON(c, http.StatusUnauthorized, "invalid "+HeaderActorID)
			}
			if a.Role == "" {
				return errJSON(c, http.StatusUnauthorized, "missing or unknown "+HeaderActorRole)
			}
			c.Set(actorKey, a)
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Actor; ok is false when the middleware did not run.
func ActorFrom(c echo.Context) (actor.Actor, bool) {
	a, ok := c.Get(actorKey).(actor.Actor)
	return a, ok
}

// WithActor stores a directly; handy for handler tests.
func WithActor(c echo.Context, a actor.Actor) { c.Set(actorKey, a) }
