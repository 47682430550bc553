package http

import (
	"treasury-desk/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health      *Handler
	Withdrawals *WithdrawalHandler
	Flags       *FlagHandler
	Streams     *StreamHandler
}

// Register mounts every route. idem guards mutating routes and may be nil
// when Redis is disabled. Websocket routes skip the actor headers since
// browsers cannot set them on an upgrade.
func Register(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	read := []echo.MiddlewareFunc{middleware.Actor()}
	write := read
	if idem != nil {
		write = append([]echo.MiddlewareFunc{middleware.Actor()}, idem)
	}

	e.GET("/health", h.Health.Health)

	e.POST("/withdrawals", h.Withdrawals.Submit, write...)
	e.GET("/withdrawals", h.Withdrawals.List, read...)
	e.GET("/withdrawals/:withdrawal_id", h.Withdrawals.Get, read...)
	e.GET("/withdrawals/:withdrawal_id/progress", h.Withdrawals.Progress, read...)
	e.POST("/withdrawals/:withdrawal_id/status", h.Withdrawals.UpdateStatus, write...)

	e.POST("/withdrawals/:withdrawal_id/flags", h.Flags.RequestFlag, write...)
	e.GET("/withdrawals/:withdrawal_id/flags", h.Flags.ListFlags, read...)
	e.GET("/withdrawals/:withdrawal_id/priority", h.Flags.Priority, read...)
	e.GET("/flags/pending", h.Flags.ListPending, read...)
	e.POST("/flags/:flag_id/approve", h.Flags.Approve, write...)
	e.POST("/flags/:flag_id/reject", h.Flags.Reject, write...)

	e.GET("/ws/withdrawals/:withdrawal_id/flags", h.Streams.Flags)
	e.GET("/ws/withdrawals/:withdrawal_id/progress", h.Streams.Progress)
	e.GET("/ws/flags/pending", h.Streams.PendingFlags)
}
