package http

import (
	"context"
	"net/http"

	"treasury-desk/internal/domain/flag"
	flaguc "treasury-desk/internal/usecase/flag"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FlagHandler struct {
	uc  *flaguc.Usecase
	log *zap.Logger
}

func NewFlagHandler(uc *flaguc.Usecase, log *zap.Logger) *FlagHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlagHandler{uc: uc, log: log}
}

type requestFlagReq struct {
	FlagType string `json:"flag_type" validate:"required,flagtype"`
	Priority string `json:"priority"  validate:"required,priority"`
	Comment  string `json:"comment"   validate:"required,max=2000"`
}

type reviewFlagReq struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type priorityResp struct {
	WithdrawalID string           `json:"withdrawal_id"`
	Active       *flaguc.FlagDTO  `json:"active"`
	Urgent       flaguc.UrgentDTO `json:"urgent"`
}

func (h *FlagHandler) RequestFlag(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	a, ok, err := requireActor(c)
	if !ok {
		return err
	}
	var req requestFlagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.RequestFlag(c.Request().Context(), flaguc.RequestFlagInput{
		WithdrawalID: id,
		FlagType:     flag.Type(req.FlagType),
		Priority:     flag.Priority(req.Priority),
		Comment:      req.Comment,
		Requester:    a,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FlagHandler) ListFlags(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	out, err := h.uc.ListFlags(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FlagHandler) Priority(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	ctx := c.Request().Context()
	active, err := h.uc.GetActivePriorityFor(ctx, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	urgent, err := h.uc.HasUrgentFlag(ctx, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, priorityResp{WithdrawalID: id, Active: active, Urgent: urgent})
}

func (h *FlagHandler) ListPending(c echo.Context) error {
	out, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FlagHandler) Approve(c echo.Context) error {
	return h.review(c, h.uc.ApproveFlag)
}

func (h *FlagHandler) Reject(c echo.Context) error {
	return h.review(c, h.uc.RejectFlag)
}

func (h *FlagHandler) review(c echo.Context, decide func(ctx context.Context, in flaguc.ReviewInput) (*flaguc.FlagDTO, error)) error {
	id, ok := hex32Param(c, "flag_id")
	if !ok {
		return badParam(c, "flag_id")
	}
	a, ok, err := requireActor(c)
	if !ok {
		return err
	}
	var req reviewFlagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := decide(c.Request().Context(), flaguc.ReviewInput{FlagID: id, Reviewer: a, Comment: req.Comment})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
