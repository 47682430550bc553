package http

import (
	"net/http"
	"strconv"
	"time"

	"treasury-desk/internal/domain/withdrawal"
	"treasury-desk/internal/usecase/progress"
	withdrawaluc "treasury-desk/internal/usecase/withdrawal"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WithdrawalHandler struct {
	uc       *withdrawaluc.Usecase
	progress *progress.Usecase
	log      *zap.Logger
}

func NewWithdrawalHandler(uc *withdrawaluc.Usecase, p *progress.Usecase, log *zap.Logger) *WithdrawalHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WithdrawalHandler{uc: uc, progress: p, log: log}
}

type destinationReq struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	SwiftCode     string `json:"swift_code"`
	Currency      string `json:"currency"`
	Address       string `json:"address"`
	Network       string `json:"network"`
	CoinType      string `json:"coin_type"`
}

type submitWithdrawalReq struct {
	InvestorID   string         `json:"investor_id"         validate:"required,max=32"`
	InvestorName string         `json:"investor_name"       validate:"max=128"`
	Amount       string         `json:"amount"              validate:"required,money"`
	Type         string         `json:"type"                validate:"required,oneof=bank crypto"`
	Destination  destinationReq `json:"destination_details"`
	// Optional RFC3339 submission time; defaults to now
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type updateStatusReq struct {
	Status          string `json:"status"           validate:"required,wstatus"`
	Reason          string `json:"reason"`
	TransactionHash string `json:"transaction_hash" validate:"max=128"`
}

func (h *WithdrawalHandler) Submit(c echo.Context) error {
	if _, ok, err := requireActor(c); !ok {
		return err
	}
	var req submitWithdrawalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	in := withdrawaluc.SubmitInput{
		InvestorID:   req.InvestorID,
		InvestorName: req.InvestorName,
		Amount:       decimal.RequireFromString(req.Amount),
		Type:         withdrawal.Type(req.Type),
		Destination: withdrawal.Destination{
			BankName:      req.Destination.BankName,
			AccountNumber: req.Destination.AccountNumber,
			SwiftCode:     req.Destination.SwiftCode,
			BankCurrency:  req.Destination.Currency,
			Address:       req.Destination.Address,
			Network:       req.Destination.Network,
			CoinType:      req.Destination.CoinType,
		},
	}
	if req.Date != "" {
		in.SubmittedAt, _ = time.Parse(time.RFC3339, req.Date)
	}

	dto, err := h.uc.Submit(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *WithdrawalHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.uc.List(c.Request().Context(), withdrawaluc.ListInput{
		Status:     c.QueryParam("status"),
		Type:       c.QueryParam("type"),
		InvestorID: c.QueryParam("investor_id"),
		Limit:      limit,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WithdrawalHandler) Get(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *WithdrawalHandler) Progress(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	p, err := h.progress.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *WithdrawalHandler) UpdateStatus(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	a, ok, err := requireActor(c)
	if !ok {
		return err
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.UpdateStatus(c.Request().Context(), withdrawaluc.UpdateStatusInput{
		WithdrawalID: id,
		Status:       req.Status,
		Reason:       req.Reason,
		TxHash:       req.TransactionHash,
		Actor:        a,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
