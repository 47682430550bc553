package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"treasury-desk/internal/adapter/middleware"
	"treasury-desk/internal/domain/actor"
	domainFlag "treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/uow"
	domainWithdrawal "treasury-desk/internal/domain/withdrawal"
	"treasury-desk/internal/testutil/flagmock"
	"treasury-desk/internal/testutil/uowmock"
	"treasury-desk/internal/testutil/withdrawalmock"
	ucFlag "treasury-desk/internal/usecase/flag"
	"treasury-desk/internal/usecase/progress"
	ucWithdrawal "treasury-desk/internal/usecase/withdrawal"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var (
	testNow  = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC) // Wednesday
	admin    = actor.Actor{ID: strings.Repeat("a", 32), Name: "Ada", Role: actor.RoleAdmin}
	governor = actor.Actor{ID: strings.Repeat("b", 32), Name: "Gus", Role: actor.RoleGovernor}

	bankWID   = strings.Repeat("1", 32)
	cryptoWID = strings.Repeat("2", 32)
	missingID = strings.Repeat("f", 32)
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(details []FieldError, field, contains string) bool {
	for _, d := range details {
		if d.Field == field && strings.Contains(d.Message, contains) {
			return true
		}
	}
	return false
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return v
}

// fixture keeps withdrawals and flags in maps behind the function mocks.
type fixture struct {
	withdrawals map[string]*domainWithdrawal.Withdrawal
	flags       map[string]*domainFlag.Flag
	order       []string

	withdrawalUC *ucWithdrawal.Usecase
	flagUC       *ucFlag.Usecase
	progressUC   *progress.Usecase
}

func newFixture() *fixture {
	f := &fixture{
		withdrawals: map[string]*domainWithdrawal.Withdrawal{},
		flags:       map[string]*domainFlag.Flag{},
	}
	f.withdrawals[bankWID] = &domainWithdrawal.Withdrawal{
		WithdrawalID: bankWID,
		InvestorID:   "inv-1",
		Amount:       decimal.RequireFromString("2500.00"),
		Currency:     domainWithdrawal.CurrencyUSD,
		Type:         domainWithdrawal.TypeBank,
		Status:       domainWithdrawal.StatusPending,
		SubmittedAt:  time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		Destination:  domainWithdrawal.Destination{BankName: "First Bank", AccountNumber: "00112233"},
	}
	f.withdrawals[cryptoWID] = &domainWithdrawal.Withdrawal{
		WithdrawalID: cryptoWID,
		InvestorID:   "inv-2",
		Amount:       decimal.RequireFromString("80.50"),
		Currency:     domainWithdrawal.CurrencyUSD,
		Type:         domainWithdrawal.TypeCrypto,
		Status:       domainWithdrawal.StatusRejected,
		SubmittedAt:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Reason:       "sanctions hit",
		Destination:  domainWithdrawal.Destination{Address: "0xabc", Network: "ethereum", CoinType: "USDC"},
	}

	getW := func(_ context.Context, id string) (*domainWithdrawal.Withdrawal, error) {
		w, ok := f.withdrawals[id]
		if !ok {
			return nil, domainWithdrawal.ErrNotFound
		}
		cp := *w
		return &cp, nil
	}
	putW := func(_ context.Context, w *domainWithdrawal.Withdrawal) error {
		cp := *w
		f.withdrawals[w.WithdrawalID] = &cp
		return nil
	}
	ws := &withdrawalmock.Repo{
		CreateFn:                     putW,
		SaveFn:                       putW,
		GetByWithdrawalIDFn:          getW,
		GetByWithdrawalIDForUpdateFn: getW,
		ListFn: func(_ context.Context, lf domainWithdrawal.ListFilter) ([]domainWithdrawal.Withdrawal, error) {
			var out []domainWithdrawal.Withdrawal
			for _, w := range f.withdrawals {
				if lf.Status == "" || w.Status == lf.Status {
					out = append(out, *w)
				}
			}
			return out, nil
		},
	}

	getF := func(_ context.Context, id string) (*domainFlag.Flag, error) {
		fl, ok := f.flags[id]
		if !ok {
			return nil, domainFlag.ErrNotFound
		}
		cp := *fl
		return &cp, nil
	}
	listF := func(match func(*domainFlag.Flag) bool) []domainFlag.Flag {
		var out []domainFlag.Flag
		for _, id := range f.order {
			if fl := f.flags[id]; match(fl) {
				out = append(out, *fl)
			}
		}
		return out
	}
	fs := &flagmock.Repo{
		CreateFn: func(_ context.Context, fl *domainFlag.Flag) error {
			cp := *fl
			f.flags[fl.FlagID] = &cp
			f.order = append(f.order, fl.FlagID)
			return nil
		},
		GetByFlagIDFn:          getF,
		GetByFlagIDForUpdateFn: getF,
		ListByWithdrawalIDFn: func(_ context.Context, wid string) ([]domainFlag.Flag, error) {
			return listF(func(fl *domainFlag.Flag) bool { return fl.WithdrawalID == wid }), nil
		},
		ListPendingFn: func(context.Context) ([]domainFlag.Flag, error) {
			return listF(func(fl *domainFlag.Flag) bool { return fl.Status == domainFlag.StatusPending }), nil
		},
		SaveReviewFn: func(_ context.Context, fl *domainFlag.Flag) error {
			if cur := f.flags[fl.FlagID]; cur == nil || cur.Status != domainFlag.StatusPending {
				return domainFlag.ErrConcurrentReview
			}
			cp := *fl
			f.flags[fl.FlagID] = &cp
			return nil
		},
	}

	tx := uowmock.Passthrough(uow.Repos{Withdrawals: ws, Flags: fs})
	clock := func() time.Time { return testNow }
	f.withdrawalUC = ucWithdrawal.NewUsecase(ws, tx, nil, nil).WithClock(clock)
	f.flagUC = ucFlag.NewUsecase(fs, tx, nil, nil).WithClock(clock)
	f.progressUC = progress.NewUsecase(ws).WithClock(clock)
	return f
}

// call runs h against a fresh context with optional actor and path params.
func call(t *testing.T, h echo.HandlerFunc, method, target string, body any, who *actor.Actor, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		r = mustJSON(b)
	}
	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := newEchoWithValidator().NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if who != nil {
		middleware.WithActor(c, *who)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}
