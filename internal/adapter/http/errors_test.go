package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainFlag "treasury-desk/internal/domain/flag"
	"treasury-desk/internal/testutil/flagmock"
	ucFlag "treasury-desk/internal/usecase/flag"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
		wantLogs int
	}{
		{name: "not found", err: fmt.Errorf("load: %w", domainFlag.ErrNotFound), wantCode: http.StatusNotFound, wantBody: domainFlag.ErrNotFound.Error()},
		{name: "conflict", err: domainFlag.ErrConcurrentReview, wantCode: http.StatusConflict, wantBody: domainFlag.ErrConcurrentReview.Error()},
		{name: "storage failure", err: errors.New("dial tcp: connection refused"), wantCode: http.StatusInternalServerError, wantBody: "internal error", wantLogs: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/flags/pending", nil), rec)
			c.SetPath("/flags/pending")

			if err := writeError(c, zap.New(core), tc.err); err != nil {
				t.Fatalf("writeError: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tc.wantCode)
			}
			if got := decode[ErrorResponse](t, rec).Error; got != tc.wantBody {
				t.Fatalf("error = %q, want %q", got, tc.wantBody)
			}
			if logs.Len() != tc.wantLogs {
				t.Fatalf("logged %d entries, want %d", logs.Len(), tc.wantLogs)
			}
		})
	}
}

func TestFlagHandler_StorageFailureLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	repo := &flagmock.Repo{ListPendingFn: func(context.Context) ([]domainFlag.Flag, error) {
		return nil, errors.New("too many connections")
	}}
	h := NewFlagHandler(ucFlag.NewUsecase(repo, nil, nil, nil), zap.New(core))

	rec := call(t, h.ListPending, http.MethodGet, "/flags/pending", nil, &admin)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	entries := logs.FilterMessage("request failed").All()
	if len(entries) != 1 {
		t.Fatalf("want one zap entry, got %d", logs.Len())
	}
	if got := entries[0].ContextMap()["error"]; got != "too many connections" {
		t.Fatalf("error field = %v", got)
	}
}
