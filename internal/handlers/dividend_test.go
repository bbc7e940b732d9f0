package handlers

import (
	"net/http"
	"testing"

	"github.com/GregMSThompson/coop-backend/internal/dto"
)

func newDividendRouter(svc *fakeDividendSvc) http.Handler {
	deps := testDeps()
	deps.DividendSvc = svc
	return NewDividendHandlers(deps).DividendRoutes()
}

func TestDividendPreview(t *testing.T) {
	svc := &fakeDividendSvc{}
	h := newDividendRouter(svc)

	rr := serve(t, h, adminCaller, http.MethodGet, "/2024", "")
	mustStatus(t, rr, http.StatusOK)
	if svc.year != 2024 || svc.pool != nil {
		t.Fatalf("preview(%d, %v)", svc.year, svc.pool)
	}
	if got := decodeData[dto.DividendPreview](t, rr); got.Year != 2024 {
		t.Fatalf("year = %d", got.Year)
	}

	rr = serve(t, h, adminCaller, http.MethodGet, "/2024?pool=1500.5", "")
	mustStatus(t, rr, http.StatusOK)
	if svc.pool == nil || *svc.pool != 1500.5 {
		t.Fatalf("pool = %v", svc.pool)
	}
}

func TestDividendBadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"year", "/last-year"},
		{"pool", "/2024?pool=abc"},
		{"negative pool", "/2024?pool=-5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, newDividendRouter(&fakeDividendSvc{}), adminCaller, http.MethodGet, tc.target, "")
			mustStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestDividendRecordAndDistribute(t *testing.T) {
	svc := &fakeDividendSvc{}
	h := newDividendRouter(svc)

	rr := serve(t, h, adminCaller, http.MethodGet, "/2023/record", "")
	mustStatus(t, rr, http.StatusNotFound)

	rr = serve(t, h, adminCaller, http.MethodPost, "/2024/distribute", "")
	mustStatus(t, rr, http.StatusOK)
	if !svc.distributed || svc.year != 2024 || svc.by != adminCaller.email {
		t.Fatalf("distribute(%d, %q) called=%v", svc.year, svc.by, svc.distributed)
	}
}
