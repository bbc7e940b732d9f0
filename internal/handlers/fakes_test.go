package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/response"
	"github.com/GregMSThompson/coop-backend/pkg/helpers"
)

type caller struct {
	uid      string
	email    string
	role     string
	authTime time.Time
}

var (
	adminCaller   = caller{uid: "uid-admin", email: "admin@example.com", role: models.RoleAdmin}
	coAdminCaller = caller{uid: "uid-co", email: "co@example.com", role: models.RoleCoAdmin}
	memberCaller  = caller{uid: "uid-m1", email: "m1@example.com", role: models.RoleMember}
)

// serve runs one request through h as c; a zero caller is anonymous.
func serve(t *testing.T, h http.Handler, c caller, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	ctx := helpers.TestCtx()
	if c.uid != "" {
		ctx = context.WithValue(ctx, middleware.UIDKey, c.uid)
		ctx = context.WithValue(ctx, middleware.EmailKey, c.email)
		ctx = context.WithValue(ctx, middleware.RoleKey, c.role)
		ctx = context.WithValue(ctx, middleware.AuthTimeKey, c.authTime)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func testDeps() *Deps {
	return &Deps{
		Log:             helpers.TestLogger(),
		ResponseHandler: response.New(helpers.TestLogger()),
	}
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !env.Success {
		t.Fatalf("success = false")
	}
	return env.Data
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Code
}

func mustStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

// members

type fakeMemberSvc struct {
	members   map[string]models.Member
	created   *dto.CreateMemberRequest
	updated   *dto.UpdateMemberRequest
	status    string
	deletedID string
	deletedBy string
	err       error
}

func newFakeMemberSvc(members ...models.Member) *fakeMemberSvc {
	f := &fakeMemberSvc{members: map[string]models.Member{}}
	for _, m := range members {
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeMemberSvc) ListMembers(ctx context.Context) ([]models.Member, error) {
	out := make([]models.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, f.err
}

func (f *fakeMemberSvc) GetMember(ctx context.Context, id string) (*models.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, errs.NewNotFoundError("member " + id + " not found")
	}
	return &m, nil
}

func (f *fakeMemberSvc) CreateMember(ctx context.Context, req dto.CreateMemberRequest) (*models.Member, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Member{ID: "0003", FirstName: req.FirstName, LastName: req.LastName}, nil
}

func (f *fakeMemberSvc) UpdateMember(ctx context.Context, id string, req dto.UpdateMemberRequest) (*models.Member, error) {
	f.updated = &req
	m, err := f.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	return m, nil
}

func (f *fakeMemberSvc) SetStatus(ctx context.Context, id, status string) (*models.Member, error) {
	f.status = status
	m, err := f.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Status = status
	return m, nil
}

func (f *fakeMemberSvc) DeleteMember(ctx context.Context, id, by string) error {
	f.deletedID, f.deletedBy = id, by
	return f.err
}

type fakeTransactionSvc struct {
	memberID string
	txType   string
}

func (f *fakeTransactionSvc) History(ctx context.Context, memberID, txType string) (dto.MemberHistory, error) {
	f.memberID, f.txType = memberID, txType
	return dto.MemberHistory{MemberID: memberID}, nil
}

// requests

type fakeRequestSvc struct {
	kind      models.RequestKind
	status    string
	memberID  string
	txID      string
	by        string
	reason    string
	submitted *dto.SubmitApplicationRequest
	err       error
}

func (f *fakeRequestSvc) List(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error) {
	f.kind, f.status, f.memberID = kind, status, memberID
	return []models.Application{{Kind: kind, MemberID: memberID}}, f.err
}

func (f *fakeRequestSvc) Submit(ctx context.Context, kind models.RequestKind, req dto.SubmitApplicationRequest) (*models.Application, error) {
	f.kind, f.submitted = kind, &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Application{TransactionID: "tx-1", Kind: kind, MemberID: req.MemberID, Amount: req.Amount, Status: models.StatusPending}, nil
}

func (f *fakeRequestSvc) Approve(ctx context.Context, kind models.RequestKind, memberID, txID, by string) (*models.Application, error) {
	f.kind, f.memberID, f.txID, f.by = kind, memberID, txID, by
	if f.err != nil {
		return nil, f.err
	}
	return &models.Application{TransactionID: txID, Kind: kind, MemberID: memberID, Status: models.StatusApproved}, nil
}

func (f *fakeRequestSvc) Reject(ctx context.Context, kind models.RequestKind, memberID, txID, by, reason string) (*models.Application, error) {
	f.kind, f.memberID, f.txID, f.by, f.reason = kind, memberID, txID, by, reason
	if f.err != nil {
		return nil, f.err
	}
	return &models.Application{TransactionID: txID, Kind: kind, MemberID: memberID, Status: models.StatusRejected, RejectionReason: reason}, nil
}

// loans

type fakeLoanSvc struct {
	memberID string
	txID     string
}

func (f *fakeLoanSvc) ListCurrentLoans(ctx context.Context) ([]models.Loan, error) {
	return []models.Loan{{TransactionID: "tx-1", MemberID: "0001"}}, nil
}

func (f *fakeLoanSvc) ListPaidLoans(ctx context.Context) ([]models.Loan, error) {
	return []models.Loan{}, nil
}

func (f *fakeLoanSvc) Schedule(ctx context.Context, memberID, txID string) ([]dto.LoanScheduleRow, error) {
	f.memberID, f.txID = memberID, txID
	return []dto.LoanScheduleRow{{Number: 1, Payment: 1020}}, nil
}

type fakeReminderSvc struct{ calls int }

func (f *fakeReminderSvc) Sweep(ctx context.Context) (dto.ReminderResult, error) {
	f.calls++
	return dto.ReminderResult{Checked: 3, Reminded: 1, Overdue: 1}, nil
}

// stubRoutes answers every request the way the loan application routes
// would, so route merging can be checked in isolation.
func stubRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	return r
}
