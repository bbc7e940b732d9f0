package handlers

import (
	"context"
	"io"
	"time"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type fakeRegistrationSvc struct {
	submitted *dto.RegistrationRequest
	status    string
	id        string
	by        string
	reason    string
	err       error
}

func (f *fakeRegistrationSvc) ListRegistrations(ctx context.Context, status string) ([]models.Registration, error) {
	f.status = status
	return []models.Registration{{ID: "r1", Status: status}}, nil
}

func (f *fakeRegistrationSvc) Submit(ctx context.Context, req dto.RegistrationRequest) (*models.Registration, error) {
	f.submitted = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Registration{ID: "r1", FirstName: req.FirstName, Status: models.StatusPending}, nil
}

func (f *fakeRegistrationSvc) Approve(ctx context.Context, id, by string) (*models.Member, error) {
	f.id, f.by = id, by
	return &models.Member{ID: "0003", Status: models.StatusActive}, nil
}

func (f *fakeRegistrationSvc) Reject(ctx context.Context, id, by, reason string) (*models.Registration, error) {
	f.id, f.by, f.reason = id, by, reason
	return &models.Registration{ID: id, Status: models.StatusRejected}, nil
}

type fakeAdminSvc struct {
	created  *dto.CreateCoAdminRequest
	deleted  string
	uid      string
	authTime time.Time
	password string
	err      error
}

func (f *fakeAdminSvc) ListCoAdmins(ctx context.Context) ([]models.Admin, error) {
	return []models.Admin{{ID: "c1", Role: models.RoleCoAdmin}}, nil
}

func (f *fakeAdminSvc) GetCoAdmin(ctx context.Context, id string) (*models.Admin, error) {
	if id != "c1" {
		return nil, errs.NewNotFoundError("co-admin not found")
	}
	return &models.Admin{ID: "c1", Role: models.RoleCoAdmin}, nil
}

func (f *fakeAdminSvc) Me(ctx context.Context, uid string) (*models.Admin, error) {
	f.uid = uid
	return &models.Admin{ID: "a1", UID: uid, Role: models.RoleAdmin}, nil
}

func (f *fakeAdminSvc) CreateCoAdmin(ctx context.Context, req dto.CreateCoAdminRequest) (*models.Admin, error) {
	f.created = &req
	return &models.Admin{ID: "c2", Email: req.Email, Role: models.RoleCoAdmin}, nil
}

func (f *fakeAdminSvc) UpdateCoAdmin(ctx context.Context, id string, req dto.UpdateCoAdminRequest) (*models.Admin, error) {
	return f.GetCoAdmin(ctx, id)
}

func (f *fakeAdminSvc) DeleteCoAdmin(ctx context.Context, id, by string) error {
	f.deleted = id
	return nil
}

func (f *fakeAdminSvc) ChangePassword(ctx context.Context, uid string, authTime time.Time, newPassword string) error {
	f.uid, f.authTime, f.password = uid, authTime, newPassword
	return f.err
}

type fakeSettingsSvc struct {
	update *dto.UpdateSettingsRequest
	by     string
}

func (f *fakeSettingsSvc) GetSettings(ctx context.Context) (*models.Settings, error) {
	return &models.Settings{Funds: 50000, LoanTypes: []string{"Regular"}}, nil
}

func (f *fakeSettingsSvc) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, by string) (*models.Settings, error) {
	f.update, f.by = &req, by
	st, _ := f.GetSettings(ctx)
	if req.Funds != nil {
		st.Funds = *req.Funds
	}
	return st, nil
}

type fakeDividendSvc struct {
	year        int
	pool        *float64
	distributed bool
	by          string
}

func (f *fakeDividendSvc) Preview(ctx context.Context, year int, pool *float64) (dto.DividendPreview, error) {
	f.year, f.pool = year, pool
	return dto.DividendPreview{Year: year}, nil
}

func (f *fakeDividendSvc) Record(ctx context.Context, year int) (*models.DividendRecord, error) {
	f.year = year
	return nil, errs.NewNotFoundError("no dividend record for that year")
}

func (f *fakeDividendSvc) Distribute(ctx context.Context, year int, by string) (*models.DividendRecord, error) {
	f.year, f.by, f.distributed = year, by, true
	return &models.DividendRecord{Year: year}, nil
}

type fakeDashboardSvc struct {
	year     int
	memberID string
	limit    int
}

func (f *fakeDashboardSvc) Summary(ctx context.Context, year int) (dto.DashboardSummary, error) {
	f.year = year
	return dto.DashboardSummary{Year: 2025}, nil
}

func (f *fakeDashboardSvc) MemberSummary(ctx context.Context, memberID string) (dto.MemberSummary, error) {
	f.memberID = memberID
	return dto.MemberSummary{}, nil
}

func (f *fakeDashboardSvc) OverdueLoans(ctx context.Context, limit int) ([]dto.LoanSnapshot, error) {
	f.limit = limit
	return []dto.LoanSnapshot{}, nil
}

type fakeExportSvc struct {
	dataset string
	year    int
	err     error
}

func (f *fakeExportSvc) Export(ctx context.Context, dataset string, year int, w io.Writer) error {
	f.dataset, f.year = dataset, year
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "PK-workbook")
	return err
}

type fakeAISvc struct {
	uid     string
	session string
	message string
}

func (f *fakeAISvc) Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error) {
	f.uid, f.session, f.message = uid, sessionID, message
	return dto.AIQueryResponse{SessionID: "s-new", Answer: "Funds are 50000.00"}, nil
}
