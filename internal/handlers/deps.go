package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type MemberService interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	GetMember(ctx context.Context, id string) (*models.Member, error)
	CreateMember(ctx context.Context, req dto.CreateMemberRequest) (*models.Member, error)
	UpdateMember(ctx context.Context, id string, req dto.UpdateMemberRequest) (*models.Member, error)
	SetStatus(ctx context.Context, id, status string) (*models.Member, error)
	DeleteMember(ctx context.Context, id, by string) error
}

type RegistrationService interface {
	ListRegistrations(ctx context.Context, status string) ([]models.Registration, error)
	Submit(ctx context.Context, req dto.RegistrationRequest) (*models.Registration, error)
	Approve(ctx context.Context, id, by string) (*models.Member, error)
	Reject(ctx context.Context, id, by, reason string) (*models.Registration, error)
}

type AdminService interface {
	ListCoAdmins(ctx context.Context) ([]models.Admin, error)
	GetCoAdmin(ctx context.Context, id string) (*models.Admin, error)
	Me(ctx context.Context, uid string) (*models.Admin, error)
	CreateCoAdmin(ctx context.Context, req dto.CreateCoAdminRequest) (*models.Admin, error)
	UpdateCoAdmin(ctx context.Context, id string, req dto.UpdateCoAdminRequest) (*models.Admin, error)
	DeleteCoAdmin(ctx context.Context, id, by string) error
	ChangePassword(ctx context.Context, uid string, authTime time.Time, newPassword string) error
}

type RequestService interface {
	List(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error)
	Submit(ctx context.Context, kind models.RequestKind, req dto.SubmitApplicationRequest) (*models.Application, error)
	Approve(ctx context.Context, kind models.RequestKind, memberID, txID, by string) (*models.Application, error)
	Reject(ctx context.Context, kind models.RequestKind, memberID, txID, by, reason string) (*models.Application, error)
}

type LoanService interface {
	ListCurrentLoans(ctx context.Context) ([]models.Loan, error)
	ListPaidLoans(ctx context.Context) ([]models.Loan, error)
	Schedule(ctx context.Context, memberID, txID string) ([]dto.LoanScheduleRow, error)
}

type ReminderService interface {
	Sweep(ctx context.Context) (dto.ReminderResult, error)
}

type SettingsService interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, by string) (*models.Settings, error)
}

type DividendService interface {
	Preview(ctx context.Context, year int, pool *float64) (dto.DividendPreview, error)
	Record(ctx context.Context, year int) (*models.DividendRecord, error)
	Distribute(ctx context.Context, year int, by string) (*models.DividendRecord, error)
}

type DashboardService interface {
	Summary(ctx context.Context, year int) (dto.DashboardSummary, error)
	MemberSummary(ctx context.Context, memberID string) (dto.MemberSummary, error)
	OverdueLoans(ctx context.Context, limit int) ([]dto.LoanSnapshot, error)
}

type TransactionService interface {
	History(ctx context.Context, memberID, txType string) (dto.MemberHistory, error)
}

type ExportService interface {
	Export(ctx context.Context, dataset string, year int, w io.Writer) error
}

type AIService interface {
	Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error)
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler

	MemberSvc       MemberService
	RegistrationSvc RegistrationService
	AdminSvc        AdminService
	RequestSvc      RequestService
	LoanSvc         LoanService
	ReminderSvc     ReminderService
	SettingsSvc     SettingsService
	DividendSvc     DividendService
	DashboardSvc    DashboardService
	TransactionSvc  TransactionService
	ExportSvc       ExportService
	AISvc           AIService
}
