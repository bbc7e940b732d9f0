package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	emailclient "github.com/GregMSThompson/coop-backend/internal/client/email"
	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type requestStore interface {
	ListApplications(ctx context.Context, kind models.RequestKind, status string) ([]models.Application, error)
	ListMemberApplications(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error)
	GetApplication(ctx context.Context, kind models.RequestKind, status, memberID, txID string) (*models.Application, error)
	SubmitApplication(ctx context.Context, app models.Application) error
	Apply(ctx context.Context, b *store.Batch) error
}

type memberReader interface {
	GetMember(ctx context.Context, id string) (*models.Member, error)
}

type currentLoanReader interface {
	ListMemberCurrentLoans(ctx context.Context, memberID string) ([]models.Loan, error)
	GetCurrentLoan(ctx context.Context, memberID, txID string) (*models.Loan, error)
}

// requestService runs the deposit, withdrawal, payment and loan
// application lifecycle: submit, then approve or reject. Approval effects
// are in approvals.go.
type requestService struct {
	store    requestStore
	members  memberReader
	settings settingsReader
	loans    currentLoanReader
	mail     mailer
	validate structValidator
	clockNow func() time.Time
	newID    func() string
}

func NewRequestService(
	store requestStore,
	members memberReader,
	settings settingsReader,
	loans currentLoanReader,
	mail mailer,
	validate structValidator,
) *requestService {
	return &requestService{
		store:    store,
		members:  members,
		settings: settings,
		loans:    loans,
		mail:     mail,
		validate: validate,
		clockNow: utcNow,
		newID:    uuid.NewString,
	}
}

func (s *requestService) List(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error) {
	if !kind.Valid() {
		return nil, errs.NewNotFoundError("unknown request type")
	}
	if status == "" {
		status = models.StatusPending
	}
	if !validStatus(status) {
		return nil, errs.NewValidationError("status must be pending, approved or rejected")
	}
	if memberID != "" {
		return s.store.ListMemberApplications(ctx, kind, status, memberID)
	}
	return s.store.ListApplications(ctx, kind, status)
}

func (s *requestService) Submit(ctx context.Context, kind models.RequestKind, req dto.SubmitApplicationRequest) (*models.Application, error) {
	log := logger.FromContext(ctx)

	if !kind.Valid() {
		return nil, errs.NewNotFoundError("unknown request type")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	member, err := s.members.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, errs.NewConflictError("member is inactive")
	}

	app := models.Application{
		TransactionID: s.newID(),
		Kind:          kind,
		MemberID:      member.ID,
		MemberName:    member.FullName(),
		Email:         member.Email,
		Amount:        money(dec(req.Amount)),
		Method:        req.Method,
		AccountName:   strings.TrimSpace(req.AccountName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Status:        models.StatusPending,
		DateApplied:   s.clockNow(),
	}

	switch kind {
	case models.KindWithdrawal:
		if req.Amount > member.Balance {
			return nil, errs.NewConflictError("withdrawal exceeds the member's balance")
		}
	case models.KindLoan:
		if err := s.checkLoanRequest(ctx, req); err != nil {
			return nil, err
		}
		app.LoanType = req.LoanType
		app.Term = req.Term
	case models.KindPayment:
		loan, err := s.resolvePaymentLoan(ctx, member.ID, req.LoanTransactionID)
		if err != nil {
			return nil, err
		}
		app.LoanTransactionID = loan.TransactionID
	}

	if err := s.store.SubmitApplication(ctx, app); err != nil {
		log.Error("failed to submit application", "kind", kind, "error", err)
		return nil, err
	}

	log.Info("application submitted", "kind", kind, "member_id", app.MemberID, "transaction_id", app.TransactionID)
	return &app, nil
}

func (s *requestService) checkLoanRequest(ctx context.Context, req dto.SubmitApplicationRequest) error {
	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}
	if _, ok := st.InterestRateByType[req.LoanType]; !ok {
		return errs.NewValidationError("loanType is not offered")
	}
	if req.Term <= 0 {
		return errs.NewValidationError("term is required")
	}
	if len(st.LoanTerms) > 0 && !slices.Contains(st.LoanTerms, req.Term) {
		return errs.NewValidationError("term is not offered")
	}
	return nil
}

// resolvePaymentLoan finds the loan a payment settles. An empty txID is
// accepted when the member has exactly one current loan.
func (s *requestService) resolvePaymentLoan(ctx context.Context, memberID, txID string) (*models.Loan, error) {
	if txID != "" {
		return s.loans.GetCurrentLoan(ctx, memberID, txID)
	}
	loans, err := s.loans.ListMemberCurrentLoans(ctx, memberID)
	if err != nil {
		return nil, err
	}
	switch len(loans) {
	case 0:
		return nil, errs.NewConflictError("member has no current loan")
	case 1:
		return &loans[0], nil
	}
	return nil, errs.NewValidationError("loanTransactionId is required")
}

func (s *requestService) Approve(ctx context.Context, kind models.RequestKind, memberID, txID, by string) (*models.Application, error) {
	log, ctx := logger.With(ctx, "kind", kind, "member_id", memberID, "transaction_id", txID)

	if !kind.Valid() {
		return nil, errs.NewNotFoundError("unknown request type")
	}
	app, err := s.store.GetApplication(ctx, kind, models.StatusPending, memberID, txID)
	if err != nil {
		return nil, err
	}
	member, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clockNow()
	b := store.NewBatch()
	var effect error
	switch kind {
	case models.KindDeposit:
		effect = approveDeposit(b, app, member, st, now)
	case models.KindWithdrawal:
		effect = approveWithdrawal(b, app, member, st, now)
	case models.KindLoan:
		effect = s.approveLoan(ctx, b, app, st, now)
	case models.KindPayment:
		effect = s.approvePayment(ctx, b, app, st, now)
	}
	if effect != nil {
		log.Warn("approval refused", "error", effect)
		return nil, effect
	}

	app.Status = models.StatusApproved
	app.DateProcessed = &now
	app.ProcessedBy = by
	b.MoveApplication(*app, models.StatusPending)

	if err := s.store.Apply(ctx, b); err != nil {
		log.Error("failed to apply approval", "error", err)
		return nil, err
	}

	notify(ctx, s.mail, func() (dto.EmailMessage, error) { return emailclient.ApplicationDecision(*app) })
	log.Info("application approved", "amount", app.Amount)
	return app, nil
}

func (s *requestService) Reject(ctx context.Context, kind models.RequestKind, memberID, txID, by, reason string) (*models.Application, error) {
	log, ctx := logger.With(ctx, "kind", kind, "member_id", memberID, "transaction_id", txID)

	if !kind.Valid() {
		return nil, errs.NewNotFoundError("unknown request type")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.NewValidationError("reason is required")
	}
	app, err := s.store.GetApplication(ctx, kind, models.StatusPending, memberID, txID)
	if err != nil {
		return nil, err
	}

	now := s.clockNow()
	app.Status = models.StatusRejected
	app.RejectionReason = reason
	app.DateProcessed = &now
	app.ProcessedBy = by

	if err := s.store.Apply(ctx, store.NewBatch().MoveApplication(*app, models.StatusPending)); err != nil {
		log.Error("failed to reject application", "error", err)
		return nil, err
	}

	notify(ctx, s.mail, func() (dto.EmailMessage, error) { return emailclient.ApplicationDecision(*app) })
	log.Info("application rejected")
	return app, nil
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}
