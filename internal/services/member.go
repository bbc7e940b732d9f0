package services

import (
	"context"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type memberStore interface {
	GetMember(ctx context.Context, id string) (*models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	CreateMember(ctx context.Context, m models.Member) (*models.Member, error)
	UpdateMember(ctx context.Context, id string, fields map[string]any) error
	Apply(ctx context.Context, b *store.Batch) error
}

type memberLoans interface {
	ListMemberCurrentLoans(ctx context.Context, memberID string) ([]models.Loan, error)
}

type memberAccounts interface {
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

type memberService struct {
	store    memberStore
	loans    memberLoans
	auth     memberAccounts
	validate structValidator
	clockNow func() time.Time
}

func NewMemberService(store memberStore, loans memberLoans, auth memberAccounts, validate structValidator) *memberService {
	return &memberService{
		store:    store,
		loans:    loans,
		auth:     auth,
		validate: validate,
		clockNow: utcNow,
	}
}

func (s *memberService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.store.ListMembers(ctx)
}

func (s *memberService) GetMember(ctx context.Context, id string) (*models.Member, error) {
	return s.store.GetMember(ctx, id)
}

func (s *memberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest) (*models.Member, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	now := s.clockNow()
	m, err := s.store.CreateMember(ctx, models.Member{
		FirstName:     strings.TrimSpace(req.FirstName),
		MiddleName:    strings.TrimSpace(req.MiddleName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		ContactNumber: req.ContactNumber,
		Address:       strings.TrimSpace(req.Address),
		Balance:       req.Balance,
		Investment:    req.Investment,
		Status:        models.StatusActive,
		DateAdded:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		log.Error("failed to create member", "error", err)
		return nil, err
	}

	log.Info("member created", "member_id", m.ID)
	return m, nil
}

func (s *memberService) UpdateMember(ctx context.Context, id string, req dto.UpdateMemberRequest) (*models.Member, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	setString("firstName", req.FirstName)
	setString("middleName", req.MiddleName)
	setString("lastName", req.LastName)
	setString("contactNumber", req.ContactNumber)
	setString("address", req.Address)
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		if err := s.syncSignInEmail(ctx, id, email); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if req.Investment != nil {
		fields["investment"] = *req.Investment
	}
	if len(fields) == 0 {
		return nil, errs.NewValidationError("no fields to update")
	}

	if err := s.store.UpdateMember(ctx, id, fields); err != nil {
		log.Error("failed to update member", "member_id", id, "error", err)
		return nil, err
	}

	log.Info("member updated", "member_id", id, "fields", len(fields))
	return s.store.GetMember(ctx, id)
}

// syncSignInEmail moves a member's Firebase account to the new address so
// they keep signing in with the email on record.
func (s *memberService) syncSignInEmail(ctx context.Context, id, email string) error {
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if m.UID == "" || m.Email == email {
		return nil
	}
	if _, err := s.auth.UpdateUser(ctx, m.UID, (&auth.UserToUpdate{}).Email(email)); err != nil {
		logger.FromContext(ctx).Error("failed to update sign-in email", "member_id", id, "error", err)
		return errs.NewExternalServiceError("firebase-auth", "failed to update sign-in email", false, err)
	}
	return nil
}

func (s *memberService) SetStatus(ctx context.Context, id, status string) (*models.Member, error) {
	if status != models.StatusActive && status != models.StatusInactive {
		return nil, errs.NewValidationError("status must be active or inactive")
	}
	if err := s.store.UpdateMember(ctx, id, map[string]any{"status": status}); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("member status changed", "member_id", id, "status", status)
	return s.store.GetMember(ctx, id)
}

// DeleteMember archives the record before removing it. Members with a
// running loan cannot be deleted.
func (s *memberService) DeleteMember(ctx context.Context, id, by string) error {
	log := logger.FromContext(ctx)

	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	loans, err := s.loans.ListMemberCurrentLoans(ctx, id)
	if err != nil {
		return err
	}
	if len(loans) > 0 {
		log.Warn("member delete refused", "member_id", id, "current_loans", len(loans))
		return errs.NewConflictError("member still has a current loan")
	}

	b := store.NewBatch().
		Archive(models.ArchivedRecord{
			Entity:     "Members",
			ID:         id,
			Data:       m,
			ArchivedAt: s.clockNow(),
			ArchivedBy: by,
		}).
		RemoveMember(id)
	if err := s.store.Apply(ctx, b); err != nil {
		log.Error("failed to delete member", "member_id", id, "error", err)
		return err
	}

	if m.UID != "" && s.auth != nil {
		if err := s.auth.DeleteUser(ctx, m.UID); err != nil {
			log.Warn("failed to delete member sign-in account", "member_id", id, "error", err)
		}
	}

	log.Info("member deleted", "member_id", id)
	return nil
}

func (s *memberService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.ID != exceptID && strings.EqualFold(m.Email, email) {
			return errs.NewAlreadyExistsError("a member with that email already exists")
		}
	}
	return nil
}
