package services

import (
	"context"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	emailclient "github.com/GregMSThompson/coop-backend/internal/client/email"
	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/internal/validation"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type registrationStore interface {
	ListRegistrations(ctx context.Context, status string) ([]models.Registration, error)
	GetRegistration(ctx context.Context, status, id string) (*models.Registration, error)
	SubmitRegistration(ctx context.Context, r models.Registration) (*models.Registration, error)
	Apply(ctx context.Context, b *store.Batch) error
}

type registrationMembers interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	AllocateMemberID(ctx context.Context) (string, error)
}

type settingsReader interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
}

// accountManager is the slice of the Firebase Auth client used to issue
// and revoke sign-in accounts.
type accountManager interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

type registrationService struct {
	store    registrationStore
	members  registrationMembers
	settings settingsReader
	auth     accountManager
	mail     mailer
	validate structValidator
	appName  string
	clockNow func() time.Time
	password func() (string, error)
}

func NewRegistrationService(
	store registrationStore,
	members registrationMembers,
	settings settingsReader,
	authClient accountManager,
	mail mailer,
	validate structValidator,
	appName string,
) *registrationService {
	return &registrationService{
		store:    store,
		members:  members,
		settings: settings,
		auth:     authClient,
		mail:     mail,
		validate: validate,
		appName:  appName,
		clockNow: utcNow,
		password: validation.GeneratePassword,
	}
}

func (s *registrationService) ListRegistrations(ctx context.Context, status string) ([]models.Registration, error) {
	return s.store.ListRegistrations(ctx, status)
}

// Submit records a membership application. The orientation code must match
// the one currently published in Settings.
func (s *registrationService) Submit(ctx context.Context, req dto.RegistrationRequest) (*models.Registration, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if st.OrientationCode == "" || !strings.EqualFold(st.OrientationCode, strings.TrimSpace(req.OrientationCode)) {
		log.Warn("registration with wrong orientation code")
		return nil, errs.NewValidationError("orientation code is not valid")
	}

	reg, err := s.store.SubmitRegistration(ctx, models.Registration{
		FirstName:       strings.TrimSpace(req.FirstName),
		MiddleName:      strings.TrimSpace(req.MiddleName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		ContactNumber:   req.ContactNumber,
		Address:         strings.TrimSpace(req.Address),
		Investment:      req.Investment,
		OrientationCode: strings.TrimSpace(req.OrientationCode),
		DateApplied:     s.clockNow(),
	})
	if err != nil {
		log.Error("failed to submit registration", "error", err)
		return nil, err
	}

	log.Info("registration submitted", "registration_id", reg.ID)
	return reg, nil
}

// Approve opens a sign-in account, creates the member with the initial
// investment and moves the application, in that order. The account is
// removed again when the database write fails.
func (s *registrationService) Approve(ctx context.Context, id, by string) (*models.Member, error) {
	log := logger.FromContext(ctx)

	reg, err := s.store.GetRegistration(ctx, models.StatusPending, id)
	if err != nil {
		return nil, err
	}
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if strings.EqualFold(m.Email, reg.Email) {
			return nil, errs.NewAlreadyExistsError("a member with that email already exists")
		}
	}
	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	password, err := s.password()
	if err != nil {
		return nil, err
	}
	user, err := s.auth.CreateUser(ctx, (&auth.UserToCreate{}).
		Email(reg.Email).
		Password(password).
		DisplayName(reg.FullName()))
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, errs.NewAlreadyExistsError("an account with that email already exists")
		}
		log.Error("failed to create member account", "registration_id", id, "error", err)
		return nil, errs.NewExternalServiceError("firebase-auth", "failed to create account", false, err)
	}

	member, err := s.commitApproval(ctx, reg, st, user.UID, by)
	if err != nil {
		if delErr := s.auth.DeleteUser(ctx, user.UID); delErr != nil {
			log.Error("failed to roll back member account", "uid", user.UID, "error", delErr)
		}
		return nil, err
	}

	notify(ctx, s.mail, func() (dto.EmailMessage, error) {
		return emailclient.MemberCredentials(s.appName, *member, password)
	})
	log.Info("registration approved", "registration_id", id, "member_id", member.ID)
	return member, nil
}

func (s *registrationService) commitApproval(ctx context.Context, reg *models.Registration, st *models.Settings, uid, by string) (*models.Member, error) {
	if err := s.auth.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": models.RoleMember}); err != nil {
		return nil, errs.NewExternalServiceError("firebase-auth", "failed to set account role", false, err)
	}

	memberID, err := s.members.AllocateMemberID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clockNow()
	member := models.Member{
		ID:            memberID,
		UID:           uid,
		FirstName:     reg.FirstName,
		MiddleName:    reg.MiddleName,
		LastName:      reg.LastName,
		Email:         reg.Email,
		ContactNumber: reg.ContactNumber,
		Address:       reg.Address,
		Investment:    reg.Investment,
		Status:        models.StatusActive,
		DateAdded:     now,
		UpdatedAt:     now,
	}

	processed := *reg
	processed.Status = models.StatusApproved
	processed.MemberID = memberID
	processed.DateProcessed = &now
	processed.ProcessedBy = by

	b := store.NewBatch().
		PutMember(member).
		MoveRegistration(processed, models.StatusPending)
	if reg.Investment > 0 {
		b.SettingsField("Funds", money(dec(st.Funds).Add(dec(reg.Investment)))).
			AddTransaction(models.Transaction{
				TransactionID: reg.ID,
				MemberID:      memberID,
				Type:          models.TxRegistrations,
				Amount:        reg.Investment,
				Status:        models.StatusApproved,
				Description:   "initial investment",
				Date:          now,
			})
	}

	if err := s.store.Apply(ctx, b); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *registrationService) Reject(ctx context.Context, id, by, reason string) (*models.Registration, error) {
	log := logger.FromContext(ctx)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.NewValidationError("reason is required")
	}
	reg, err := s.store.GetRegistration(ctx, models.StatusPending, id)
	if err != nil {
		return nil, err
	}

	now := s.clockNow()
	reg.Status = models.StatusRejected
	reg.RejectionReason = reason
	reg.DateProcessed = &now
	reg.ProcessedBy = by

	if err := s.store.Apply(ctx, store.NewBatch().MoveRegistration(*reg, models.StatusPending)); err != nil {
		log.Error("failed to reject registration", "registration_id", id, "error", err)
		return nil, err
	}

	notify(ctx, s.mail, func() (dto.EmailMessage, error) {
		return emailclient.RegistrationRejected(s.appName, *reg)
	})
	log.Info("registration rejected", "registration_id", id)
	return reg, nil
}
