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

// ReauthWindow is how recent a sign-in must be to change a password.
const ReauthWindow = 5 * time.Minute

type adminStore interface {
	GetCoAdmin(ctx context.Context, id string) (*models.Admin, error)
	ListCoAdmins(ctx context.Context) ([]models.Admin, error)
	CreateCoAdmin(ctx context.Context, a models.Admin) (*models.Admin, error)
	UpdateCoAdmin(ctx context.Context, id string, fields map[string]any) error
	FindByUID(ctx context.Context, uid string) (*models.Admin, error)
	Apply(ctx context.Context, b *store.Batch) error
}

type adminAccounts interface {
	accountManager
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
}

type encryptor interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
}

type adminService struct {
	store    adminStore
	auth     adminAccounts
	crypto   encryptor
	mail     mailer
	validate structValidator
	appName  string
	clockNow func() time.Time
	password func() (string, error)
}

// NewAdminService manages co-admin accounts. crypto may be nil, in which
// case the initial password is only emailed and never stored.
func NewAdminService(store adminStore, authClient adminAccounts, crypto encryptor, mail mailer, validate structValidator, appName string) *adminService {
	return &adminService{
		store:    store,
		auth:     authClient,
		crypto:   crypto,
		mail:     mail,
		validate: validate,
		appName:  appName,
		clockNow: utcNow,
		password: validation.GeneratePassword,
	}
}

func (s *adminService) ListCoAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.store.ListCoAdmins(ctx)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		redact(&admins[i])
	}
	return admins, nil
}

func (s *adminService) GetCoAdmin(ctx context.Context, id string) (*models.Admin, error) {
	a, err := s.store.GetCoAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	redact(a)
	return a, nil
}

// Me resolves the caller's admin or co-admin record.
func (s *adminService) Me(ctx context.Context, uid string) (*models.Admin, error) {
	a, err := s.store.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	redact(a)
	return a, nil
}

func (s *adminService) CreateCoAdmin(ctx context.Context, req dto.CreateCoAdminRequest) (*models.Admin, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.ListCoAdmins(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if strings.EqualFold(a.Email, email) {
			return nil, errs.NewAlreadyExistsError("a co-admin with that email already exists")
		}
	}

	password, err := s.password()
	if err != nil {
		return nil, err
	}

	now := s.clockNow()
	admin := models.Admin{
		FirstName:     strings.TrimSpace(req.FirstName),
		MiddleName:    strings.TrimSpace(req.MiddleName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		ContactNumber: req.ContactNumber,
		Role:          models.RoleCoAdmin,
		DateAdded:     now,
		UpdatedAt:     now,
	}
	if s.crypto != nil {
		sealed, err := s.crypto.Encrypt(ctx, password)
		if err != nil {
			log.Error("failed to encrypt initial password", "error", err)
			return nil, err
		}
		admin.InitialPassword = sealed
		admin.InitialPasswordEncrypted = true
	}

	user, err := s.auth.CreateUser(ctx, (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(admin.FullName()))
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, errs.NewAlreadyExistsError("an account with that email already exists")
		}
		log.Error("failed to create co-admin account", "error", err)
		return nil, errs.NewExternalServiceError("firebase-auth", "failed to create account", false, err)
	}
	admin.UID = user.UID

	created, err := s.commitCoAdmin(ctx, admin)
	if err != nil {
		if delErr := s.auth.DeleteUser(ctx, user.UID); delErr != nil {
			log.Error("failed to roll back co-admin account", "uid", user.UID, "error", delErr)
		}
		return nil, err
	}

	notify(ctx, s.mail, func() (dto.EmailMessage, error) {
		return emailclient.CoAdminCredentials(s.appName, *created, password)
	})
	log.Info("co-admin created", "coadmin_id", created.ID)
	redact(created)
	return created, nil
}

func (s *adminService) commitCoAdmin(ctx context.Context, admin models.Admin) (*models.Admin, error) {
	if err := s.auth.SetCustomUserClaims(ctx, admin.UID, map[string]interface{}{"role": models.RoleCoAdmin}); err != nil {
		return nil, errs.NewExternalServiceError("firebase-auth", "failed to set account role", false, err)
	}
	return s.store.CreateCoAdmin(ctx, admin)
}

func (s *adminService) UpdateCoAdmin(ctx context.Context, id string, req dto.UpdateCoAdminRequest) (*models.Admin, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	for key, v := range map[string]*string{
		"firstName":     req.FirstName,
		"middleName":    req.MiddleName,
		"lastName":      req.LastName,
		"contactNumber": req.ContactNumber,
	} {
		if v != nil {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	if len(fields) == 0 {
		return nil, errs.NewValidationError("no fields to update")
	}

	if err := s.store.UpdateCoAdmin(ctx, id, fields); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("co-admin updated", "coadmin_id", id)
	return s.GetCoAdmin(ctx, id)
}

// DeleteCoAdmin removes the sign-in account and archives the record.
func (s *adminService) DeleteCoAdmin(ctx context.Context, id, by string) error {
	log := logger.FromContext(ctx)

	a, err := s.store.GetCoAdmin(ctx, id)
	if err != nil {
		return err
	}
	if a.UID != "" {
		if err := s.auth.DeleteUser(ctx, a.UID); err != nil && !auth.IsUserNotFound(err) {
			log.Error("failed to delete co-admin account", "coadmin_id", id, "error", err)
			return errs.NewExternalServiceError("firebase-auth", "failed to delete account", false, err)
		}
	}

	redact(a)
	b := store.NewBatch().
		Archive(models.ArchivedRecord{
			Entity:     "CoAdmins",
			ID:         id,
			Data:       a,
			ArchivedAt: s.clockNow(),
			ArchivedBy: by,
		}).
		RemoveCoAdmin(id)
	if err := s.store.Apply(ctx, b); err != nil {
		log.Error("failed to delete co-admin record", "coadmin_id", id, "error", err)
		return err
	}

	log.Info("co-admin deleted", "coadmin_id", id)
	return nil
}

// ChangePassword sets a new password for the caller. authTime is when the
// caller's ID token was issued by a fresh sign-in.
func (s *adminService) ChangePassword(ctx context.Context, uid string, authTime time.Time, newPassword string) error {
	log := logger.FromContext(ctx)

	if authTime.IsZero() || s.clockNow().Sub(authTime) > ReauthWindow {
		return errs.NewUnauthorizedError("sign in again before changing your password")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	if _, err := s.auth.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Password(newPassword)); err != nil {
		log.Error("failed to update password", "error", err)
		return errs.NewExternalServiceError("firebase-auth", "failed to update password", false, err)
	}

	a, err := s.store.FindByUID(ctx, uid)
	if err == nil && a.Role == models.RoleCoAdmin && a.InitialPassword != "" {
		if err := s.store.UpdateCoAdmin(ctx, a.ID, map[string]any{
			"initialPassword":          nil,
			"initialPasswordEncrypted": nil,
		}); err != nil {
			log.Warn("failed to clear initial password", "coadmin_id", a.ID, "error", err)
		}
	}

	log.Info("password changed")
	return nil
}

func redact(a *models.Admin) {
	a.InitialPassword = ""
	a.InitialPasswordEncrypted = false
}
