package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"

	emailclient "github.com/GregMSThompson/coop-backend/internal/client/email"
	vertexclient "github.com/GregMSThompson/coop-backend/internal/client/vertex"
	"github.com/GregMSThompson/coop-backend/internal/config"
	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/secrets"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type mailSender interface {
	Send(ctx context.Context, msg dto.EmailMessage) error
}

type Bootstrap struct {
	Log           *slog.Logger
	Auth          *auth.Client
	Database      *db.Client
	Firestore     *firestore.Client
	KMS           *gcpkms.KeyManagementClient
	Secrets       *secretmanager.Client
	VertexAdapter *vertexclient.Adapter
	Mailer        mailSender
}

// Run connects every backing service. KMS and Vertex are optional: they
// stay nil when their config is missing.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	app, err := InitFirebase(applicationCtx, cfg.ProjectID, cfg.DatabaseURL)
	if err != nil {
		return bs, err
	}
	bs.Auth, err = app.Auth(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.Database, err = app.Database(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.Firestore, err = app.Firestore(applicationCtx)
	if err != nil {
		return bs, err
	}

	if cfg.KMSKeyName != "" {
		bs.KMS, err = gcpkms.NewKeyManagementClient(applicationCtx)
		if err != nil {
			return bs, err
		}
	}

	if cfg.VertexModel != "" {
		bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
		if err != nil {
			return bs, err
		}
	}

	bs.Mailer, err = initMailer(applicationCtx, cfg, bs)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// initMailer resolves the SendGrid key from config or Secret Manager and
// falls back to logging mail when neither is set.
func initMailer(ctx context.Context, cfg *config.Config, bs *Bootstrap) (mailSender, error) {
	key := cfg.SendgridAPIKey
	if key == "" && cfg.SendgridAPIKeySecret != "" {
		client, err := secretmanager.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		bs.Secrets = client
		key, err = secrets.New(client, cfg.ProjectID).Latest(ctx, cfg.SendgridAPIKeySecret)
		if err != nil {
			return nil, err
		}
	}

	if key == "" {
		bs.Log.Warn("no SendGrid key configured, emails will only be logged")
		return emailclient.NewLogSender(bs.Log, cfg.AppName), nil
	}
	return emailclient.NewSendgrid(key, cfg.MailFromName, cfg.MailFromAddress, cfg.AppName), nil
}

func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	if bs.KMS != nil {
		errList = append(errList, bs.KMS.Close())
	}
	if bs.Secrets != nil {
		errList = append(errList, bs.Secrets.Close())
	}
	if bs.VertexAdapter != nil {
		errList = append(errList, bs.VertexAdapter.Close())
	}
	return errors.Join(errList...)
}
