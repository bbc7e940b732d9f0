package emailclient

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridSender struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

func NewSendgrid(key, fromName, fromAddress, appName string) *sendgridSender {
	return &sendgridSender{
		key:        key,
		from:       sgmail.NewEmail(fromName, fromAddress),
		subjPrefix: "[" + appName + "] ",
	}
}

func (s *sendgridSender) prepare(msg dto.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *sendgridSender) Send(ctx context.Context, msg dto.EmailMessage) error {
	if len(msg.To) == 0 {
		return errs.NewValidationError("email has no recipients")
	}

	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return errs.NewExternalServiceError("sendgrid", "failed to send email", true, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errs.NewExternalServiceError("sendgrid", "email rejected: "+res.Body, res.StatusCode >= http.StatusInternalServerError, nil)
	}

	logger.FromContext(ctx).Info("email sent", "subject", msg.Subject, "recipients", len(msg.To))
	return nil
}

// logSender stands in for SendGrid when no API key is configured.
type logSender struct {
	log        *slog.Logger
	subjPrefix string
}

func NewLogSender(log *slog.Logger, appName string) *logSender {
	return &logSender{log: log, subjPrefix: "[" + appName + "] "}
}

func (s *logSender) Send(ctx context.Context, msg dto.EmailMessage) error {
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}
	s.log.InfoContext(ctx, "email not sent (no provider configured)",
		"to", strings.Join(to, ", "),
		"subject", s.subjPrefix+msg.Subject,
		"body", msg.Text,
	)
	return nil
}
