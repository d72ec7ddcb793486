package email

import (
	"dlibrary_backend/internal/logger"
)

// LogProvider is the dispatcher used when SMTP is not configured. It logs
// what would have been sent and never errors, so the calling control flow
// is identical with or without a mail server.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) SendVerification(to string, data VerificationData) error {
	logger.Info("verification email (no SMTP configured)",
		"to", to,
		"link", data.Link,
		"code", data.Code,
	)
	return nil
}

func (p *LogProvider) SendAccountAction(to string, data AccountActionData) error {
	fields := []any{
		"to", to,
		"action", string(data.Action),
		"admin", data.AdminName,
	}
	if data.Until != nil {
		fields = append(fields, "until", data.Until.Format("2006-01-02T15:04:05Z07:00"))
	}
	logger.Info("account action email (no SMTP configured)", fields...)
	return nil
}
