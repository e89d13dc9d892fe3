package service

import (
	"context"

	"github.com/google/uuid"

	"maplecart/pkg/logger"
)

// logEmailSender пишет письма в лог вместо реальной отправки
type logEmailSender struct{}

// NewLogEmailSender создает EmailSender, пишущий в лог
func NewLogEmailSender() EmailSender {
	return &logEmailSender{}
}

func (s *logEmailSender) Send(ctx context.Context, userID uuid.UUID, subject, body string) error {
	logger.Info().
		Str("user_id", userID.String()).
		Str("subject", subject).
		Str("body", body).
		Msg("Email notification (log delivery)")
	return nil
}
