package identity

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes reset links to the log instead of sending mail.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, resetToken string) error {
	m.logger.Info().
		Str("email", email).
		Str("reset_token", resetToken).
		Msg("password reset requested")
	return nil
}
