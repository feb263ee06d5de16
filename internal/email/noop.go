package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// NoopSender logs sends without delivering. Used in development and when no
// provider API key is configured.
type NoopSender struct {
	logger zerolog.Logger
}

// NewNoopSender creates a new NoopSender
func NewNoopSender(logger zerolog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send logs the email but does not deliver it
func (s *NoopSender) Send(_ context.Context, msg Message) (string, error) {
	s.logger.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Email send skipped (no provider configured)")
	return fmt.Sprintf("noop-%d", time.Now().UnixNano()), nil
}
