package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/natours/natours-backend/pkg/logger"
)

// Transport hands a rendered message to a delivery provider and returns its message id.
type Transport interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// EmailService composes the application's emails and delivers them synchronously,
// so callers can roll back state when delivery fails.
type EmailService struct {
	composer  *Composer
	transport Transport
	logger    *zap.Logger
}

func NewEmailService(composer *Composer, transport Transport, log *zap.Logger) *EmailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmailService{
		composer:  composer,
		transport: transport,
		logger:    log.Named("email"),
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, to, name string) error {
	msg, err := s.composer.Welcome(to, name)
	if err != nil {
		return err
	}
	return s.deliver(ctx, "welcome", msg)
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	msg, err := s.composer.Verification(to, name, token)
	if err != nil {
		return err
	}
	return s.deliver(ctx, "verification", msg)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	msg, err := s.composer.PasswordReset(to, name, token)
	if err != nil {
		return err
	}
	return s.deliver(ctx, "password_reset", msg)
}

func (s *EmailService) deliver(ctx context.Context, kind string, msg *Message) error {
	to := logger.MaskEmail(msg.To)

	id, err := s.transport.Send(ctx, msg)
	if err != nil {
		s.logger.Warn("email delivery failed", zap.String("kind", kind), zap.String("to", to), zap.Error(err))
		return err
	}

	s.logger.Info("email sent", zap.String("kind", kind), zap.String("to", to), zap.String("id", id))
	return nil
}
