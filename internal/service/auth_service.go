package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
	"github.com/natours/natours-backend/pkg/jwt"
	"github.com/natours/natours-backend/pkg/logger"
)

const (
	msgIncorrectCredentials = "Incorrect email or password"
	msgEmailDelivery        = "There was an error sending the email. Try again later!"
	defaultPhoto            = "default.jpg"
)

type AuthService struct {
	users       UserRepository
	creds       *CredentialStore
	tokens      TokenService
	mailer      Mailer
	maxAttempts int
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthService(users UserRepository, creds *CredentialStore, tokens TokenService, mailer Mailer, maxAttempts int, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:       users,
		creds:       creds,
		tokens:      tokens,
		mailer:      mailer,
		maxAttempts: maxAttempts,
		logger:      log.Named("auth"),
		now:         time.Now,
	}
}

func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Signup creates an unverified account and emails its verification token.
// No session is issued until the address is confirmed.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.ErrConflict, "Email already in use. Please use another one!")
	}

	hash, err := s.creds.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	photo := strings.TrimSpace(req.Photo)
	if photo == "" {
		photo = defaultPhoto
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    models.NormalizeEmail(req.Email),
		Photo:    photo,
		Role:     models.RoleUser,
		Password: hash,
		Active:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.ErrConflict, "Email already in use. Please use another one!")
		}
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Uint("user_id", user.ID), zap.String("email", logger.MaskEmail(user.Email)))
	return user, nil
}

// Login checks credentials, applies the hourly attempt limit and then either
// issues a session or handles the unverified-email cases.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperror.New(apperror.ErrBadRequest, "Please provide email and password!")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.New(apperror.ErrUnauthorized, msgIncorrectCredentials)
		}
		return nil, err
	}

	if !s.creds.VerifyPassword(req.Password, user.Password) {
		return nil, apperror.New(apperror.ErrUnauthorized, msgIncorrectCredentials)
	}

	if err := s.countAttempt(ctx, user); err != nil {
		return nil, err
	}

	if !user.EmailVerified {
		if s.creds.VerificationPending(user) {
			return &models.LoginResult{VerificationPending: true}, nil
		}
		if err := s.sendVerification(ctx, user); err != nil {
			return nil, err
		}
		return nil, apperror.New(apperror.ErrVerificationExpired,
			"Your email code has expired. No problem, we sent another email to you. Remember that you have 10min.")
	}

	session, err := s.IssueSession(user)
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{Session: session}, nil
}

// countAttempt records one admitted login in the current hour bucket and
// rejects it once the bucket holds more than maxAttempts.
func (s *AuthService) countAttempt(ctx context.Context, user *models.User) error {
	bucket := s.now().Truncate(time.Hour)
	if user.DateLoginAttempt == nil || bucket.After(*user.DateLoginAttempt) {
		user.LoginAttempts = 0
		user.DateLoginAttempt = &bucket
	}
	user.LoginAttempts++

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if user.LoginAttempts > s.maxAttempts {
		s.logger.Warn("login throttled",
			zap.Uint("user_id", user.ID),
			zap.Int("attempts", user.LoginAttempts),
			zap.Time("bucket", bucket))
		return apperror.New(apperror.ErrTooManyAttempts, "Too many login attempts. Try again in an hour.")
	}
	return nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.creds.IssueVerificationToken(ctx, user)
	if err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		if cerr := s.creds.CancelVerification(ctx, user); cerr != nil {
			s.logger.Error("failed to clear verification token", zap.Uint("user_id", user.ID), zap.Error(cerr))
		}
		return apperror.Wrap(apperror.ErrEmailDelivery, msgEmailDelivery, err)
	}
	return nil
}

// IssueSession signs a token for user. The password hash never leaves the
// service because models.User hides it from JSON.
func (s *AuthService) IssueSession(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return apperror.New(apperror.ErrNotFound, "There is no user with that email address!")
		}
		return err
	}

	ticket, err := s.creds.IssueResetToken(ctx, user)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, ticket.Token); err != nil {
		if cerr := s.creds.CancelReset(ctx, user, ticket); cerr != nil {
			s.logger.Error("failed to roll back password reset", zap.Uint("user_id", user.ID), zap.Error(cerr))
		}
		return apperror.Wrap(apperror.ErrEmailDelivery, msgEmailDelivery, err)
	}

	s.logger.Info("password reset issued", zap.Uint("user_id", user.ID))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) (*models.AuthResponse, error) {
	user, err := s.creds.ConsumeResetToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.New(apperror.ErrInvalidOrExpiredToken, "Token is invalid or has expired")
		}
		return nil, err
	}

	if err := s.creds.SetPassword(user, req.Password); err != nil {
		return nil, err
	}
	s.creds.ClearReset(user)

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.IssueSession(user)
}

func (s *AuthService) UpdateMyPassword(ctx context.Context, actor *models.User, req models.UpdatePasswordRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.New(apperror.ErrUserGone, "User no longer exist!")
		}
		return nil, err
	}

	if !s.creds.VerifyPassword(req.PasswordCurrent, user.Password) {
		return nil, apperror.New(apperror.ErrUnauthorized, "Your current password is wrong!")
	}

	if err := s.creds.SetPassword(user, req.Password); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.IssueSession(user)
}

// VerifyEmail consumes a verification token and logs the user in.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.AuthResponse, error) {
	user, err := s.creds.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.New(apperror.ErrInvalidToken, "Incorrect token provided!")
		}
		return nil, err
	}

	if user.EmailVerified {
		return nil, apperror.New(apperror.ErrAlreadyVerified, "This account is already verified!")
	}
	if s.creds.VerificationExpired(user) {
		return nil, apperror.New(apperror.ErrTokenExpired, "Your token has expired!")
	}

	s.creds.MarkVerified(user)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.logger.Warn("welcome email not sent", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return s.IssueSession(user)
}

// Authenticate resolves a session token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.New(apperror.ErrUnauthenticated, "You are not logged in! Please log in to get access.")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.ErrTokenExpired, "Your token has expired! Please log in again.", err)
		}
		return nil, apperror.Wrap(apperror.ErrInvalidToken, "Invalid token. Please log in again!", err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.New(apperror.ErrUserGone, "User no longer exist!")
		}
		return nil, err
	}

	if s.creds.ChangedPasswordAfter(user, claims.IssuedTime()) {
		return nil, apperror.New(apperror.ErrStalePassword, "User recently changed password. Please login again!")
	}
	return user, nil
}

// Authorize fails with Forbidden unless actor holds one of roles.
func Authorize(actor *models.User, roles ...models.Role) error {
	if actor == nil || !actor.HasRole(roles...) {
		return apperror.New(apperror.ErrForbidden, "You do not have permission to perform this action")
	}
	return nil
}
