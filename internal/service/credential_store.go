package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
	"github.com/natours/natours-backend/pkg/bcrypt"
	"github.com/natours/natours-backend/pkg/utils"
)

const (
	tokenBytes        = 6
	VerificationTTL   = 10 * time.Minute
	ResetTTL          = 10 * time.Minute
	passwordChangeLag = time.Second
)

// ResetTicket is the outcome of IssueResetToken. It remembers the password
// state it replaced so a failed delivery can be undone.
type ResetTicket struct {
	Token string

	prevPassword  string
	prevChangedAt *time.Time
}

// CredentialStore owns password hashes and the single-use email tokens.
type CredentialStore struct {
	users UserRepository
	cost  int
	now   func() time.Time
}

func NewCredentialStore(users UserRepository) *CredentialStore {
	return &CredentialStore{
		users: users,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *CredentialStore) WithCost(cost int) *CredentialStore {
	s.cost = cost
	return s
}

func (s *CredentialStore) WithClock(now func() time.Time) *CredentialStore {
	s.now = now
	return s
}

func (s *CredentialStore) HashPassword(plain string) (string, error) {
	return bcrypt.HashPasswordWithCost(plain, s.cost)
}

func (s *CredentialStore) VerifyPassword(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.ComparePassword(hash, plain) == nil
}

// SetPassword replaces the password hash and records the change one second in
// the past, so a session signed right after the change is still accepted.
// The user is not persisted.
func (s *CredentialStore) SetPassword(user *models.User, plain string) error {
	hash, err := s.HashPassword(plain)
	if err != nil {
		return err
	}
	changedAt := s.now().Add(-passwordChangeLag)
	user.Password = hash
	user.PasswordChangedAt = &changedAt
	return nil
}

// ChangedPasswordAfter compares at second resolution, as JWT iat does.
func (s *CredentialStore) ChangedPasswordAfter(user *models.User, issuedAt time.Time) bool {
	if user.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < user.PasswordChangedAt.Unix()
}

func (s *CredentialStore) IssueVerificationToken(ctx context.Context, user *models.User) (string, error) {
	token, err := utils.RandomHex(tokenBytes)
	if err != nil {
		return "", err
	}

	expire := s.now().Add(VerificationTTL)
	user.CheckEmailToken = utils.HashToken(token)
	user.CheckEmailExpire = &expire

	if err := s.users.Save(ctx, user); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}
	return token, nil
}

func (s *CredentialStore) CancelVerification(ctx context.Context, user *models.User) error {
	user.CheckEmailToken = ""
	user.CheckEmailExpire = nil
	return s.users.Save(ctx, user)
}

// IssueResetToken generates a temporary password. It becomes the account
// password right away and its sha256 is kept as the reset token.
func (s *CredentialStore) IssueResetToken(ctx context.Context, user *models.User) (*ResetTicket, error) {
	token, err := utils.RandomHex(tokenBytes)
	if err != nil {
		return nil, err
	}

	ticket := &ResetTicket{
		Token:         token,
		prevPassword:  user.Password,
		prevChangedAt: user.PasswordChangedAt,
	}

	if err := s.SetPassword(user, token); err != nil {
		return nil, err
	}
	expire := s.now().Add(ResetTTL)
	user.PasswordResetToken = utils.HashToken(token)
	user.PasswordResetExpire = &expire

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("store reset token: %w", err)
	}
	return ticket, nil
}

// CancelReset puts back the password the ticket replaced.
func (s *CredentialStore) CancelReset(ctx context.Context, user *models.User, ticket *ResetTicket) error {
	user.Password = ticket.prevPassword
	user.PasswordChangedAt = ticket.prevChangedAt
	user.PasswordResetToken = ""
	user.PasswordResetExpire = nil
	return s.users.Save(ctx, user)
}

// ConsumeVerificationToken finds the holder of token. Expiry and the verified
// flag are left to the caller, which reports them separately.
func (s *CredentialStore) ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return s.users.GetByCheckEmailToken(ctx, utils.HashToken(token))
}

// ConsumeResetToken finds the holder of an unexpired reset token.
func (s *CredentialStore) ConsumeResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return s.users.GetByResetToken(ctx, utils.HashToken(token), s.now())
}

func (s *CredentialStore) VerificationPending(user *models.User) bool {
	return !user.EmailVerified && user.CheckEmailExpire != nil && s.now().Before(*user.CheckEmailExpire)
}

func (s *CredentialStore) VerificationExpired(user *models.User) bool {
	return user.CheckEmailExpire == nil || !s.now().Before(*user.CheckEmailExpire)
}

func (s *CredentialStore) MarkVerified(user *models.User) {
	user.EmailVerified = true
	user.CheckEmailToken = ""
	user.CheckEmailExpire = nil
}

func (s *CredentialStore) ClearReset(user *models.User) {
	user.PasswordResetToken = ""
	user.PasswordResetExpire = nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
