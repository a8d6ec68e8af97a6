package models

type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=32"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Photo           string `json:"photo"`
}

// LoginRequest is validated by the auth service itself so that a missing
// field yields the dedicated "provide email and password" error.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type UpdateMeRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=32"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Photo           *string `json:"photo"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
}

type UpdateUserRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=32"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Photo         *string `json:"photo"`
	Role          *string `json:"role" validate:"omitempty,role"`
	EmailVerified *bool   `json:"email_verified"`
}

// AuthResponse is the body of every session emission.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoginResult is either a session or a pending-verification notice.
type LoginResult struct {
	Session             *AuthResponse
	VerificationPending bool
}
