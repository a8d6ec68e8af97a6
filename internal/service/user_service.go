package service

import (
	"context"
	"errors"
	"strings"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
)

type UserService struct {
	users    UserRepository
	tours    TourRepository
	bookings BookingRepository
}

func NewUserService(users UserRepository, tours TourRepository, bookings BookingRepository) *UserService {
	return &UserService{
		users:    users,
		tours:    tours,
		bookings: bookings,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No user found with that ID")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateMe changes the caller's profile fields. Passwords go through
// AuthService.UpdateMyPassword instead.
func (s *UserService) UpdateMe(ctx context.Context, actor *models.User, req models.UpdateMeRequest) (*models.User, error) {
	if req.Password != "" || req.PasswordConfirm != "" {
		return nil, apperror.New(apperror.ErrBadRequest,
			"This route is not for password updates! Please use /updateMyPassword")
	}

	user, err := s.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	applyProfile(user, req.Name, req.Email, req.Photo)
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteMe(ctx context.Context, actor *models.User) error {
	return notFound(s.users.Deactivate(ctx, actor.ID), "No user found with that ID")
}

// MyTours lists the tours the user holds a booking for.
func (s *UserService) MyTours(ctx context.Context, actor *models.User) ([]models.Tour, error) {
	bookings, err := s.bookings.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(bookings))
	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.TourID]; ok {
			continue
		}
		seen[b.TourID] = struct{}{}
		ids = append(ids, b.TourID)
	}
	return s.tours.GetByIDs(ctx, ids)
}

func (s *UserService) Update(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProfile(user, req.Name, req.Email, req.Photo)
	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete deactivates the account; users are never removed.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return notFound(s.users.Deactivate(ctx, id), "No user found with that ID")
}

func (s *UserService) save(ctx context.Context, user *models.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperror.New(apperror.ErrConflict, "Email already in use. Please use another one!")
		}
		return err
	}
	return nil
}

func applyProfile(user *models.User, name, email, photo *string) {
	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if email != nil {
		user.Email = models.NormalizeEmail(*email)
	}
	if photo != nil {
		user.Photo = strings.TrimSpace(*photo)
	}
}
