package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mtlprog/teamtasks/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// CreateUserParams describes a new user.
type CreateUserParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserParams holds optional user field changes.
type UpdateUserParams struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// UserService manages users. Passwords are stored as bcrypt hashes.
type UserService struct {
	users    UserStore
	hashCost int
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users, hashCost: bcrypt.DefaultCost}
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// CreateUser validates the input, hashes the password and stores the user.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	email, err := normalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", domain.ErrInvalidUser)
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID)
	return user, nil
}

// UpdateUser applies the non-nil fields of params.
func (s *UserService) UpdateUser(ctx context.Context, userID string, params UpdateUserParams) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Email != nil {
		email, err := normalizeEmail(*params.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if params.FirstName != nil {
		if user.FirstName = strings.TrimSpace(*params.FirstName); user.FirstName == "" {
			return nil, fmt.Errorf("%w: first name is required", domain.ErrInvalidUser)
		}
	}
	if params.LastName != nil {
		if user.LastName = strings.TrimSpace(*params.LastName); user.LastName == "" {
			return nil, fmt.Errorf("%w: last name is required", domain.ErrInvalidUser)
		}
	}
	if params.Password != nil {
		hash, err := s.hashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", userID)
	return nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (s *UserService) CheckPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidUser, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidUser, err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalidUser, email)
	}
	return email, nil
}
