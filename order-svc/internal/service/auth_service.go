package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-delivery/order-svc/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Phone    string         `json:"phone"`
	Role     domain.Role    `json:"role" validate:"omitempty,oneof=customer restaurant_owner"`
	Address  domain.Address `json:"address" validate:"-"`
}

type ProfileUpdate struct {
	Name    string         `json:"name" validate:"required"`
	Phone   string         `json:"phone"`
	Address domain.Address `json:"address" validate:"-"`
}

type AuthService struct {
	users    UserRepository
	sessions SessionStore
	cost     int
}

func NewAuthService(users UserRepository, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}
	if req.Role == "" {
		req.Role = domain.RoleCustomer
	}

	if existing, err := s.users.GetUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("%w: email already registered", ErrConflict)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
		Address:      req.Address,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, domain.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	token, err := s.sessions.Create(ctx, domain.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	identity, err := s.sessions.Lookup(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: token is not valid", ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req ProfileUpdate) (*domain.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Phone = req.Phone
	user.Address = req.Address

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrInvalidInput)
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

var _ AuthServiceInterface = (*AuthService)(nil)
