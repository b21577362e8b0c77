package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

// AuthService is the built-in credential service for self-hosted deployments:
// bcrypt-hashed accounts in the user repository, HS256 bearer tokens carrying
// the identity claims the session store knows how to decode.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (*ports.LoginResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, Identity: user.AsIdentity()}, nil
}

func (s *AuthService) Register(ctx context.Context, input ports.RegistrationInput) (string, error) {
	if input.Email == "" || input.Password == "" {
		return "", domain.ErrInvalidCredentials
	}
	role, ok := domain.NormalizeRole(input.Role)
	if !ok {
		return "", domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        input.Phone,
		Address:      input.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}
	return "registration successful, please log in", nil
}

// Logout is a no-op: tokens are stateless and expire on their own.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, token, identityID string, fields ports.ProfileUpdate) (*domain.Identity, error) {
	if identityID == "" {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Email != nil {
		user.Email = *fields.Email
	}
	if fields.Phone != nil {
		user.Phone = *fields.Phone
	}
	if fields.Address != nil {
		user.Address = *fields.Address
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return updated.AsIdentity(), nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"name":  user.Name,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
