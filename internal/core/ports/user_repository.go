package ports

import (
	"context"

	"github.com/medishare/donation-gateway/internal/core/domain"
)

// UserRepository persists accounts for the built-in credential service.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
