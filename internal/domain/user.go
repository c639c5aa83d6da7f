package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	// PasswordHash is the stored bcrypt hash; hashing happens in the auth layer.
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, fullName string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, userID uuid.UUID, email, fullName string) (*User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
