package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"-"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	// GetIDBySubject resolves an identity-provider subject to the internal
	// user ID.
	GetIDBySubject(ctx context.Context, subject string) (uuid.UUID, error)
}
