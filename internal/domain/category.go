package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category is treated as an opaque identifier with display metadata here.
// ParentID allows the outer layers to build a tree; the aggregation core
// never traverses it.
type Category struct {
	ID        int32      `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Icon      string     `json:"icon"`
	ParentID  *int32     `json:"parentId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type CategoryRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Category, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Category, error)
}
