package repositories

import (
	"context"

	"github.com/SAP-F-2025/scoring-service/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Upsert mirrors an identity-provider subject into the local table.
	Upsert(ctx context.Context, user *models.User) error

	ExistsByID(ctx context.Context, id string) (bool, error)
	HasRole(ctx context.Context, id string, roles ...models.UserRole) (bool, error)
}
