package ports

import (
	"context"

	"github.com/campusvote/election-system/internal/core/domain"
)

type ClubRepository interface {
	Create(ctx context.Context, c *domain.Club) (*domain.Club, error)
	List(ctx context.Context) ([]*domain.Club, error)
	// FindByIDs returns the clubs that exist among ids, in the order of ids.
	// Unknown or malformed ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Club, error)
	Rename(ctx context.Context, id, name string) (*domain.Club, error)
	Delete(ctx context.Context, id string) error
}
