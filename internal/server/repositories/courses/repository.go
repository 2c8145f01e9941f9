package courses

import (
	"context"

	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

// Repository is the read side of the course catalog.
type Repository interface {
	ListAll(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	// ListForUser returns every catalog course exactly once, flagged with
	// whether userID is enrolled.
	ListForUser(ctx context.Context, userID int64) ([]models.Course, error)
	GetForUser(ctx context.Context, id int64, userID int64) (*models.Course, error)
}
