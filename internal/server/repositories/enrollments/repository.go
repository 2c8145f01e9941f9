package enrollments

import (
	"context"

	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

// Repository is the enrollment ledger.
type Repository interface {
	Count(ctx context.Context, userID int64) (int, error)
	// SeedDefaults enrolls userID in the catalog courses named by titles,
	// but only while the user's ledger is empty. Unknown titles are skipped.
	SeedDefaults(ctx context.Context, userID int64, titles []string) (int64, error)
	// Enroll inserts the (userID, courseID) row if absent and reports
	// whether a new row was written.
	Enroll(ctx context.Context, userID int64, courseID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Course, error)
}
