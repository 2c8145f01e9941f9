// Package enrollments provides the PostgreSQL-backed enrollment ledger.
package enrollments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studentcrm/internal/dbx"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM user_courses WHERE user_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// SeedDefaults runs as one statement so concurrent first reads cannot seed
// twice or trip the primary key.
func (r *PostgresRepository) SeedDefaults(ctx context.Context, userID int64, titles []string) (int64, error) {
	if len(titles) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(titles)+1)
	args = append(args, userID)
	placeholders := make([]string, len(titles))
	for i, t := range titles {
		args = append(args, t)
		placeholders[i] = "$" + strconv.Itoa(i+2)
	}

	query := `
		INSERT INTO user_courses (user_id, course_id, course_name)
		SELECT $1, c.id, c.title
		FROM courses c
		WHERE c.title IN (` + strings.Join(placeholders, ", ") + `)
		  AND NOT EXISTS (SELECT 1 FROM user_courses WHERE user_id = $1)
		ON CONFLICT (user_id, course_id) DO NOTHING
		`

	n, err := dbx.ExecAffected(ctx, r.db, query, args...)
	if err != nil {
		return 0, fmt.Errorf("seed error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Enroll(ctx context.Context, userID int64, courseID int64) (bool, error) {
	query := `
		INSERT INTO user_courses (user_id, course_id, course_name)
		SELECT $1, c.id, c.title FROM courses c WHERE c.id = $2
		ON CONFLICT (user_id, course_id) DO NOTHING
		`

	n, err := dbx.ExecAffected(ctx, r.db, query, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// ListForUser returns the user's enrolled courses ordered by title. The title
// falls back to the snapshot taken at enrollment time.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.Course, error) {
	query := `
		SELECT uc.course_id, COALESCE(c.title, uc.course_name) AS title, c.category, c.summary, uc.enrolled_at
		FROM user_courses uc
		LEFT JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1
		ORDER BY title
		`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select enrollments: %w", err)
	}
	defer rows.Close()

	result := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Summary, &c.EnrolledAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
