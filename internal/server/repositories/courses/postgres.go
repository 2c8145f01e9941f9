// Package courses provides the PostgreSQL-backed course catalog.
package courses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/dbx"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT id, title, category, summary FROM courses ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select courses: %w", err)
	}
	defer rows.Close()

	result := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Summary); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT id, title, category, summary FROM courses WHERE id = $1`

	var c models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.Category, &c.Summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &c, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.Course, error) {
	query := `
		SELECT c.id, c.title, c.category, c.summary, (uc.user_id IS NOT NULL) AS enrolled
		FROM courses c
		LEFT JOIN user_courses uc ON uc.course_id = c.id AND uc.user_id = $1
		ORDER BY c.title
		`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select catalog: %w", err)
	}
	defer rows.Close()

	result := []models.Course{}
	for rows.Next() {
		var (
			c        models.Course
			enrolled bool
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Summary, &enrolled); err != nil {
			return nil, err
		}
		c.Enrolled = &enrolled
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, id int64, userID int64) (*models.Course, error) {
	query := `
		SELECT c.id, c.title, c.category, c.summary, (uc.user_id IS NOT NULL) AS enrolled
		FROM courses c
		LEFT JOIN user_courses uc ON uc.course_id = c.id AND uc.user_id = $2
		WHERE c.id = $1
		`

	var (
		c        models.Course
		enrolled bool
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&c.ID, &c.Title, &c.Category, &c.Summary, &enrolled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	c.Enrolled = &enrolled

	return &c, nil
}
