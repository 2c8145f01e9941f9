package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studentcrm/internal/dbx"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/courses"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/enrollments"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Courses(db dbx.DBTX) courses.Repository
	Enrollments(db dbx.DBTX) enrollments.Repository
}
