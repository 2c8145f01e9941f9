package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/studentcrm/internal/client/api"
)

// Courses prints the user's enrollments and the flagged catalog.
func (a *App) Courses(ctx context.Context) error {
	if _, ok := a.requireSession(ctx); !ok {
		return nil
	}
	return a.renderCourses(ctx)
}

// Show prints one catalog course.
func (a *App) Show(ctx context.Context, arg string) error {
	if _, ok := a.requireSession(ctx); !ok {
		return nil
	}

	// the server answers "Course not found." for anything unparsable
	id, _ := strconv.ParseInt(arg, 10, 64)
	d, err := a.api.CourseDetail(ctx, id)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	c := d.Course
	fmt.Fprintf(a.out, "#%d %s\n", c.ID, c.Title)
	if c.Category != nil {
		fmt.Fprintf(a.out, "Category: %s\n", *c.Category)
	}
	if c.Summary != nil {
		fmt.Fprintln(a.out, *c.Summary)
	}
	if c.Enrolled != nil && *c.Enrolled {
		fmt.Fprintln(a.out, "You are enrolled in this course.")
	}
	return nil
}

// Enroll asks the server to enroll the user, then re-fetches and prints the
// course list whatever the outcome.
func (a *App) Enroll(ctx context.Context, arg string) error {
	if _, ok := a.requireSession(ctx); !ok {
		return nil
	}

	id, _ := strconv.ParseInt(arg, 10, 64)
	msg, enrollErr := a.api.Enroll(ctx, id)
	if enrollErr != nil {
		a.report(ctx, enrollErr)
	} else {
		fmt.Fprintln(a.out, msg)
	}

	if err := a.renderCourses(ctx); err != nil {
		return err
	}
	return enrollErr
}

func (a *App) renderCourses(ctx context.Context) error {
	list, err := a.api.Courses(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	fmt.Fprintln(a.out, "Enrolled courses:")
	if len(list.Enrolled) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for _, c := range list.Enrolled {
		fmt.Fprintf(a.out, "  %3d  %s\n", c.ID, c.Title)
	}

	fmt.Fprintln(a.out, "Catalog:")
	for _, c := range list.Catalog {
		fmt.Fprintf(a.out, "  %s %3d  %s%s\n", mark(c), c.ID, c.Title, category(c))
	}
	return nil
}

func mark(c api.Course) string {
	if c.Enrolled != nil && *c.Enrolled {
		return "[x]"
	}
	return "[ ]"
}

func category(c api.Course) string {
	if c.Category == nil || *c.Category == "" {
		return ""
	}
	return " (" + *c.Category + ")"
}
