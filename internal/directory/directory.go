// Package directory resolves course ownership and enrollment questions.
// The engine treats the course catalog as an external collaborator; this
// package is its read-only contract plus a PostgreSQL-backed
// implementation over the shared courses and enrollments tables.
package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Directory answers the two questions the assessment engine asks of the
// course catalog. Implementations must be safe for concurrent use.
type Directory interface {
	// IsCourseOwnedBy reports whether the principal owns the course.
	// Administrators are handled by callers, not here.
	IsCourseOwnedBy(ctx context.Context, courseID uuid.UUID, principalID int) (bool, error)

	// IsEnrolled reports whether the student is enrolled in the course
	// for the given academic period.
	IsEnrolled(ctx context.Context, studentID int, courseID uuid.UUID, academicYear, semester int) (bool, error)
}

// PostgresDirectory resolves directory lookups against the relational
// store shared with the catalog service.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a PostgresDirectory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

func (d *PostgresDirectory) IsCourseOwnedBy(ctx context.Context, courseID uuid.UUID, principalID int) (bool, error) {
	var owned bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1 AND owner_id = $2)`,
		courseID, principalID,
	).Scan(&owned)
	return owned, err
}

func (d *PostgresDirectory) IsEnrolled(ctx context.Context, studentID int, courseID uuid.UUID, academicYear, semester int) (bool, error) {
	var enrolled bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND course_id = $2
			  AND academic_year = $3 AND semester = $4
		 )`,
		studentID, courseID, academicYear, semester,
	).Scan(&enrolled)
	return enrolled, err
}
