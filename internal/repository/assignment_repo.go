package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"certify-backend/internal/models"
)

type AssignmentRepo struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepo(pool *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{pool: pool}
}

func (r *AssignmentRepo) Create(ctx context.Context, a *models.CourseAssignment) error {
	a.ID = uuid.New()

	query := `INSERT INTO course_assignments (id, course_id, user_id, assigned_by)
		VALUES ($1, $2, $3, $4) RETURNING assigned_at`

	return r.pool.QueryRow(ctx, query, a.ID, a.CourseID, a.UserID, a.AssignedBy).Scan(&a.AssignedAt)
}

func (r *AssignmentRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.CourseAssignment, error) {
	query := `SELECT id, course_id, user_id, assigned_by, assigned_at
		FROM course_assignments WHERE user_id = $1 ORDER BY assigned_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.CourseAssignment
	for rows.Next() {
		a := &models.CourseAssignment{}
		if err := rows.Scan(&a.ID, &a.CourseID, &a.UserID, &a.AssignedBy, &a.AssignedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
