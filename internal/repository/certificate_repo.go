package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"certify-backend/internal/models"
)

type CertificateRepo struct {
	pool *pgxpool.Pool
}

func NewCertificateRepo(pool *pgxpool.Pool) *CertificateRepo {
	return &CertificateRepo{pool: pool}
}

// Insert issues a certificate at most once per (user, course): a second
// CourseCompleted event for the same pair hits the unique constraint and
// reports issued=false.
func (r *CertificateRepo) Insert(ctx context.Context, userID, courseID uuid.UUID) (issued bool, err error) {
	query := `
		INSERT INTO certificates (id, user_id, course_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, uuid.New(), userID, courseID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CertificateRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Certificate, error) {
	query := `
		SELECT cert.id, cert.user_id, cert.course_id, cert.issued_at, c.title, COALESCE(c.description, '')
		FROM certificates cert
		JOIN courses c ON c.id = cert.course_id
		WHERE cert.user_id = $1
		ORDER BY cert.issued_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []*models.Certificate
	for rows.Next() {
		cert := &models.Certificate{}
		if err := rows.Scan(&cert.ID, &cert.UserID, &cert.CourseID, &cert.IssuedAt, &cert.CourseTitle, &cert.CourseDescription); err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, rows.Err()
}

func (r *CertificateRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM certificates").Scan(&n)
	return n, err
}
