package repositories

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository is read-only. Company provisioning lives in a separate
// admin system; this service only needs to enumerate tenants for the cache
// warming job.
type CompanyRepository interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type companyRepo struct {
	db Database
}

func NewCompanyRepo(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM companies WHERE deleted_at IS NULL`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
