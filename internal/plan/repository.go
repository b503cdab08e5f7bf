package plan

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]Plan, error) {
	query := `
		SELECT id, name, description, price, period, features, active, member_category
		FROM membership_plans
		WHERE active = TRUE
		ORDER BY price ASC, id ASC
	`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, err
	}
	return plans, nil
}
