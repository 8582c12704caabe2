package repository

import (
	"context"
	"fmt"
	"time"

	"featuredflags/entity"

	"github.com/jmoiron/sqlx"
)

const TableName = "featured_flags"

// RuleRepository reads flag rules. Implementations must return rules in a
// stable order (ascending id): evaluation takes the first match.
type RuleRepository interface {
	FindActiveRules(ctx context.Context, name string, asOf time.Time) ([]*entity.Rule, error)
}

type pgRuleRepository struct {
	db *sqlx.DB
}

func NewRuleRepository(db *sqlx.DB) RuleRepository {
	return &pgRuleRepository{db: db}
}

// Empty strings in the date columns are treated as NULL.
const findActiveRulesQuery = `
	SELECT id, name, status, start_date, end_date, params, return_params
	FROM ` + TableName + `
	WHERE name = $1
	  AND status = TRUE
	  AND (
		(NULLIF(start_date, '') IS NULL AND NULLIF(end_date, '') IS NULL)
		OR (NULLIF(start_date, '')::timestamp <= $2::timestamp AND $2::timestamp <= NULLIF(end_date, '')::timestamp)
		OR (NULLIF(start_date, '') IS NULL AND $2::timestamp <= NULLIF(end_date, '')::timestamp)
		OR (NULLIF(end_date, '') IS NULL AND NULLIF(start_date, '')::timestamp <= $2::timestamp)
	  )
	ORDER BY id ASC
`

func (r *pgRuleRepository) FindActiveRules(ctx context.Context, name string, asOf time.Time) ([]*entity.Rule, error) {
	var rules []*entity.Rule
	now := asOf.UTC().Format(entity.DateLayout)
	if err := r.db.SelectContext(ctx, &rules, findActiveRulesQuery, name, now); err != nil {
		return nil, fmt.Errorf("failed to find active rules for flag %q: %w", name, err)
	}
	return rules, nil
}
