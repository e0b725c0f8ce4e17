package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TimurManjosov/govisibility/internal/conditions"
)

// PostgresStore is a PostgreSQL Store implementation. The condition tree is
// stored as a jsonb document; structure validation happens before writes,
// not in the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// List retrieves rule sets filtered by status, newest first.
func (p *PostgresStore) List(ctx context.Context, status Status) ([]RuleSet, error) {
	query := `SELECT id, title, status, document, created_at, updated_at
	          FROM rule_sets`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rule sets: %w", err)
	}
	defer rows.Close()

	var result []RuleSet
	for rows.Next() {
		rs, err := scanRuleSet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rs)
	}
	return result, rows.Err()
}

// Get retrieves a rule set by ID.
func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*RuleSet, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, title, status, document, created_at, updated_at
		 FROM rule_sets WHERE id = $1`, id)
	rs, err := scanRuleSet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rule set: %w", err)
	}
	return &rs, nil
}

// Upsert creates or updates a rule set.
func (p *PostgresStore) Upsert(ctx context.Context, params UpsertParams) (*RuleSet, error) {
	id := params.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	status := params.Status
	if status == "" {
		status = StatusDraft
	}
	document, err := json.Marshal(params.Set)
	if err != nil {
		return nil, fmt.Errorf("encode condition set: %w", err)
	}

	row := p.pool.QueryRow(ctx,
		`INSERT INTO rule_sets (id, title, status, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title,
		     status = EXCLUDED.status,
		     document = EXCLUDED.document,
		     updated_at = now()
		 RETURNING id, title, status, document, created_at, updated_at`,
		id, params.Title, string(status), document)

	rs, err := scanRuleSet(row)
	if err != nil {
		return nil, fmt.Errorf("upsert rule set: %w", err)
	}
	return &rs, nil
}

// Delete removes a rule set; absent IDs are a no-op.
func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM rule_sets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete rule set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanRuleSet(row pgx.Row) (RuleSet, error) {
	var (
		rs       RuleSet
		status   string
		document []byte
	)
	if err := row.Scan(&rs.ID, &rs.Title, &status, &document, &rs.CreatedAt, &rs.UpdatedAt); err != nil {
		return RuleSet{}, err
	}
	rs.Status = Status(status)
	if len(document) > 0 {
		if err := json.Unmarshal(document, &rs.Set); err != nil {
			// A corrupt document degrades to an empty (fail-open) set
			// rather than failing the whole listing.
			rs.Set = conditions.ConditionSet{}
		}
	}
	return rs, nil
}
