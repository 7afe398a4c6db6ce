package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"curriculum-editor/internal/payload"
)

// BankLoader reads the module and activity catalog from JSONB tables.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadModules(ctx context.Context) ([]payload.ModuleRecord, error) {
	return loadCatalog(ctx, l.pool, `SELECT id, data FROM bank_modules ORDER BY id`,
		func(id string, m *payload.ModuleRecord) { m.ID = id })
}

func (l *BankLoader) LoadActivities(ctx context.Context) ([]payload.ActivityRecord, error) {
	return loadCatalog(ctx, l.pool, `SELECT id, data FROM bank_activities ORDER BY id`,
		func(id string, a *payload.ActivityRecord) { a.ID = id })
}

func loadCatalog[T any](ctx context.Context, pool *pgxpool.Pool, query string, setID func(string, *T)) ([]T, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errors.Wrap(err, "scan catalog row")
		}
		var entry T
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, errors.Wrapf(err, "unmarshal catalog entry %s", id)
		}
		setID(id, &entry)
		out = append(out, entry)
	}
	return out, errors.Wrap(rows.Err(), "iterate catalog")
}
