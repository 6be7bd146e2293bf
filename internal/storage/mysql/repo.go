package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"food_explorer/internal/adapters/observability"
	"food_explorer/internal/domain"
)

// Repo stores each restaurant as one JSON document row; position keeps collection order.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createTableSQL)
	return err
}

// ReadAll returns rows in position order. A row whose document does not decode
// is skipped and logged rather than failing the whole read.
func (r *Repo) ReadAll(ctx context.Context) (out []domain.Restaurant, err error) {
	defer func() { observability.ObserveStore("mysql", "read", err) }()

	rows, err := r.db.QueryContext(ctx, selectAllSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = []domain.Restaurant{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var rs domain.Restaurant
		if err := json.Unmarshal(doc, &rs); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("skipping malformed restaurant row")
			observability.ObserveLenientRead("mysql")
			continue
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	observability.SetStored("mysql", len(out))
	return out, nil
}

// WriteAll replaces every row inside one transaction.
func (r *Repo) WriteAll(ctx context.Context, rs []domain.Restaurant) (err error) {
	defer func() { observability.ObserveStore("mysql", "write", err) }()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteAllSQL); err != nil {
		return fmt.Errorf("clear restaurants: %w", err)
	}
	for start := 0; start < len(rs); start += insertBatch {
		end := start + insertBatch
		if end > len(rs) {
			end = len(rs)
		}
		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*4)
		for i := start; i < end; i++ {
			doc, mErr := json.Marshal(rs[i])
			if mErr != nil {
				return fmt.Errorf("encode restaurant %s: %w", rs[i].ID, mErr)
			}
			values = append(values, "(?,?,?,?)")
			args = append(args, i, rs[i].ID, rs[i].Slug, string(doc))
		}
		if _, err = tx.ExecContext(ctx, insertPrefixSQL+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert restaurants: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	observability.SetStored("mysql", len(rs))
	return nil
}
