package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	saveTimeout  = 5 * time.Second
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS menu_items (
		position  INTEGER PRIMARY KEY,
		item_id   TEXT    NOT NULL,
		name      TEXT    NOT NULL,
		category  TEXT    NOT NULL DEFAULT '',
		price     NUMERIC NOT NULL CHECK (price >= 0),
		available BOOLEAN NOT NULL DEFAULT FALSE
	)
`

// PostgresStore keeps the snapshot in the menu_items table. The position
// column preserves catalog order; item_id is not unique.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schemaSQL)
		return err
	})
}

func (s *PostgresStore) Load(ctx context.Context) ([]MenuItem, bool, error) {
	var out []MenuItem

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT item_id, name, category, price, available
			FROM menu_items
			ORDER BY position ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]MenuItem, 0, 16)
		for rows.Next() {
			var it MenuItem
			if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price, &it.Available); err != nil {
				return err
			}
			out = append(out, it)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, false, err
	}
	return out, len(out) > 0, nil
}

func (s *PostgresStore) Save(ctx context.Context, items []MenuItem) error {
	return withTimeout(ctx, saveTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO menu_items (position, item_id, name, category, price, available)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, it := range items {
			if _, err := stmt.ExecContext(ctx, i, it.ID, it.Name, it.Category, it.Price.String(), it.Available); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
