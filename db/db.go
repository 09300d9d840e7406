// Package db is a thin validated wrapper over a PostgreSQL pool. Table
// and column names are checked against a strict identifier pattern and
// every value travels as a query parameter, so callers can hand it
// request-derived data without building SQL by hand.
//
// It deliberately stays dumb: create/drop table, insert, update, delete
// and select. Anything fancier belongs in raw pgx.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrBadIdentifier is returned when a table or column name does not
	// look like a plain SQL identifier.
	ErrBadIdentifier = errors.New("db: invalid identifier")
	// ErrNoValues is returned when a statement would have nothing to do.
	ErrNoValues = errors.New("db: no values given")
	// ErrEmptyWhere is returned by Update and Delete when no condition is
	// given; whole-table writes must be spelled out in raw SQL instead.
	ErrEmptyWhere = errors.New("db: empty where clause")
)

// Config holds connection settings.
type Config struct {
	DSN      string
	MaxConns int32
}

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pool and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// HealthCheck verifies the database connection.
func (d *DB) HealthCheck(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Column describes one column of a CreateTable call.
type Column struct {
	Name string
	Type string
}

// CreateTable creates the table if it does not already exist.
func (d *DB) CreateTable(ctx context.Context, table string, cols []Column) error {
	sql, err := buildCreateTable(table, cols)
	if err != nil {
		return err
	}
	if _, err := d.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}
	return nil
}

// DropTable drops the table if it exists.
func (d *DB) DropTable(ctx context.Context, table string) error {
	sql, err := buildDropTable(table)
	if err != nil {
		return err
	}
	if _, err := d.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("dropping table %s: %w", table, err)
	}
	return nil
}

// Insert writes one row.
func (d *DB) Insert(ctx context.Context, table string, row map[string]any) error {
	sql, args, err := buildInsert(table, row)
	if err != nil {
		return err
	}
	if _, err := d.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

// Update sets the given columns on every row matching where, reporting the
// number of rows changed.
func (d *DB) Update(ctx context.Context, table string, set, where map[string]any) (int64, error) {
	sql, args, err := buildUpdate(table, set, where)
	if err != nil {
		return 0, err
	}
	tag, err := d.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes every row matching where, reporting the number of rows
// removed.
func (d *DB) Delete(ctx context.Context, table string, where map[string]any) (int64, error) {
	sql, args, err := buildDelete(table, where)
	if err != nil {
		return 0, err
	}
	tag, err := d.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// Select reads the given columns (all columns when cols is empty) from
// every row matching where (all rows when where is empty), returning each
// row as a column-name-keyed map.
func (d *DB) Select(ctx context.Context, table string, cols []string, where map[string]any) ([]map[string]any, error) {
	sql, args, err := buildSelect(table, cols, where)
	if err != nil {
		return nil, err
	}
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}
	defer rows.Close()

	var out []map[string]any
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row from %s: %w", table, err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows from %s: %w", table, err)
	}
	return out, nil
}
