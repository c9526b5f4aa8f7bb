package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const kvTable = "kv_entries"

// DBTX is the subset of pgxpool.Pool used by PostgresStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore keeps values in the kv_entries table created by the
// database migrations.
type PostgresStore struct {
	db      DBTX
	dialect goqu.DialectWrapper
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db, dialect: goqu.Dialect("postgres")}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := p.dialect.From(kvTable).
		Select("value").
		Where(goqu.C("key").Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value string
	if err := p.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := p.dialect.Insert(kvTable).
		Rows(goqu.Record{
			"key":        key,
			"value":      string(value),
			"updated_at": goqu.L("NOW()"),
		}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L("EXCLUDED.value"),
			"updated_at": goqu.L("NOW()"),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = p.db.Exec(ctx, query, args...)
	return err
}

func (p *PostgresStore) Remove(ctx context.Context, key string) error {
	query, args, err := p.dialect.Delete(kvTable).
		Where(goqu.C("key").Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	_, err = p.db.Exec(ctx, query, args...)
	return err
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
