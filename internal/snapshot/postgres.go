package snapshot

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS product_snapshots (
	position   INT         NOT NULL,
	id         TEXT        PRIMARY KEY,
	title      TEXT        NOT NULL,
	variants   JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresBackend keeps one row per product; position preserves document order.
type PostgresBackend struct{ DB *pgxpool.Pool }

func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	_, err := b.DB.Exec(ctx, schemaSQL)
	return errors.Wrap(err, "create product_snapshots")
}

func (b *PostgresBackend) Load(ctx context.Context) ([]Product, error) {
	rows, err := b.DB.Query(ctx, `SELECT id, title, variants FROM product_snapshots ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "query snapshots")
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var (
			p   Product
			raw []byte
		)
		if err := rows.Scan(&p.ID, &p.Title, &raw); err != nil {
			return nil, errors.Wrap(err, "scan snapshot")
		}
		if err := json.Unmarshal(raw, &p.Variants); err != nil {
			return nil, errors.Wrapf(err, "decode variants of %s", p.ID)
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterate snapshots")
}

// Save rewrites the table inside one transaction.
func (b *PostgresBackend) Save(ctx context.Context, products []Product) error {
	tx, err := b.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin snapshot tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM product_snapshots`); err != nil {
		return errors.Wrap(err, "clear snapshots")
	}

	batch := &pgx.Batch{}
	for i, p := range products {
		variants := p.Variants
		if variants == nil {
			variants = []Variant{}
		}
		raw, err := json.Marshal(variants)
		if err != nil {
			return errors.Wrapf(err, "encode variants of %s", p.ID)
		}
		batch.Queue(`INSERT INTO product_snapshots(position, id, title, variants) VALUES ($1, $2, $3, $4)`,
			i, p.ID, p.Title, raw)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrap(err, "insert snapshots")
		}
	}
	return errors.Wrap(tx.Commit(ctx), "commit snapshot tx")
}
