package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var invoiceColumns = []string{
	"id", "batch_id", "code", "issued_date", "owner_name", "contact_name",
	"subtotal", "taxes", "total", "status", "created_at", "updated_at",
}

// scanRecord expects the column order of invoiceColumns.
func scanRecord(s scanner) (*invoice.Record, error) {
	var (
		rec       invoice.Record
		statusStr string
	)

	inv := &rec.Invoice
	if err := s.Scan(
		&rec.ID, &rec.BatchID, &inv.Code, &inv.IssuedDate, &inv.OwnerName, &inv.ContactName,
		&inv.Subtotal, &inv.Taxes, &inv.Total, &statusStr, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)

	return &rec, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Record, error) {
	query, args, err := sq.Select(invoiceColumns...).
		From("invoices").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return rec, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Record, error) {
	stmt := sq.Select(invoiceColumns...).From("invoices").PlaceholderFormat(sq.Dollar)

	if filter.Status != nil {
		stmt = stmt.Where(sq.Eq{"status": string(*filter.Status)})
	}

	if filter.OwnerName != nil {
		stmt = stmt.Where(sq.ILike{"owner_name": "%" + *filter.OwnerName + "%"})
	}

	query, args, err := stmt.OrderBy("created_at ASC", "code ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var records []*invoice.Record

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return records, nil
}

type batchTx struct {
	tx *sql.Tx
}

func (s *Store) BeginBatch(ctx context.Context) (invoice.BatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	return &batchTx{tx: dbTx}, nil
}

func (btx *batchTx) Commit() error   { return btx.tx.Commit() }
func (btx *batchTx) Rollback() error { return btx.tx.Rollback() }

const upsertInvoiceQuery = `
	INSERT INTO invoices (batch_id, code, issued_date, owner_name, contact_name, subtotal, taxes, total, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	ON CONFLICT (code) DO UPDATE SET
		batch_id = EXCLUDED.batch_id,
		issued_date = EXCLUDED.issued_date,
		owner_name = EXCLUDED.owner_name,
		contact_name = EXCLUDED.contact_name,
		subtotal = EXCLUDED.subtotal,
		taxes = EXCLUDED.taxes,
		total = EXCLUDED.total,
		status = EXCLUDED.status,
		updated_at = NOW()
	RETURNING id, created_at, updated_at
`

func (btx *batchTx) UpsertInvoices(ctx context.Context, batchID uuid.UUID, invoices []invoice.Invoice) ([]*invoice.Record, error) {
	stmt, err := btx.tx.PrepareContext(ctx, upsertInvoiceQuery)
	if err != nil {
		return nil, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	records := make([]*invoice.Record, 0, len(invoices))

	for _, inv := range invoices {
		rec := &invoice.Record{BatchID: batchID, Invoice: inv}

		err := stmt.QueryRowContext(ctx,
			batchID,
			inv.Code,
			inv.IssuedDate,
			inv.OwnerName,
			inv.ContactName,
			inv.Subtotal,
			inv.Taxes,
			inv.Total,
			string(inv.Status),
		).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("upserting invoice %s: %w", inv.Code, err)
		}

		records = append(records, rec)
	}

	return records, nil
}
