package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/crania/internal/model"
)

// CreateEntry inserts an entry and all of its lines in one transaction,
// setting the entry and line IDs.
func (s *Store) CreateEntry(ctx context.Context, entry *model.Entry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
		INSERT INTO journal_entries(kind, date, description, reference, txn_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(entry.Kind),
			entry.Date.Format(model.DateFormat),
			entry.Description,
			entry.Reference,
			string(entry.TxnType),
			string(entry.Status),
			entry.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
		entryID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journal_lines(entry_id, position, account_id, debit, credit, memo, tax_rate_id, tax_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range entry.Lines {
			line := &entry.Lines[i]
			res, err := stmt.ExecContext(ctx,
				entryID, i, line.AccountID,
				line.Debit.String(), line.Credit.String(),
				line.Memo, nullID(line.TaxRateID), line.TaxAmount.String(),
			)
			if err != nil {
				return fmt.Errorf("inserting line %d: %w", i+1, err)
			}
			if line.ID, err = res.LastInsertId(); err != nil {
				return err
			}
			line.EntryID = entryID
		}
		entry.ID = entryID
		return nil
	})
}

const entryColumns = `id, kind, date, description, reference, txn_type, status, voided_at, voided_reason, created_at`

func scanEntry(row interface{ Scan(...any) error }) (model.Entry, error) {
	var (
		e                          model.Entry
		kind, day, txnType, status string
		voidedAt                   sql.NullString
		createdAt                  string
	)
	if err := row.Scan(&e.ID, &kind, &day, &e.Description, &e.Reference, &txnType, &status, &voidedAt, &e.VoidedReason, &createdAt); err != nil {
		return model.Entry{}, err
	}
	e.Kind = model.EntryKind(kind)
	e.TxnType = model.TxnType(txnType)
	e.Status = model.EntryStatus(status)

	var err error
	if e.Date, err = time.Parse(model.DateFormat, day); err != nil {
		return model.Entry{}, fmt.Errorf("entry %d: bad date %q: %w", e.ID, day, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return model.Entry{}, fmt.Errorf("entry %d: bad created_at %q: %w", e.ID, createdAt, err)
	}
	if voidedAt.Valid {
		at, err := time.Parse(time.RFC3339, voidedAt.String)
		if err != nil {
			return model.Entry{}, fmt.Errorf("entry %d: bad voided_at %q: %w", e.ID, voidedAt.String, err)
		}
		e.VoidedAt = &at
	}
	return e, nil
}

// GetEntry returns one entry with its lines, void or not.
func (s *Store) GetEntry(ctx context.Context, id int64) (model.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return model.Entry{}, model.NotFoundError{Kind: "entry", ID: id}
	}
	if err != nil {
		return model.Entry{}, err
	}

	lines, err := s.queryLines(ctx, `entry_id = ?`, id)
	if err != nil {
		return model.Entry{}, err
	}
	e.Lines = lines[id]
	return e, nil
}

// ListEntries returns the entries matching filter, with their lines, in
// (date, id) order.
func (s *Store) ListEntries(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	where, args := entryWhere(filter)

	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE `+where+` ORDER BY date, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(out) == 0 {
		return out, nil
	}

	lines, err := s.queryLines(ctx, `entry_id IN (SELECT id FROM journal_entries WHERE `+where+`)`, args...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

// entryWhere builds the WHERE clause for filter. Dates are zero-padded
// YYYY-MM-DD text, so string comparison orders them correctly.
func entryWhere(filter model.EntryFilter) (string, []any) {
	conds := []string{"1 = 1"}
	var args []any
	if !filter.IncludeVoid {
		conds = append(conds, "status = 'posted'")
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Period.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, filter.Period.From.Format(model.DateFormat))
	}
	if !filter.Period.To.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, filter.Period.To.Format(model.DateFormat))
	}
	return strings.Join(conds, " AND "), args
}

func (s *Store) queryLines(ctx context.Context, where string, args ...any) (map[int64][]model.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, entry_id, account_id, debit, credit, memo, tax_rate_id, tax_amount
	FROM journal_lines WHERE `+where+` ORDER BY entry_id, position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]model.Line)
	for rows.Next() {
		var (
			l       model.Line
			taxRate sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Memo, &taxRate, &l.TaxAmount); err != nil {
			return nil, err
		}
		l.TaxRateID = taxRate.Int64
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	return out, rows.Err()
}

// MarkVoid moves a posted entry to void. It fails with a StateError if the
// entry is already void.
func (s *Store) MarkVoid(ctx context.Context, id int64, at time.Time, reason string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
		UPDATE journal_entries SET status = 'void', voided_at = ?, voided_reason = ?
		WHERE id = ? AND status = 'posted'`,
			at.UTC().Format(time.RFC3339), reason, id)
		if err != nil {
			return fmt.Errorf("voiding entry %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}

		var status string
		err = tx.QueryRowContext(ctx, `SELECT status FROM journal_entries WHERE id = ?`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return model.NotFoundError{Kind: "entry", ID: id}
		}
		if err != nil {
			return err
		}
		return model.StateError{Kind: "entry", ID: id, Message: "already " + status}
	})
}
