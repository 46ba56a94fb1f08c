package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cleared-dev/crania/internal/model"
)

const accountColumns = `id, code, name, type, parent_id, active, description`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var (
		a      model.Account
		typ    string
		parent sql.NullInt64
		active int
	)
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &typ, &parent, &active, &a.Description); err != nil {
		return model.Account{}, err
	}
	a.Type = model.AccountType(typ)
	a.ParentID = parent.Int64
	a.Active = active != 0
	return a, nil
}

// ListAccounts returns every account ordered by code.
func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAccount returns one account.
func (s *Store) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return model.Account{}, model.NotFoundError{Kind: "account", ID: id}
	}
	return a, err
}

// CreateAccount inserts acct and sets its ID.
func (s *Store) CreateAccount(ctx context.Context, acct *model.Account) error {
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO accounts(code, name, type, parent_id, active, description)
	VALUES (?, ?, ?, ?, ?, ?)`,
		acct.Code, acct.Name, string(acct.Type), nullID(acct.ParentID), boolInt(acct.Active), acct.Description)
	if err != nil {
		return fmt.Errorf("inserting account %q: %w", acct.Name, err)
	}
	acct.ID, err = res.LastInsertId()
	return err
}

// UpdateAccount overwrites the stored fields of acct.
func (s *Store) UpdateAccount(ctx context.Context, acct model.Account) error {
	res, err := s.db.ExecContext(ctx, `
	UPDATE accounts SET code = ?, name = ?, type = ?, parent_id = ?, active = ?, description = ?
	WHERE id = ?`,
		acct.Code, acct.Name, string(acct.Type), nullID(acct.ParentID), boolInt(acct.Active), acct.Description, acct.ID)
	if err != nil {
		return fmt.Errorf("updating account %d: %w", acct.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NotFoundError{Kind: "account", ID: acct.ID}
	}
	return nil
}

// AccountHasLines reports whether any journal line references the account.
func (s *Store) AccountHasLines(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM journal_lines WHERE account_id = ?)`, id).Scan(&exists)
	return exists, err
}
