package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"expensed/internal/types"
)

// Stored timestamps are UTC RFC 3339.
const timeLayout = time.RFC3339Nano

// CreateRecord inserts an expense record and debits the owner's account in
// one transaction. The account is created on the fly for users who never
// deposited. Fails with ErrInsufficientFunds when the balance cannot cover
// the amount, leaving the balance untouched.
func (s *Store) CreateRecord(userID, categoryID int64, createdAt time.Time, amount decimal.Decimal) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := userExistsTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	ok, err = categoryExistsTx(tx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("category: %w", ErrNotFound)
	}

	acct, err := getOrCreateAccountTx(tx, userID)
	if err != nil {
		return nil, err
	}

	amount = types.Money(amount)
	if acct.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}
	if err := updateBalanceTx(tx, acct.ID, acct.Balance.Sub(amount)); err != nil {
		return nil, err
	}

	createdAt = createdAt.UTC()
	res, err := tx.Exec(
		"INSERT INTO records (user_id, category_id, created_at, amount) VALUES (?, ?, ?, ?)",
		userID, categoryID, createdAt.Format(timeLayout), amount.StringFixed(2))
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get record id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &types.Record{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		CreatedAt:  createdAt,
		Amount:     amount,
	}, nil
}

// GetRecord returns the record with the given ID, or ErrNotFound.
func (s *Store) GetRecord(id int64) (*types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT id, user_id, category_id, created_at, amount FROM records WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// DeleteRecord removes a record. The debit is not refunded; deleting a record
// is bookkeeping cleanup, not a reversal.
func (s *Store) DeleteRecord(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordFilter narrows ListRecords. At least one field must be set; the
// handler enforces that.
type RecordFilter struct {
	UserID     *int64
	CategoryID *int64
}

// ListRecords returns records matching the filter, ordered by ID.
func (s *Store) ListRecords(f RecordFilter) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, user_id, category_id, created_at, amount FROM records WHERE 1=1"
	args := []interface{}{}
	if f.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *f.UserID)
	}
	if f.CategoryID != nil {
		query += " AND category_id = ?"
		args = append(args, *f.CategoryID)
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*types.Record, error) {
	var (
		rec       types.Record
		createdAt string
		amount    string
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.CategoryID, &createdAt, &amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = t

	rec.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount %q: %w", amount, err)
	}
	return &rec, nil
}
