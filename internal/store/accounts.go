package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"expensed/internal/types"
)

// GetOrCreateAccount returns the user's account, creating it with a zero
// balance on first access. Returns ErrNotFound if the user does not exist.
func (s *Store) GetOrCreateAccount(userID int64) (*types.Account, error) {
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
		return nil, ErrNotFound
	}

	acct, err := getOrCreateAccountTx(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return acct, nil
}

// Deposit adds a positive amount to the user's balance, creating the account
// if needed. Amount validation belongs to the caller; the store only
// normalizes the scale.
func (s *Store) Deposit(userID int64, amount decimal.Decimal) (*types.Account, error) {
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
		return nil, ErrNotFound
	}

	acct, err := getOrCreateAccountTx(tx, userID)
	if err != nil {
		return nil, err
	}

	acct.Balance = types.Money(acct.Balance.Add(amount))
	if err := updateBalanceTx(tx, acct.ID, acct.Balance); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return acct, nil
}

// getOrCreateAccountTx fetches or inserts the account row for userID.
func getOrCreateAccountTx(tx *sql.Tx, userID int64) (*types.Account, error) {
	var (
		acct    types.Account
		balance string
	)
	err := tx.QueryRow("SELECT id, user_id, balance FROM accounts WHERE user_id = ?", userID).
		Scan(&acct.ID, &acct.UserID, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.Exec(
			"INSERT INTO accounts (user_id, balance) VALUES (?, '0.00')", userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get account id: %w", err)
		}
		return &types.Account{ID: id, UserID: userID, Balance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	acct.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("corrupt balance %q: %w", balance, err)
	}
	return &acct, nil
}

// updateBalanceTx writes the balance with the canonical two-decimal scale.
func updateBalanceTx(tx *sql.Tx, accountID int64, balance decimal.Decimal) error {
	if _, err := tx.Exec(
		"UPDATE accounts SET balance = ? WHERE id = ?",
		balance.StringFixed(2), accountID); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}
