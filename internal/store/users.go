package store

import (
	"database/sql"
	"errors"
	"fmt"

	"expensed/internal/types"
)

// CreateUser inserts a new user and returns it with its assigned ID.
func (s *Store) CreateUser(name string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("INSERT INTO users (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return &types.User{ID: id, Name: name}, nil
}

// GetUser returns the user with the given ID, or ErrNotFound.
func (s *Store) GetUser(id int64) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u types.User
	err := s.db.QueryRow("SELECT id, name FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// DeleteUser removes a user. Records and the account cascade via foreign keys.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers() ([]types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM users ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// userExistsTx reports whether the user exists, inside a transaction.
func userExistsTx(tx *sql.Tx, id int64) (bool, error) {
	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return n > 0, nil
}
