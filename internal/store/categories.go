package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expensed/internal/types"
)

// CreateCategory inserts a new category. Duplicate names return
// ErrCategoryExists.
func (s *Store) CreateCategory(name string) (*types.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}
	return &types.Category{ID: id, Name: name}, nil
}

// GetCategory returns the category with the given ID, or ErrNotFound.
func (s *Store) GetCategory(id int64) (*types.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c types.Category
	err := s.db.QueryRow("SELECT id, name FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// DeleteCategory removes a category. Its records cascade via foreign keys.
func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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

// ListCategories returns all categories ordered by ID.
func (s *Store) ListCategories() ([]types.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM categories ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []types.Category{}
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// categoryExistsTx reports whether the category exists, inside a transaction.
func categoryExistsTx(tx *sql.Tx, id int64) (bool, error) {
	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM categories WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return n > 0, nil
}

// isUniqueViolation matches the SQLite unique constraint error. The modernc
// driver surfaces it as a plain error string, so this is a substring check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
