package store

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	if s.DB() == nil {
		t.Error("DB returned nil")
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	for _, table := range []string{"users", "categories", "records", "accounts"} {
		if _, ok := stats[table]; !ok {
			t.Errorf("Stats missing table: %s", table)
		}
	}
}

func TestOpenReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expensed.db")

	s, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if _, err := s.CreateUser("alice"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	s.Close()

	// Reopening must run schema init and migrations idempotently.
	s, err = Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s.Close()

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(users) != 1 || users[0].Name != "alice" {
		t.Errorf("Unexpected users after reopen: %+v", users)
	}
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser("alice")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if u.ID == 0 || u.Name != "alice" {
		t.Errorf("Unexpected user: %+v", u)
	}

	got, err := s.GetUser(u.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("GetUser name = %q, want alice", got.Name)
	}

	if _, err := s.GetUser(9999); err != ErrNotFound {
		t.Errorf("GetUser(9999) err = %v, want ErrNotFound", err)
	}

	if err := s.DeleteUser(u.ID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	if err := s.DeleteUser(u.ID); err != ErrNotFound {
		t.Errorf("Second delete err = %v, want ErrNotFound", err)
	}
}

func TestListUsersOrdered(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"carol", "alice", "bob"} {
		if _, err := s.CreateUser(name); err != nil {
			t.Fatalf("Failed to create user %s: %v", name, err)
		}
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("len(users) = %d, want 3", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID >= users[i].ID {
			t.Errorf("Users not ordered by id: %+v", users)
		}
	}
}

func TestCategoryUniqueName(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateCategory("food"); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	if _, err := s.CreateCategory("food"); err != ErrCategoryExists {
		t.Errorf("Duplicate create err = %v, want ErrCategoryExists", err)
	}
}

func TestDeleteCategoryCascadesRecords(t *testing.T) {
	s := newTestStore(t)

	u, _ := s.CreateUser("alice")
	cat, _ := s.CreateCategory("food")
	mustDeposit(t, s, u.ID, "100")
	rec := mustCreateRecord(t, s, u.ID, cat.ID, "10")

	if err := s.DeleteCategory(cat.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}
	if _, err := s.GetRecord(rec.ID); err != ErrNotFound {
		t.Errorf("Record survived category delete: err = %v", err)
	}
}
