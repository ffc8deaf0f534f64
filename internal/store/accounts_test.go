package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensed/internal/types"
)

func mustDeposit(t *testing.T, s *Store, userID int64, amount string) *types.Account {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("Bad amount %q: %v", amount, err)
	}
	acct, err := s.Deposit(userID, d)
	if err != nil {
		t.Fatalf("Failed to deposit %s: %v", amount, err)
	}
	return acct
}

func mustCreateRecord(t *testing.T, s *Store, userID, categoryID int64, amount string) *types.Record {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("Bad amount %q: %v", amount, err)
	}
	rec, err := s.CreateRecord(userID, categoryID, time.Now().UTC(), d)
	if err != nil {
		t.Fatalf("Failed to create record: %v", err)
	}
	return rec
}

func TestGetOrCreateAccount(t *testing.T) {
	s := newTestStore(t)

	u, _ := s.CreateUser("alice")

	acct, err := s.GetOrCreateAccount(u.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if acct.UserID != u.ID {
		t.Errorf("Account user = %d, want %d", acct.UserID, u.ID)
	}
	if !acct.Balance.IsZero() {
		t.Errorf("New account balance = %s, want 0", acct.Balance)
	}

	// Second call must return the same account, not a new one.
	again, err := s.GetOrCreateAccount(u.ID)
	if err != nil {
		t.Fatalf("Failed to get account again: %v", err)
	}
	if again.ID != acct.ID {
		t.Errorf("Account ID changed: %d -> %d", acct.ID, again.ID)
	}
}

func TestGetOrCreateAccountUnknownUser(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetOrCreateAccount(42); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDepositAccumulates(t *testing.T) {
	s := newTestStore(t)

	u, _ := s.CreateUser("alice")
	mustDeposit(t, s, u.ID, "10.50")
	acct := mustDeposit(t, s, u.ID, "4.25")

	want := decimal.RequireFromString("14.75")
	if !acct.Balance.Equal(want) {
		t.Errorf("Balance = %s, want %s", acct.Balance, want)
	}
}

func TestDepositRoundsToCents(t *testing.T) {
	s := newTestStore(t)

	u, _ := s.CreateUser("alice")
	acct, err := s.Deposit(u.ID, decimal.RequireFromString("0.005"))
	if err != nil {
		t.Fatalf("Failed to deposit: %v", err)
	}
	// Balance scale is fixed at two decimals.
	if acct.Balance.Exponent() < -2 {
		t.Errorf("Balance %s has more than two decimal places", acct.Balance)
	}
}

func TestDeleteUserCascadesAccount(t *testing.T) {
	s := newTestStore(t)

	u, _ := s.CreateUser("alice")
	mustDeposit(t, s, u.ID, "100")

	if err := s.DeleteUser(u.ID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM accounts").Scan(&n); err != nil {
		t.Fatalf("Failed to count accounts: %v", err)
	}
	if n != 0 {
		t.Errorf("Account survived user delete: %d rows", n)
	}
}
