package service

import (
	"context"
	"errors"
	"testing"

	"marketbot/internal/storage"
)

func creditUser(t *testing.T, userID, amount int64) {
	t.Helper()
	if _, err := storage.DB().Exec(`UPDATE users SET balance = ? WHERE id = ?`, amount, userID); err != nil {
		t.Fatalf("failed to set balance: %v", err)
	}
}

func TestCreateWithdrawalSnapshotsAndZeroesBalance(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, _ := storage.GetOrCreateUser(3003, "payee", false)
	creditUser(t, user.ID, 70000)

	s := NewWithdrawalService()
	wd, err := s.Create(context.Background(), user.TelegramID, "card 1234 5678")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if wd.Amount != 70000 {
		t.Errorf("Expected snapshot amount 70000, got %d", wd.Amount)
	}
	if wd.Status != storage.WithdrawalStatusPending {
		t.Errorf("Expected pending status, got %s", wd.Status)
	}
	if wd.Details != "card 1234 5678" {
		t.Errorf("Expected details to be stored, got %q", wd.Details)
	}
	if !wd.PaidAt.IsZero() {
		t.Error("Expected paid_at to be unset on a pending request")
	}

	after, _ := storage.GetUserByID(user.ID)
	if after.Balance != 0 {
		t.Errorf("Expected balance 0 after withdrawal, got %d", after.Balance)
	}
}

func TestCreateWithdrawalEmptyBalance(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, _ := storage.GetOrCreateUser(3003, "payee", false)

	s := NewWithdrawalService()
	_, err := s.Create(context.Background(), user.TelegramID, "card 1234")
	if !errors.Is(err, ErrEmptyBalance) {
		t.Fatalf("Expected ErrEmptyBalance, got %v", err)
	}

	var count int64
	if err := storage.DB().QueryRow(`SELECT COUNT(*) FROM withdrawal_requests`).Scan(&count); err != nil {
		t.Fatalf("failed to count requests: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no withdrawal requests, got %d", count)
	}
}

func TestCreateWithdrawalUnknownUser(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	s := NewWithdrawalService()
	_, err := s.Create(context.Background(), 987654, "card 1234")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestMarkPaidTransitionsExactlyOnce(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, _ := storage.GetOrCreateUser(3003, "payee", false)
	creditUser(t, user.ID, 5000)

	s := NewWithdrawalService()
	wd, err := s.Create(context.Background(), user.TelegramID, "card 1234")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.MarkPaid(context.Background(), wd.ID); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	paid, _ := storage.GetWithdrawalByID(wd.ID)
	if paid.Status != storage.WithdrawalStatusPaid {
		t.Errorf("Expected paid status, got %s", paid.Status)
	}
	if paid.PaidAt.IsZero() {
		t.Error("Expected paid_at to be set")
	}

	// Second transition must be rejected
	err = s.MarkPaid(context.Background(), wd.ID)
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("Expected ErrAlreadyPaid, got %v", err)
	}
}

func TestMarkPaidNotFound(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	s := NewWithdrawalService()
	err := s.MarkPaid(context.Background(), 424242)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
