package service

import (
	"context"
	"database/sql"
	"fmt"

	"marketbot/internal/logger"
	"marketbot/internal/storage"
)

// WithdrawalService creates withdrawal requests and marks them paid
type WithdrawalService struct{}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService() *WithdrawalService {
	return &WithdrawalService{}
}

// Create snapshots the user's full balance into a pending withdrawal
// request and zeroes the balance, in one transaction. The balance is
// re-checked inside the transaction: the optimistic check at flow entry
// may be stale by the time the details arrive.
func (s *WithdrawalService) Create(ctx context.Context, telegramID int64, details string) (*storage.WithdrawalRequest, error) {
	db := storage.DB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID, balance int64
	err = tx.QueryRowContext(ctx, `
		SELECT id, balance FROM users WHERE tg_id = ?
	`, telegramID).Scan(&userID, &balance)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if balance <= 0 {
		return nil, ErrEmptyBalance
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = 0 WHERE id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to zero balance: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO withdrawal_requests (user_id, amount, details, status)
		VALUES (?, ?, ?, 'pending')
	`, userID, balance, details)
	if err != nil {
		return nil, fmt.Errorf("failed to insert withdrawal request: %w", err)
	}

	requestID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal: %w", err)
	}

	logger.Info(telegramID, "withdrawal_created", fmt.Sprintf("request_id=%d amount=%d", requestID, balance))
	return storage.GetWithdrawalByID(requestID)
}

// MarkPaid transitions a pending request to paid and stamps paid_at.
// The status guard in the UPDATE makes the transition happen exactly once.
func (s *WithdrawalService) MarkPaid(ctx context.Context, requestID int64) error {
	db := storage.DB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	result, err := db.ExecContext(ctx, `
		UPDATE withdrawal_requests
		SET status = 'paid', paid_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'
	`, requestID)
	if err != nil {
		return fmt.Errorf("failed to mark withdrawal paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		wd, err := storage.GetWithdrawalByID(requestID)
		if err != nil {
			return err
		}
		if wd == nil {
			return ErrNotFound
		}
		return ErrAlreadyPaid
	}

	logger.Info(0, "withdrawal_paid", fmt.Sprintf("request_id=%d", requestID))
	return nil
}
