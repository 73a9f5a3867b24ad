package storage

import (
	"database/sql"
	"fmt"
)

// Direction selects which neighbour of the cursor a queue lookup returns.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// queue is id-ordered "first / next-after" traversal over a status-filtered
// table. All three admin/user queues (approved browse, moderation, pending
// withdrawals) are instances of it. There is no wraparound: walking past
// either end yields (nil, nil).
type queue[T any] struct {
	table   string
	columns string
	scan    func(rowScanner) (*T, error)
}

// First returns the lowest-id row with the given status
func (q queue[T]) First(status string) (*T, error) {
	row := db.QueryRow(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE status = ?
		ORDER BY id ASC
		LIMIT 1
	`, q.columns, q.table), status)

	item, err := q.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first %s row: %w", q.table, err)
	}
	return item, nil
}

// Next returns the nearest row past currentID in the given direction:
// the lowest id above it going forward, the highest id below it going back.
func (q queue[T]) Next(status string, currentID int64, dir Direction) (*T, error) {
	cmp, order := ">", "ASC"
	if dir == Backward {
		cmp, order = "<", "DESC"
	}

	row := db.QueryRow(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE status = ? AND id %s ?
		ORDER BY id %s
		LIMIT 1
	`, q.columns, q.table, cmp, order), status, currentID)

	item, err := q.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next %s row: %w", q.table, err)
	}
	return item, nil
}

var (
	productQueue    = queue[Product]{table: "products", columns: productColumns, scan: scanProduct}
	withdrawalQueue = queue[WithdrawalRequest]{table: "withdrawal_requests", columns: withdrawalColumns, scan: scanWithdrawal}
)

// FirstProductByStatus returns the lowest-id product with the given status
func FirstProductByStatus(status ProductStatus) (*Product, error) {
	return productQueue.First(string(status))
}

// NextProductByStatus returns the product adjacent to currentID in the queue
func NextProductByStatus(status ProductStatus, currentID int64, dir Direction) (*Product, error) {
	return productQueue.Next(string(status), currentID, dir)
}

// FirstPendingWithdrawal returns the lowest-id pending withdrawal request
func FirstPendingWithdrawal() (*WithdrawalRequest, error) {
	return withdrawalQueue.First(string(WithdrawalStatusPending))
}

// NextPendingWithdrawal returns the pending request adjacent to currentID
func NextPendingWithdrawal(currentID int64, dir Direction) (*WithdrawalRequest, error) {
	return withdrawalQueue.Next(string(WithdrawalStatusPending), currentID, dir)
}
