package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"marketbot/internal/logger"
	"marketbot/internal/storage"
)

// SettleResult tells the caller what a payment event turned into.
type SettleResult int

const (
	// Settled means the seller was credited and a purchase was recorded
	Settled SettleResult = iota
	// Replayed means the charge id was already settled, nothing changed
	Replayed
	// Dropped means the payload or its product/seller could not be
	// resolved; the event is discarded without a user-visible error
	Dropped
)

// Buyer identifies the paying user as reported by the gateway
type Buyer struct {
	TelegramID int64
	Username   string
	IsAdmin    bool
}

// SettlementService turns confirmed payment events into balance credits
// and purchase records
type SettlementService struct{}

// NewSettlementService creates a new settlement service
func NewSettlementService() *SettlementService {
	return &SettlementService{}
}

// InvoicePayload builds the invoice payload for a product
func InvoicePayload(productID int64) string {
	return fmt.Sprintf("product_%d", productID)
}

// parseInvoicePayload extracts the product id from a "product_<id>" payload
func parseInvoicePayload(payload string) (int64, bool) {
	rest, found := strings.CutPrefix(payload, "product_")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Settle atomically credits the seller and records the purchase for one
// confirmed payment. Amount is in minor units. Delivery is at-least-once,
// so a charge id that was already settled is a no-op; payments referencing
// unknown products or sellers are dropped rather than failed, since the
// gateway confirmed them but the listing may have vanished.
func (s *SettlementService) Settle(ctx context.Context, buyer Buyer, payload string, amount int64, chargeID string) (SettleResult, error) {
	productID, ok := parseInvoicePayload(payload)
	if !ok {
		logger.Info(buyer.TelegramID, "settlement_dropped", fmt.Sprintf("bad_payload=%s amount=%d", payload, amount))
		return Dropped, nil
	}

	db := storage.DB()
	if db == nil {
		return Dropped, fmt.Errorf("database not initialized")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Dropped, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replay guard, backed by the unique index on telegram_charge_id
	var existing int64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM purchases WHERE telegram_charge_id = ?
	`, chargeID).Scan(&existing)
	if err != nil {
		return Dropped, fmt.Errorf("failed to check charge id: %w", err)
	}
	if existing > 0 {
		logger.Info(buyer.TelegramID, "settlement_replayed", fmt.Sprintf("charge_id=%s payload=%s", chargeID, payload))
		return Replayed, nil
	}

	var sellerID int64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM products WHERE id = ?
	`, productID).Scan(&sellerID)
	if err == sql.ErrNoRows {
		logger.Info(buyer.TelegramID, "settlement_dropped", fmt.Sprintf("unknown_product=%d amount=%d", productID, amount))
		return Dropped, nil
	}
	if err != nil {
		return Dropped, fmt.Errorf("failed to get product: %w", err)
	}

	var sellerExists int64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE id = ?
	`, sellerID).Scan(&sellerExists)
	if err != nil {
		return Dropped, fmt.Errorf("failed to check seller: %w", err)
	}
	if sellerExists == 0 {
		logger.Info(buyer.TelegramID, "settlement_dropped", fmt.Sprintf("unknown_seller=%d product=%d amount=%d", sellerID, productID, amount))
		return Dropped, nil
	}

	buyerID, err := getOrCreateUserTx(ctx, tx, buyer)
	if err != nil {
		return Dropped, fmt.Errorf("failed to resolve buyer: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + ? WHERE id = ?
	`, amount, sellerID)
	if err != nil {
		return Dropped, fmt.Errorf("failed to credit seller: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (buyer_id, product_id, amount, payload, telegram_charge_id)
		VALUES (?, ?, ?, ?, ?)
	`, buyerID, productID, amount, payload, chargeID)
	if err != nil {
		return Dropped, fmt.Errorf("failed to insert purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Dropped, fmt.Errorf("failed to commit settlement: %w", err)
	}

	logger.Info(buyer.TelegramID, "settlement_completed", fmt.Sprintf("product=%d seller=%d amount=%d charge_id=%s", productID, sellerID, amount, chargeID))
	return Settled, nil
}

// getOrCreateUserTx resolves the buyer inside the settlement transaction
func getOrCreateUserTx(ctx context.Context, tx *sql.Tx, buyer Buyer) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM users WHERE tg_id = ?
	`, buyer.TelegramID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO users (tg_id, username, is_admin)
		VALUES (?, ?, ?)
	`, buyer.TelegramID, buyer.Username, buyer.IsAdmin)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
