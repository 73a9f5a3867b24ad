package service

import (
	"context"
	"fmt"

	"marketbot/internal/logger"
	"marketbot/internal/storage"
)

// ModerationService applies admin decisions to listings
type ModerationService struct{}

// NewModerationService creates a new moderation service
func NewModerationService() *ModerationService {
	return &ModerationService{}
}

// Approve makes the listing visible to buyers
func (s *ModerationService) Approve(ctx context.Context, productID int64) error {
	return s.setStatus(ctx, productID, storage.ProductStatusApproved)
}

// Reject hides the listing from buyers
func (s *ModerationService) Reject(ctx context.Context, productID int64) error {
	return s.setStatus(ctx, productID, storage.ProductStatusRejected)
}

func (s *ModerationService) setStatus(ctx context.Context, productID int64, status storage.ProductStatus) error {
	db := storage.DB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	result, err := db.ExecContext(ctx, `
		UPDATE products
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, productID)
	if err != nil {
		return fmt.Errorf("failed to set product status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	logger.Info(0, "product_moderated", fmt.Sprintf("product_id=%d status=%s", productID, status))
	return nil
}

// UpdateTitle replaces the product title. Edits are allowed at any status.
func (s *ModerationService) UpdateTitle(ctx context.Context, productID int64, title string) error {
	return s.updateColumn(ctx, productID, "title", title)
}

// UpdateDescription replaces the product description
func (s *ModerationService) UpdateDescription(ctx context.Context, productID int64, description string) error {
	return s.updateColumn(ctx, productID, "description", description)
}

// UpdatePrice replaces the product price, in minor units
func (s *ModerationService) UpdatePrice(ctx context.Context, productID int64, price int64) error {
	return s.updateColumn(ctx, productID, "price", price)
}

// UpdatePhoto replaces the product photo reference
func (s *ModerationService) UpdatePhoto(ctx context.Context, productID int64, photoFileID string) error {
	return s.updateColumn(ctx, productID, "photo_file_id", photoFileID)
}

func (s *ModerationService) updateColumn(ctx context.Context, productID int64, column string, value any) error {
	db := storage.DB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	result, err := db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE products
		SET %s = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, column), value, productID)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", column, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	logger.Info(0, "product_updated", fmt.Sprintf("product_id=%d field=%s", productID, column))
	return nil
}

// Stats returns per-seller listing counts for the admin report
func (s *ModerationService) Stats(ctx context.Context) ([]storage.SellerStats, error) {
	return storage.ListSellerStats()
}
