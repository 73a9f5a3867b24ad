package storage

import (
	"time"
)

// User represents a marketplace participant. Balance is in minor units
// (kopecks), credited by settlements and zeroed by withdrawal requests.
type User struct {
	ID         int64     `json:"id" db:"id"`
	TelegramID int64     `json:"telegram_id" db:"tg_id"`
	Username   string    `json:"username" db:"username"`
	IsAdmin    bool      `json:"is_admin" db:"is_admin"`
	Balance    int64     `json:"balance" db:"balance"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ProductStatus represents the moderation status of a listing
type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

// Product represents a seller's listing
type Product struct {
	ID          int64         `json:"id" db:"id"`
	UserID      int64         `json:"user_id" db:"user_id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Price       int64         `json:"price" db:"price"` // in minor units
	PhotoFileID string        `json:"photo_file_id,omitempty" db:"photo_file_id"`
	Status      ProductStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// Purchase records money actually received for a product. Amount is what
// the gateway reported, not necessarily the product's current price.
type Purchase struct {
	ID               int64     `json:"id" db:"id"`
	BuyerID          int64     `json:"buyer_id" db:"buyer_id"`
	ProductID        int64     `json:"product_id" db:"product_id"`
	Amount           int64     `json:"amount" db:"amount"`
	Payload          string    `json:"payload" db:"payload"`
	TelegramChargeID string    `json:"telegram_charge_id" db:"telegram_charge_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// WithdrawalStatus represents the status of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending WithdrawalStatus = "pending"
	WithdrawalStatusPaid    WithdrawalStatus = "paid"
)

// WithdrawalRequest captures the user's full balance at request time.
// PaidAt is set only when the status becomes paid.
type WithdrawalRequest struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Amount    int64            `json:"amount" db:"amount"`
	Details   string           `json:"details" db:"details"`
	Status    WithdrawalStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	PaidAt    time.Time        `json:"paid_at,omitempty" db:"paid_at"`
}

// SellerStats is one row of the admin statistics report
type SellerStats struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	Total      int64  `json:"total"`
	Approved   int64  `json:"approved"`
	Rejected   int64  `json:"rejected"`
}
