package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var db *sql.DB

// InitDB initializes the SQLite database connection with WAL mode
func InitDB(dbPath string) error {
	var err error

	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return err
	}

	db, err = sql.Open("sqlite", absPath)
	if err != nil {
		return err
	}

	// Enable WAL mode for better concurrency
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return err
	}

	if err := runMigrations(); err != nil {
		return err
	}

	return nil
}

// DB returns the database connection
func DB() *sql.DB {
	return db
}

// runMigrations creates the necessary tables
func runMigrations() error {
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tg_id INTEGER UNIQUE NOT NULL,
			username TEXT,
			is_admin INTEGER NOT NULL DEFAULT 0,
			balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`

	productsTable := `
		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price INTEGER NOT NULL,
			photo_file_id TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`

	purchasesTable := `
		CREATE TABLE IF NOT EXISTS purchases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			buyer_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			amount INTEGER NOT NULL,
			payload TEXT NOT NULL,
			telegram_charge_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (buyer_id) REFERENCES users(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)
	`

	withdrawalsTable := `
		CREATE TABLE IF NOT EXISTS withdrawal_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			amount INTEGER NOT NULL,
			details TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			paid_at DATETIME,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`

	// The unique charge id index is what makes settlement replay-safe
	createIndexes := `
		CREATE INDEX IF NOT EXISTS idx_products_status ON products(status);
		CREATE INDEX IF NOT EXISTS idx_products_user_id ON products(user_id);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_purchases_charge_id ON purchases(telegram_charge_id);
		CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawal_requests(status);
	`

	for _, stmt := range []string{usersTable, productsTable, purchasesTable, withdrawalsTable, createIndexes} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var user User
	var username sql.NullString
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&username,
		&user.IsAdmin,
		&user.Balance,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Username = username.String
	return &user, nil
}

const userColumns = "id, tg_id, username, is_admin, balance, created_at"

// GetUserByTelegramID retrieves a user by their Telegram ID
func GetUserByTelegramID(telegramID int64) (*User, error) {
	user, err := scanUser(db.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE tg_id = ?
	`, telegramID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by tg_id: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their internal ID
func GetUserByID(id int64) (*User, error) {
	user, err := scanUser(db.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetOrCreateUser resolves a user by Telegram ID, creating one lazily on
// first interaction. The admin flag is snapshotted at creation time.
func GetOrCreateUser(telegramID int64, username string, isAdmin bool) (*User, error) {
	user, err := GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	_, err = db.Exec(`
		INSERT INTO users (tg_id, username, is_admin)
		VALUES (?, ?, ?)
	`, telegramID, username, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return GetUserByTelegramID(telegramID)
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var photo sql.NullString
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.Price,
		&photo,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.PhotoFileID = photo.String
	return &p, nil
}

const productColumns = "id, user_id, title, description, price, photo_file_id, status, created_at, updated_at"

// CreateProduct inserts a new listing in pending status
func CreateProduct(userID int64, title, description string, price int64, photoFileID string) (*Product, error) {
	var photo sql.NullString
	if photoFileID != "" {
		photo = sql.NullString{String: photoFileID, Valid: true}
	}

	result, err := db.Exec(`
		INSERT INTO products (user_id, title, description, price, photo_file_id, status)
		VALUES (?, ?, ?, ?, ?, 'pending')
	`, userID, title, description, price, photo)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	productID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return GetProductByID(productID)
}

// GetProductByID retrieves a product by id
func GetProductByID(id int64) (*Product, error) {
	p, err := scanProduct(db.QueryRow(`
		SELECT `+productColumns+`
		FROM products
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}
	return p, nil
}

func scanWithdrawal(row rowScanner) (*WithdrawalRequest, error) {
	var wd WithdrawalRequest
	var paidAt sql.NullTime
	err := row.Scan(
		&wd.ID,
		&wd.UserID,
		&wd.Amount,
		&wd.Details,
		&wd.Status,
		&wd.CreatedAt,
		&paidAt,
	)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		wd.PaidAt = paidAt.Time
	}
	return &wd, nil
}

const withdrawalColumns = "id, user_id, amount, details, status, created_at, paid_at"

// GetWithdrawalByID retrieves a withdrawal request by id
func GetWithdrawalByID(id int64) (*WithdrawalRequest, error) {
	wd, err := scanWithdrawal(db.QueryRow(`
		SELECT `+withdrawalColumns+`
		FROM withdrawal_requests
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal by id: %w", err)
	}
	return wd, nil
}

// ListSellerStats returns per-user listing counts for the admin report,
// ordered by user id. Users with no listings are included with zeros.
func ListSellerStats() ([]SellerStats, error) {
	rows, err := db.Query(`
		SELECT u.tg_id, u.username,
			COUNT(p.id),
			COALESCE(SUM(CASE WHEN p.status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN p.status = 'rejected' THEN 1 ELSE 0 END), 0)
		FROM users u
		LEFT JOIN products p ON p.user_id = u.id
		GROUP BY u.id
		ORDER BY u.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seller stats: %w", err)
	}
	defer rows.Close()

	var stats []SellerStats
	for rows.Next() {
		var s SellerStats
		var username sql.NullString
		if err := rows.Scan(&s.TelegramID, &username, &s.Total, &s.Approved, &s.Rejected); err != nil {
			return nil, fmt.Errorf("failed to scan seller stats: %w", err)
		}
		s.Username = username.String
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller stats: %w", err)
	}
	return stats, nil
}
