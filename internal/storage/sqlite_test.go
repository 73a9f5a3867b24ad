package storage

import (
	"testing"
)

func setupTestDB(t *testing.T) {
	// Use in-memory database for tests
	if err := InitDB(":memory:"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

func cleanupTestDB(t *testing.T) {
	CloseDB()
}

func TestGetOrCreateUser(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, err := GetOrCreateUser(12345, "testuser", false)
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected non-zero user ID")
	}
	if user.TelegramID != 12345 {
		t.Errorf("Expected TelegramID 12345, got %d", user.TelegramID)
	}
	if user.Balance != 0 {
		t.Errorf("Expected zero initial balance, got %d", user.Balance)
	}
	if user.IsAdmin {
		t.Error("Expected non-admin user")
	}
}

func TestGetOrCreateUserIdempotent(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	first, err := GetOrCreateUser(55555, "sameuser", false)
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	second, err := GetOrCreateUser(55555, "sameuser", false)
	if err != nil {
		t.Fatalf("GetOrCreateUser failed on second call: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected same user ID, got %d and %d", first.ID, second.ID)
	}
}

func TestGetOrCreateUserAdminFlag(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, err := GetOrCreateUser(77777, "adminuser", true)
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	if !user.IsAdmin {
		t.Error("Expected admin flag to be set")
	}
}

func TestGetUserByTelegramIDNotFound(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, err := GetUserByTelegramID(99999999)
	if err != nil {
		t.Fatalf("GetUserByTelegramID should not fail for non-existent user: %v", err)
	}
	if user != nil {
		t.Error("Expected nil user for non-existent Telegram ID")
	}
}

func TestGetUserByID(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	created, _ := GetOrCreateUser(88888, "idtest", false)

	user, err := GetUserByID(created.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if user == nil {
		t.Fatal("Expected user, got nil")
	}
	if user.Username != "idtest" {
		t.Errorf("Expected username 'idtest', got %s", user.Username)
	}
}

func TestCreateProduct(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, _ := GetOrCreateUser(11111, "seller", false)

	product, err := CreateProduct(user.ID, "Mug", "A nice mug", 50000, "")
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if product.ID == 0 {
		t.Error("Expected non-zero product ID")
	}
	if product.Status != ProductStatusPending {
		t.Errorf("Expected status pending, got %s", product.Status)
	}
	if product.Price != 50000 {
		t.Errorf("Expected price 50000, got %d", product.Price)
	}
	if product.PhotoFileID != "" {
		t.Errorf("Expected no photo, got %s", product.PhotoFileID)
	}
}

func TestCreateProductWithPhoto(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, _ := GetOrCreateUser(11112, "seller2", false)

	product, err := CreateProduct(user.ID, "Cup", "A cup", 10000, "file-abc")
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if product.PhotoFileID != "file-abc" {
		t.Errorf("Expected photo file id 'file-abc', got %s", product.PhotoFileID)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	product, err := GetProductByID(424242)
	if err != nil {
		t.Fatalf("GetProductByID should not fail for non-existent product: %v", err)
	}
	if product != nil {
		t.Error("Expected nil product for non-existent id")
	}
}

func TestGetWithdrawalByIDNotFound(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	wd, err := GetWithdrawalByID(424242)
	if err != nil {
		t.Fatalf("GetWithdrawalByID should not fail for non-existent request: %v", err)
	}
	if wd != nil {
		t.Error("Expected nil request for non-existent id")
	}
}

func TestListSellerStats(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	seller, _ := GetOrCreateUser(22221, "statseller", false)
	idle, _ := GetOrCreateUser(22222, "idleuser", false)

	p1, _ := CreateProduct(seller.ID, "A", "a", 100, "")
	p2, _ := CreateProduct(seller.ID, "B", "b", 200, "")
	_, _ = CreateProduct(seller.ID, "C", "c", 300, "")

	if _, err := db.Exec(`UPDATE products SET status = 'approved' WHERE id = ?`, p1.ID); err != nil {
		t.Fatalf("failed to approve product: %v", err)
	}
	if _, err := db.Exec(`UPDATE products SET status = 'rejected' WHERE id = ?`, p2.ID); err != nil {
		t.Fatalf("failed to reject product: %v", err)
	}

	stats, err := ListSellerStats()
	if err != nil {
		t.Fatalf("ListSellerStats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 stat rows, got %d", len(stats))
	}

	byTG := make(map[int64]SellerStats)
	for _, s := range stats {
		byTG[s.TelegramID] = s
	}

	s := byTG[seller.TelegramID]
	if s.Total != 3 || s.Approved != 1 || s.Rejected != 1 {
		t.Errorf("Expected 3/1/1 for seller, got %d/%d/%d", s.Total, s.Approved, s.Rejected)
	}
	i := byTG[idle.TelegramID]
	if i.Total != 0 || i.Approved != 0 || i.Rejected != 0 {
		t.Errorf("Expected 0/0/0 for idle user, got %d/%d/%d", i.Total, i.Approved, i.Rejected)
	}
}
