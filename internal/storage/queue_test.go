package storage

import (
	"testing"
)

// seedProducts creates one user and products with the given statuses,
// returning the product ids in creation order
func seedProducts(t *testing.T, statuses []ProductStatus) []int64 {
	t.Helper()

	user, err := GetOrCreateUser(31337, "queueseller", false)
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}

	ids := make([]int64, 0, len(statuses))
	for i, status := range statuses {
		p, err := CreateProduct(user.ID, "Item", "desc", int64(1000+i), "")
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if status != ProductStatusPending {
			if _, err := db.Exec(`UPDATE products SET status = ? WHERE id = ?`, status, p.ID); err != nil {
				t.Fatalf("failed to set product status: %v", err)
			}
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFirstProductByStatusEmpty(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	product, err := FirstProductByStatus(ProductStatusApproved)
	if err != nil {
		t.Fatalf("FirstProductByStatus failed: %v", err)
	}
	if product != nil {
		t.Error("Expected nil for empty queue")
	}
}

func TestFirstProductByStatusReturnsLowestID(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	ids := seedProducts(t, []ProductStatus{
		ProductStatusRejected,
		ProductStatusApproved,
		ProductStatusApproved,
	})

	product, err := FirstProductByStatus(ProductStatusApproved)
	if err != nil {
		t.Fatalf("FirstProductByStatus failed: %v", err)
	}
	if product == nil {
		t.Fatal("Expected a product, got nil")
	}
	if product.ID != ids[1] {
		t.Errorf("Expected first approved id %d, got %d", ids[1], product.ID)
	}
}

func TestBrowseNeverReturnsUnapproved(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	seedProducts(t, []ProductStatus{
		ProductStatusPending,
		ProductStatusApproved,
		ProductStatusRejected,
		ProductStatusApproved,
		ProductStatusPending,
	})

	product, err := FirstProductByStatus(ProductStatusApproved)
	if err != nil {
		t.Fatalf("FirstProductByStatus failed: %v", err)
	}
	for product != nil {
		if product.Status != ProductStatusApproved {
			t.Errorf("Browse returned product %d with status %s", product.ID, product.Status)
		}
		product, err = NextProductByStatus(ProductStatusApproved, product.ID, Forward)
		if err != nil {
			t.Fatalf("NextProductByStatus failed: %v", err)
		}
	}
}

func TestNextProductForwardThenBackwardIsIdentity(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	seedProducts(t, []ProductStatus{
		ProductStatusApproved,
		ProductStatusPending,
		ProductStatusApproved,
		ProductStatusApproved,
	})

	current, err := FirstProductByStatus(ProductStatusApproved)
	if err != nil {
		t.Fatalf("FirstProductByStatus failed: %v", err)
	}

	for {
		next, err := NextProductByStatus(ProductStatusApproved, current.ID, Forward)
		if err != nil {
			t.Fatalf("NextProductByStatus forward failed: %v", err)
		}
		if next == nil {
			break
		}
		back, err := NextProductByStatus(ProductStatusApproved, next.ID, Backward)
		if err != nil {
			t.Fatalf("NextProductByStatus backward failed: %v", err)
		}
		if back == nil || back.ID != current.ID {
			t.Fatalf("Backward from %d did not return %d", next.ID, current.ID)
		}
		current = next
	}
}

func TestNextProductPastBoundaries(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	ids := seedProducts(t, []ProductStatus{
		ProductStatusApproved,
		ProductStatusApproved,
	})

	past, err := NextProductByStatus(ProductStatusApproved, ids[1], Forward)
	if err != nil {
		t.Fatalf("NextProductByStatus failed: %v", err)
	}
	if past != nil {
		t.Error("Expected nil past the last approved product")
	}

	before, err := NextProductByStatus(ProductStatusApproved, ids[0], Backward)
	if err != nil {
		t.Fatalf("NextProductByStatus failed: %v", err)
	}
	if before != nil {
		t.Error("Expected nil before the first approved product")
	}
}

func TestPendingWithdrawalQueue(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, _ := GetOrCreateUser(40404, "wduser", false)

	insert := func(amount int64, status WithdrawalStatus) int64 {
		result, err := db.Exec(`
			INSERT INTO withdrawal_requests (user_id, amount, details, status)
			VALUES (?, ?, 'card 1234', ?)
		`, user.ID, amount, status)
		if err != nil {
			t.Fatalf("failed to insert withdrawal: %v", err)
		}
		id, _ := result.LastInsertId()
		return id
	}

	paid := insert(100, WithdrawalStatusPaid)
	first := insert(200, WithdrawalStatusPending)
	second := insert(300, WithdrawalStatusPending)

	wd, err := FirstPendingWithdrawal()
	if err != nil {
		t.Fatalf("FirstPendingWithdrawal failed: %v", err)
	}
	if wd == nil || wd.ID != first {
		t.Fatalf("Expected first pending request %d, got %+v", first, wd)
	}
	if wd.ID == paid {
		t.Error("Paid request leaked into the pending queue")
	}

	next, err := NextPendingWithdrawal(wd.ID, Forward)
	if err != nil {
		t.Fatalf("NextPendingWithdrawal failed: %v", err)
	}
	if next == nil || next.ID != second {
		t.Fatalf("Expected next pending request %d, got %+v", second, next)
	}

	none, err := NextPendingWithdrawal(next.ID, Forward)
	if err != nil {
		t.Fatalf("NextPendingWithdrawal failed: %v", err)
	}
	if none != nil {
		t.Error("Expected nil past the last pending request")
	}
}
