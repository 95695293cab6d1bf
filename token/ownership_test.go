package token

import (
	"testing"

	"ledgerchain/crypto"
	"ledgerchain/kv"
)

func TestOwnershipSheetGiveAndOwnerOf(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewOwnershipSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))

	if err := sheet.Give(store, alice, 1); err != nil {
		t.Fatalf("give: %v", err)
	}
	owner, ok, err := sheet.OwnerOf(store, 1)
	if err != nil || !ok || owner != alice {
		t.Fatalf("expected alice to own 1, got %v ok=%v err=%v", owner, ok, err)
	}

	set, err := sheet.Get(store, alice)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, present := set[1]; !present || len(set) != 1 {
		t.Fatalf("expected alice's set to contain exactly {1}, got %v", set)
	}
}

func TestOwnershipSheetGiveAlreadyOwned(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewOwnershipSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))
	bob := crypto.BytesToAddress([]byte("bob"))

	if err := sheet.Give(store, alice, 1); err != nil {
		t.Fatalf("give: %v", err)
	}
	if err := sheet.Give(store, bob, 1); err != ErrAlreadyOwned {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
}

func TestOwnershipSheetTakeRemovesForwardAndReverseIndex(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewOwnershipSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))

	if err := sheet.Give(store, alice, 1); err != nil {
		t.Fatalf("give: %v", err)
	}
	if err := sheet.Give(store, alice, 2); err != nil {
		t.Fatalf("give: %v", err)
	}
	if err := sheet.Take(store, alice, 1); err != nil {
		t.Fatalf("take: %v", err)
	}

	if _, ok, _ := sheet.OwnerOf(store, 1); ok {
		t.Fatalf("expected id 1 to have no owner after take")
	}
	set, err := sheet.Get(store, alice)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, present := set[1]; present {
		t.Fatalf("expected id 1 removed from alice's set, got %v", set)
	}
	if _, present := set[2]; !present {
		t.Fatalf("expected id 2 to remain in alice's set, got %v", set)
	}
}

func TestOwnershipSheetTakeNotOwned(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewOwnershipSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))
	bob := crypto.BytesToAddress([]byte("bob"))

	if err := sheet.Give(store, alice, 1); err != nil {
		t.Fatalf("give: %v", err)
	}
	if err := sheet.Take(store, bob, 1); err != ErrNotOwned {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestOwnershipSheetTakeLastIDClearsForwardEntry(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewOwnershipSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))

	if err := sheet.Give(store, alice, 1); err != nil {
		t.Fatalf("give: %v", err)
	}
	if err := sheet.Take(store, alice, 1); err != nil {
		t.Fatalf("take: %v", err)
	}
	set, err := sheet.Get(store, alice)
	if err != nil || len(set) != 0 {
		t.Fatalf("expected empty set, got %v err=%v", set, err)
	}
	if ok, _ := store.Contains(ownerKey(crypto.BytesToAddress([]byte("token")), alice)); ok {
		t.Fatalf("expected forward index key to be deleted entirely")
	}
}
