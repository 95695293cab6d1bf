package token

import (
	"testing"

	"github.com/holiman/uint256"

	"ledgerchain/crypto"
	"ledgerchain/kv"
)

func TestBalanceSheetGetDefaultsToZero(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewBalanceSheet(crypto.BytesToAddress([]byte("token")))
	addr := crypto.BytesToAddress([]byte("alice"))

	got, err := sheet.Get(store, addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero balance, got %s", got)
	}
}

func TestBalanceSheetAddAndSubtract(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewBalanceSheet(crypto.BytesToAddress([]byte("token")))
	addr := crypto.BytesToAddress([]byte("alice"))

	if err := sheet.Add(store, addr, uint256.NewInt(100)); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := sheet.Get(store, addr)
	if err != nil || got.Cmp(uint256.NewInt(100)) != 0 {
		t.Fatalf("expected 100, got %s err=%v", got, err)
	}

	if err := sheet.Subtract(store, addr, uint256.NewInt(40)); err != nil {
		t.Fatalf("subtract: %v", err)
	}
	got, err = sheet.Get(store, addr)
	if err != nil || got.Cmp(uint256.NewInt(60)) != 0 {
		t.Fatalf("expected 60, got %s err=%v", got, err)
	}
}

func TestBalanceSheetSubtractUnderflow(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewBalanceSheet(crypto.BytesToAddress([]byte("token")))
	addr := crypto.BytesToAddress([]byte("alice"))

	if err := sheet.Subtract(store, addr, uint256.NewInt(1)); err != ErrBalanceUnderflow {
		t.Fatalf("expected ErrBalanceUnderflow, got %v", err)
	}
}

func TestBalanceSheetAddOverflow(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewBalanceSheet(crypto.BytesToAddress([]byte("token")))
	addr := crypto.BytesToAddress([]byte("alice"))

	almostMax := new(uint256.Int).Not(uint256.NewInt(0))
	if err := sheet.Add(store, addr, almostMax); err != nil {
		t.Fatalf("seed add: %v", err)
	}
	if err := sheet.Add(store, addr, uint256.NewInt(1)); err != ErrBalanceOverflow {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
}

func TestBalanceSheetTransfer(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewBalanceSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))
	bob := crypto.BytesToAddress([]byte("bob"))

	if err := sheet.Add(store, alice, uint256.NewInt(100)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := sheet.Transfer(store, alice, bob, uint256.NewInt(30)); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	aliceBal, _ := sheet.Get(store, alice)
	bobBal, _ := sheet.Get(store, bob)
	if aliceBal.Cmp(uint256.NewInt(70)) != 0 || bobBal.Cmp(uint256.NewInt(30)) != 0 {
		t.Fatalf("unexpected balances alice=%s bob=%s", aliceBal, bobBal)
	}
}

func TestBalanceSheetTransferInsufficientFundsLeavesRecipientUntouched(t *testing.T) {
	store := kv.NewMemStore()
	sheet := NewBalanceSheet(crypto.BytesToAddress([]byte("token")))
	alice := crypto.BytesToAddress([]byte("alice"))
	bob := crypto.BytesToAddress([]byte("bob"))

	if err := sheet.Transfer(store, alice, bob, uint256.NewInt(1)); err != ErrBalanceUnderflow {
		t.Fatalf("expected ErrBalanceUnderflow, got %v", err)
	}
	bobBal, _ := sheet.Get(store, bob)
	if !bobBal.IsZero() {
		t.Fatalf("expected bob untouched, got %s", bobBal)
	}
}
