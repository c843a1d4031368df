package tablebase

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemStoreSetBitMonotone(t *testing.T) {
	m := NewMemStore()

	if m.ReadBit(42) != 0 {
		t.Fatal("expected bit 42 to start clear")
	}

	m.SetBit(42, true)
	if m.ReadBit(42) != 1 {
		t.Fatal("expected bit 42 to be set")
	}

	// SetBit with v=false must never clear an already-set bit.
	m.SetBit(42, false)
	if m.ReadBit(42) != 1 {
		t.Error("SetBit(i, false) must be a no-op, not a clear")
	}
}

func TestMemStoreByteLayout(t *testing.T) {
	m := NewMemStore()
	m.SetBit(0, true)
	m.SetBit(7, true)

	if m.data[0] != 0x81 {
		t.Errorf("byte 0 = %#02x, want %#02x (bits 0 and 7 set, LSB-first)", m.data[0], 0x81)
	}
}

func TestBitmapOpenAndPersist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.tb")

	bm, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	bm.SetBit(100, true)
	bm.SetBit(1<<23, true)

	if err := bm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != Size {
		t.Errorf("file size = %d, want %d", info.Size(), Size)
	}

	// Reopen without fresh=true and confirm the bits persisted.
	bm2, err := Open(path, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer bm2.Close()

	if bm2.ReadBit(100) != 1 {
		t.Error("expected bit 100 to persist across reopen")
	}
	if bm2.ReadBit(1<<23) != 1 {
		t.Error("expected bit 2^23 to persist across reopen")
	}
	if bm2.ReadBit(101) != 0 {
		t.Error("expected untouched bit to remain clear")
	}
}

func TestBitmapFreshTruncatesStaleBits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stale.tb")

	bm, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	bm.SetBit(5, true)
	if err := bm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	bm2, err := Open(path, true)
	if err != nil {
		t.Fatalf("reopen fresh: %v", err)
	}
	defer bm2.Close()

	if bm2.ReadBit(5) != 0 {
		t.Error("Open(fresh=true) should discard stale bits from a prior run")
	}
}
