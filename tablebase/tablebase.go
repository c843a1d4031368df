// Package tablebase implements the persistent, memory-mapped bitmap that
// backs a solved (or in-progress) Touchdown classification: one bit per
// 24-bit index.
package tablebase

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Size is the fixed size in bytes of a tablebase file: one bit per index
// in [0, 1<<24), 2,097,152 bytes total.
const Size = 1 << 24 / 8

// Store is the narrow interface the solver consumes: a random-access,
// monotone-set bit array. It is satisfied by both Bitmap (the real,
// mmap-backed implementation) and MemStore (an in-memory fake used by
// tests), grounded on the teacher's narrow tablebase.Prober interface
// pattern.
type Store interface {
	ReadBit(i uint32) uint8
	SetBit(i uint32, v bool)
}

// Bitmap is a 2 MiB bit array backed by a memory-mapped file.
type Bitmap struct {
	file *os.File
	data []byte
}

// Open opens or creates a regular file at path, extends it to exactly
// Size bytes, and maps it read-write with shared semantics so writes
// persist. When fresh is true, any pre-existing content is truncated to
// zero first -- this is how callers avoid reusing stale 1-bits from an
// aborted earlier run (see the open question in the design notes).
func Open(path string, fresh bool) (*Bitmap, error) {
	flags := os.O_RDWR | os.O_CREATE
	if fresh {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("tablebase: open %s: %w", path, err)
	}

	if err := f.Truncate(Size); err != nil {
		f.Close()
		return nil, fmt.Errorf("tablebase: truncate %s: %w", path, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tablebase: mmap %s: %w", path, err)
	}

	return &Bitmap{file: f, data: data}, nil
}

// ReadBit returns bit i (0 or 1). Bit i lives in byte i/8, position i%8,
// LSB-first within the byte.
func (bm *Bitmap) ReadBit(i uint32) uint8 {
	return (bm.data[i/8] >> (i % 8)) & 1
}

// SetBit sets bit i when v is true. When v is false this is a no-op: the
// write interface is monotone-set, never clear, matching the solver's
// usage pattern (classifications are permanent once made).
func (bm *Bitmap) SetBit(i uint32, v bool) {
	if v {
		bm.data[i/8] |= 1 << (i % 8)
	}
}

// Close unmaps the file and closes the underlying descriptor. Calls after
// the first are no-ops and return nil.
func (bm *Bitmap) Close() error {
	var mErr, cErr error
	if bm.data != nil {
		mErr = unix.Munmap(bm.data)
		bm.data = nil
	}
	if bm.file != nil {
		cErr = bm.file.Close()
		bm.file = nil
	}
	if mErr != nil {
		return fmt.Errorf("tablebase: munmap: %w", mErr)
	}
	if cErr != nil {
		return fmt.Errorf("tablebase: close: %w", cErr)
	}
	return nil
}

// MemStore is an in-memory Store, used by tests that want to exercise the
// solver without mapping real files, grounded on the teacher's
// zero-dependency NoopProber stand-in.
type MemStore struct {
	data [Size]byte
}

// NewMemStore returns a zeroed in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// ReadBit returns bit i.
func (m *MemStore) ReadBit(i uint32) uint8 {
	return (m.data[i/8] >> (i % 8)) & 1
}

// SetBit sets bit i when v is true; false is a no-op.
func (m *MemStore) SetBit(i uint32, v bool) {
	if v {
		m.data[i/8] |= 1 << (i % 8)
	}
}
