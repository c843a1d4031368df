// Package solver implements the retrograde fixed-point classification of
// every 24-bit Touchdown index as WIN or LOSS for the side to move.
package solver

import (
	"log"

	"github.com/hailam/touchdown4x4/board"
	"github.com/hailam/touchdown4x4/internal/assert"
	"github.com/hailam/touchdown4x4/position"
	"github.com/hailam/touchdown4x4/tablebase"
)

// IndexSpace is the size of the full 24-bit index domain.
const IndexSpace = 1 << 24

// Progress is invoked once per completed pass with the number of indices
// newly classified during that pass. A nil Progress is a valid no-op; the
// core computes the count, printing it is the CLI's concern.
type Progress func(pass int, updated int)

// Solve runs the retrograde fixed-point driver over value/known until a
// full pass makes no further classifications. value[i]=1 means index i is
// WIN for the side to move; known[i]=1 means i has been classified.
func Solve(value, known tablebase.Store, progress Progress) {
	var buf [board.MaxSuccessors]uint32

	pass := 0
	for {
		pass++
		updated := 0

		for i := uint32(0); i < IndexSpace; i++ {
			if known.ReadBit(i) != 0 {
				continue
			}

			win, ok := classify(i, value, known, buf[:])
			if !ok {
				continue
			}

			known.SetBit(i, true)
			value.SetBit(i, win)
			updated++
		}

		if progress != nil {
			progress(pass, updated)
		}
		log.Printf("solver: pass %d classified %d new indices", pass, updated)

		if updated == 0 {
			return
		}
	}
}

// classify applies the per-index classification rule of a single
// retrograde pass. ok is false when i's value cannot yet be determined
// because one or more successors remain unknown and none of the known
// successors is a LOSS for the opponent.
func classify(i uint32, value, known tablebase.Store, buf []uint32) (win bool, ok bool) {
	if !position.IsValidIndex(i) {
		// Invalid indices are sentinel WINs so the recurrence never tips
		// toward LOSS because of a non-position.
		return true, true
	}

	w := position.Decode(i)
	b := board.New(w.Occ(), w.Own())

	if b.IsWin() {
		return true, true
	}
	if b.IsLoss() {
		return false, true
	}

	nt, admitted := b.AsNonTerminal()
	assert.Assertf(admitted, "solver: classify: IsWin/AsNonTerminal disagreement for index %#06x", i)

	n := nt.LegalMoves(buf)
	if n == 0 {
		// No legal move: the side to move loses.
		return false, true
	}

	sawUnknown := false
	for k := 0; k < n; k++ {
		j := position.Encode(position.Word(buf[k]))

		if known.ReadBit(j) == 0 {
			sawUnknown = true
			continue
		}
		if value.ReadBit(j) == 0 {
			// A successor is LOSS for the opponent after our move:
			// we win. This short-circuit is correct even with other
			// successors still unknown.
			return true, true
		}
	}

	if sawUnknown {
		return false, false
	}

	// All known successors are WIN for the opponent: we lose.
	return false, true
}
