// Package board implements the Touchdown board representation: terminal
// tests, the player-swap rotation, and legal move generation.
package board

import "github.com/hailam/touchdown4x4/bitutil"

// MaxOwnPawns is the maximum number of pawns a side to move may have in a
// valid index (I-VAL condition 1).
const MaxOwnPawns = 4

// MovesPerPawn is the number of candidate destinations for a single pawn:
// straight, right-diagonal, left-diagonal.
const MovesPerPawn = 3

// MaxSuccessors is the fixed capacity a caller must supply to LegalMoves:
// MaxOwnPawns*MovesPerPawn, never more since a won position (pawns already
// on the back rank) is filtered out before move generation is attempted.
const MaxSuccessors = MaxOwnPawns * MovesPerPawn

const (
	rightEdge = 0x8888 // squares in the right-most column
	leftEdge  = 0x1111 // squares in the left-most column
	backRank  = 0x000F // squares 0..3, the side-to-move's goal row
	lastRank  = 0xF000 // squares 12..15, the opponent's goal row
)

// Board wraps a position word and exposes the terminal tests and the
// player-swap rotation. A Board may represent a won position (pawn on the
// back rank); only NonTerminalBoard offers LegalMoves.
type Board struct {
	occ uint16
	own uint16
}

// New wraps a decoded position word (occ/own planes) as a Board.
func New(occ, own uint16) Board {
	return Board{occ: occ, own: own}
}

// Occ returns the occupancy plane.
func (b Board) Occ() uint16 { return b.occ }

// Own returns the ownership plane.
func (b Board) Own() uint16 { return b.own }

// IsWin reports whether the side to move already has a pawn on the back
// rank, or the opponent has no pawns left. Such a board is never a real
// in-game state for the side to move (the previous move would already
// have ended the game); it is classified WIN by the solver as a sentinel.
func (b Board) IsWin() bool {
	if b.own&backRank != 0 {
		return true
	}
	opponent := b.occ &^ b.own
	return opponent == 0
}

// IsLoss reports whether the opponent has a pawn on the last rank, or the
// side to move has no pawns left.
func (b Board) IsLoss() bool {
	opponent := b.occ &^ b.own
	if opponent&lastRank != 0 {
		return true
	}
	return b.own == 0
}

// Swap rotates the board 180 degrees and flips ownership, producing the
// same physical configuration viewed from the opposing player. It is an
// involution on legal positions.
func Swap(occ, own uint16) (newOcc, newOwn uint16) {
	rOcc := bitutil.Reverse16(occ)
	rOwn := bitutil.Reverse16(own)
	// Re-assemble with the reversed own in the high half, reversed occ in
	// the low half, then flip ownership of every occupied square.
	word := uint32(rOcc) | uint32(rOwn)<<16
	word ^= (word & 0xFFFF) << 16
	return uint16(word), uint16(word >> 16)
}

// NonTerminalBoard is a Board known not to satisfy IsWin; only it exposes
// LegalMoves, so a caller cannot generate moves from a won position
// without the explicit type-level admission that IsWin was already
// checked.
type NonTerminalBoard struct {
	b Board
}

// AsNonTerminal admits b as non-terminal. ok is false when b.IsWin().
func (b Board) AsNonTerminal() (NonTerminalBoard, bool) {
	if b.IsWin() {
		return NonTerminalBoard{}, false
	}
	return NonTerminalBoard{b: b}, true
}

// Board returns the underlying Board.
func (n NonTerminalBoard) Board() Board { return n.b }

// LegalMoves fills dst (capacity >= MaxSuccessors) with the successor
// position words, each already rotated into the opponent's frame via
// Swap, and returns the count written. Moves are emitted in ascending
// source-square order; for a single source: straight, right-diagonal,
// left-diagonal capture.
func (n NonTerminalBoard) LegalMoves(dst []uint32) int {
	occ, own := n.b.occ, n.b.own
	opponent := occ &^ own

	count := 0
	mask := uint16(0x0010) // skip the back rank, squares 0..3
	for sq := 4; sq < 16; sq, mask = sq+1, mask<<1 {
		if own&mask == 0 {
			continue
		}

		// Straight move: destination must be empty.
		straight := mask >> 4
		if occ&straight == 0 {
			newOcc := occ ^ (mask | straight)
			newOwn := own ^ (mask | straight)
			ro, rw := Swap(newOcc, newOwn)
			dst[count] = uint32(ro) | uint32(rw)<<16
			count++
		}

		// Right-diagonal capture. The destination square stays occupied
		// (the opponent pawn is replaced by ours); only the source
		// occupancy clears, and ownership moves from source to
		// destination.
		if mask&rightEdge == 0 {
			right := mask >> 3
			if opponent&right != 0 {
				newOcc := occ ^ mask
				newOwn := own ^ mask ^ right
				ro, rw := Swap(newOcc, newOwn)
				dst[count] = uint32(ro) | uint32(rw)<<16
				count++
			}
		}

		// Left-diagonal capture.
		if mask&leftEdge == 0 {
			left := mask >> 5
			if opponent&left != 0 {
				newOcc := occ ^ mask
				newOwn := own ^ mask ^ left
				ro, rw := Swap(newOcc, newOwn)
				dst[count] = uint32(ro) | uint32(rw)<<16
				count++
			}
		}
	}

	return count
}
