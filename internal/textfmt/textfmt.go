// Package textfmt renders Touchdown positions as human-readable text for
// the external dump tool: a 4x4 ASCII board and a one-line short form.
package textfmt

import "strings"

// cellRune returns the display character for a square: X for an own
// pawn, O for an opponent pawn, . for empty.
func cellRune(occ, own uint16, sq int) byte {
	bit := uint16(1) << uint(sq)
	switch {
	case own&bit != 0:
		return 'X'
	case occ&bit != 0:
		return 'O'
	default:
		return '.'
	}
}

// Board renders a 4x4 ASCII board: rows separated by newlines, no
// trailing newline.
func Board(occ, own uint16) string {
	var b strings.Builder
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			b.WriteByte(cellRune(occ, own, row*4+col))
		}
		if row < 3 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Short renders the 16 cells on one line, with a space after every 4.
func Short(occ, own uint16) string {
	var b strings.Builder
	for sq := 0; sq < 16; sq++ {
		b.WriteByte(cellRune(occ, own, sq))
		if sq%4 == 3 {
			b.WriteByte(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}
