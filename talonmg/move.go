package talonmg

// Move packs a full move description into 32 bits:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-15  moved piece
//	bits 16-19  captured piece (NoPiece if none)
//	bits 20-23  promotion piece (NoPiece if none)
//	bits 24-25  special flag
type Move uint32

// NullMove is the zero value and never a legal move.
const NullMove Move = 0

// MaxMoves bounds the number of legal moves in any reachable position.
const MaxMoves = 256

// Special move flags.
const (
	FlagNone      uint8 = 0
	FlagCastle    uint8 = 1
	FlagEnPassant uint8 = 2
)

// NewMove assembles a move from its parts.
func NewMove(from, to Square, moved, captured, promo Piece, flag uint8) Move {
	return Move(uint32(from)&0x3F |
		uint32(to)&0x3F<<6 |
		uint32(moved)&0xF<<12 |
		uint32(captured)&0xF<<16 |
		uint32(promo)&0xF<<20 |
		uint32(flag)&0x3<<24)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> 6 & 0x3F) }

// Moved returns the piece being moved.
func (m Move) Moved() Piece { return Piece(m >> 12 & 0xF) }

// Captured returns the piece taken by the move, NoPiece for quiets.
func (m Move) Captured() Piece { return Piece(m >> 16 & 0xF) }

// Promotion returns the piece promoted to, NoPiece otherwise.
func (m Move) Promotion() Piece { return Piece(m >> 20 & 0xF) }

// Flag returns the special move flag.
func (m Move) Flag() uint8 { return uint8(m >> 24 & 0x3) }

// IsCapture reports whether the move takes a piece (en passant included).
func (m Move) IsCapture() bool { return m.Captured() != NoPiece }

// IsQuiet reports whether the move neither captures nor promotes.
func (m Move) IsQuiet() bool { return m.Captured() == NoPiece && m.Promotion() == NoPiece }

// String renders the move in long algebraic coordinates, e.g. "e2e4",
// "e7e8q" for promotions.
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	switch m.Promotion().Type() {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

// ParseMove resolves a long-algebraic move string against the legal
// moves of the position, so flags and captured pieces come out right.
func (p *Position) ParseMove(s string) (Move, bool) {
	var buf [MaxMoves]Move
	for _, m := range p.GenerateMovesInto(buf[:0]) {
		if m.String() == s {
			return m, true
		}
	}
	return NullMove, false
}
