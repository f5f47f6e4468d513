package talonmg

// MoveState snapshots the irreversible parts of a position so a move
// can be undone exactly.
type MoveState struct {
	move         Move
	captured     Piece
	prevCastling CastleRights
	prevEP       Square
	prevRule50   int
	prevFullMove int
	prevHash     uint64
}

// Move returns the move this state belongs to.
func (st MoveState) Move() Move { return st.move }

// NullState snapshots the state clobbered by a null move.
type NullState struct {
	prevEP       Square
	prevRule50   int
	prevFullMove int
	prevHash     uint64
}

// castleRightsLost[sq] is the set of castling rights that disappear
// when a move touches sq, either as origin or destination. Covers king
// moves, rook moves and rooks captured on their home squares.
var castleRightsLost [64]CastleRights

func init() {
	castleRightsLost[0] = CastleWhiteQueen
	castleRightsLost[7] = CastleWhiteKing
	castleRightsLost[4] = CastleWhiteKing | CastleWhiteQueen
	castleRightsLost[56] = CastleBlackQueen
	castleRightsLost[63] = CastleBlackKing
	castleRightsLost[60] = CastleBlackKing | CastleBlackQueen
}

// castleRookPath maps a castling king destination to the rook's
// trajectory for that castle.
func castleRookPath(to Square) (rookFrom, rookTo Square) {
	switch to {
	case 6:
		return 7, 5
	case 2:
		return 0, 3
	case 62:
		return 63, 61
	default: // 58
		return 56, 59
	}
}

// MakeMove applies the move in place. If the move would leave the
// mover's own king attacked it is undone and ok is false; the position
// is then bitwise unchanged. On success the returned state undoes the
// move via UnmakeMove.
func (p *Position) MakeMove(m Move) (ok bool, st MoveState) {
	st = MoveState{
		move:         m,
		prevCastling: p.castling,
		prevEP:       p.epSquare,
		prevRule50:   p.rule50,
		prevFullMove: p.fullMove,
		prevHash:     p.hash,
	}

	from, to := m.From(), m.To()
	moved := m.Moved()
	mover := p.stm

	if p.epSquare != NoSquare {
		p.hash ^= zobristEPFile[FileOf(p.epSquare)]
		p.epSquare = NoSquare
	}

	// Remove the captured piece first so place() lands on an empty square.
	switch {
	case m.Flag() == FlagEnPassant:
		capSq := to - 8
		if mover == Black {
			capSq = to + 8
		}
		st.captured = p.lift(capSq)
	case m.Captured() != NoPiece:
		st.captured = p.lift(to)
	}

	p.lift(from)
	if promo := m.Promotion(); promo != NoPiece {
		p.place(to, promo)
	} else {
		p.place(to, moved)
	}

	if m.Flag() == FlagCastle {
		rookFrom, rookTo := castleRookPath(to)
		p.place(rookTo, p.lift(rookFrom))
	}

	if lost := castleRightsLost[from] | castleRightsLost[to]; p.castling&lost != 0 {
		p.hash ^= zobristCastle[p.castling]
		p.castling &^= lost
		p.hash ^= zobristCastle[p.castling]
	}

	// A double pawn push opens an en-passant file.
	if moved.Type() == Pawn && (to-from == 16 || from-to == 16) {
		p.epSquare = (from + to) / 2
		p.hash ^= zobristEPFile[FileOf(p.epSquare)]
	}

	p.stm = mover.Other()
	p.hash ^= zobristSide

	if p.isAttacked(p.KingSquare(mover), p.stm, p.AllOccupied()) {
		p.UnmakeMove(st)
		return false, st
	}

	if moved.Type() == Pawn || st.captured != NoPiece {
		p.rule50 = 0
	} else {
		p.rule50++
	}
	if mover == Black {
		p.fullMove++
	}
	return true, st
}

// UnmakeMove restores the position to before the corresponding
// MakeMove, including the exact hash.
func (p *Position) UnmakeMove(st MoveState) {
	m := st.move
	from, to := m.From(), m.To()
	moved := m.Moved()
	mover := p.stm.Other()

	if m.Flag() == FlagCastle {
		rookFrom, rookTo := castleRookPath(to)
		p.place(rookFrom, p.lift(rookTo))
	}

	p.lift(to)
	p.place(from, moved)

	if st.captured != NoPiece {
		capSq := to
		if m.Flag() == FlagEnPassant {
			capSq = to - 8
			if mover == Black {
				capSq = to + 8
			}
		}
		p.place(capSq, st.captured)
	}

	p.stm = mover
	p.castling = st.prevCastling
	p.epSquare = st.prevEP
	p.rule50 = st.prevRule50
	p.fullMove = st.prevFullMove
	p.hash = st.prevHash
}

// MakeNullMove passes the turn without moving a piece, for the null
// move search heuristic. Never call it while in check.
func (p *Position) MakeNullMove() (st NullState) {
	st = NullState{
		prevEP:       p.epSquare,
		prevRule50:   p.rule50,
		prevFullMove: p.fullMove,
		prevHash:     p.hash,
	}
	if p.epSquare != NoSquare {
		p.hash ^= zobristEPFile[FileOf(p.epSquare)]
		p.epSquare = NoSquare
	}
	p.rule50++
	if p.stm == Black {
		p.fullMove++
	}
	p.stm = p.stm.Other()
	p.hash ^= zobristSide
	return st
}

// UnmakeNullMove restores the position from before MakeNullMove.
func (p *Position) UnmakeNullMove(st NullState) {
	p.stm = p.stm.Other()
	p.epSquare = st.prevEP
	p.rule50 = st.prevRule50
	p.fullMove = st.prevFullMove
	p.hash = st.prevHash
}
