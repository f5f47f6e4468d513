package talonmg

import "math/bits"

type genMode int

const (
	genAll genMode = iota
	genCaptures
	genQuiets
)

// castleSide describes one castling option: the rights bit it needs,
// the king and rook trajectories, the squares that must be empty and
// the squares the king crosses that must not be attacked.
type castleSide struct {
	right            CastleRights
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	emptyMask        uint64
	transit          [2]Square
}

var castleTable = [2][2]castleSide{
	White: {
		{CastleWhiteKing, 4, 6, 7, 5, 1<<5 | 1<<6, [2]Square{5, 6}},
		{CastleWhiteQueen, 4, 2, 0, 3, 1<<1 | 1<<2 | 1<<3, [2]Square{3, 2}},
	},
	Black: {
		{CastleBlackKing, 60, 62, 63, 61, 1<<61 | 1<<62, [2]Square{61, 62}},
		{CastleBlackQueen, 60, 58, 56, 59, 1<<57 | 1<<58 | 1<<59, [2]Square{59, 58}},
	},
}

// GenerateMoves returns all legal moves for the side to move.
func (p *Position) GenerateMoves() []Move {
	return p.GenerateMovesInto(make([]Move, 0, 64))
}

// GenerateMovesInto appends all legal moves into dst (reset to length
// zero first) and returns it. Reusing dst avoids allocations in the
// search hot path.
func (p *Position) GenerateMovesInto(dst []Move) []Move {
	return p.generateInto(dst, genAll)
}

// GenerateCaptures returns all legal captures, en passant and capture
// promotions included.
func (p *Position) GenerateCaptures() []Move {
	return p.GenerateCapturesInto(make([]Move, 0, 32))
}

// GenerateCapturesInto appends all legal captures into dst.
func (p *Position) GenerateCapturesInto(dst []Move) []Move {
	return p.generateInto(dst, genCaptures)
}

// GenerateQuiets returns all legal non-capturing moves, quiet
// promotions and castling included.
func (p *Position) GenerateQuiets() []Move {
	return p.GenerateQuietsInto(make([]Move, 0, 48))
}

// GenerateQuietsInto appends all legal non-capturing moves into dst.
func (p *Position) GenerateQuietsInto(dst []Move) []Move {
	return p.generateInto(dst, genQuiets)
}

// generateInto is the single legal-move generator behind the three
// public entry points. Non-king moves are filtered up front by the
// check block mask and pin rays, so no make/unmake legality test is
// needed; king and en-passant moves verify king safety against a
// simulated occupancy.
func (p *Position) generateInto(dst []Move, mode genMode) []Move {
	moves := dst[:0]
	side := p.stm
	them := side.Other()
	ownOcc := p.occupied[side]
	oppOcc := p.occupied[them]
	allOcc := ownOcc | oppOcc

	ci := p.analyzeChecks(side, allOcc)

	if !ci.doubleCheck {
		moves = p.genPawnMoves(moves, mode, &ci, side, them, oppOcc, allOcc)

		// The four non-pawn piece kinds share one loop; only the attack
		// set differs per kind.
		for pt := Knight; pt <= Queen; pt++ {
			pieces := p.pieceBB[side][pt]
			for pieces != 0 {
				from := popLSB(&pieces)
				targets := pieceAttacks(pt, from, allOcc) &^ ownOcc & ci.blockMask
				if pin := ci.pinRay[from]; pin != 0 {
					targets &= pin
				}
				switch mode {
				case genCaptures:
					targets &= oppOcc
				case genQuiets:
					targets &^= oppOcc
				}
				moved := p.squares[from]
				for targets != 0 {
					to := popLSB(&targets)
					moves = append(moves, NewMove(from, to, moved, p.squares[to], NoPiece, FlagNone))
				}
			}
		}
	}

	moves = p.genKingMoves(moves, mode, &ci, side, them, ownOcc, oppOcc, allOcc)
	return moves
}

func pieceAttacks(pt PieceType, sq Square, occ uint64) uint64 {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	default:
		return QueenAttacks(sq, occ)
	}
}

var promoKinds = [4]PieceType{Queen, Rook, Bishop, Knight}

func (p *Position) genPawnMoves(moves []Move, mode genMode, ci *checkInfo, side, them Color, oppOcc, allOcc uint64) []Move {
	up := 8
	startRank, promoRank := 1, 7
	if side == Black {
		up = -8
		startRank, promoRank = 6, 0
	}
	ksq := p.KingSquare(side)

	pawns := p.pieceBB[side][Pawn]
	for pawns != 0 {
		from := popLSB(&pawns)
		moved := p.squares[from]
		pin := ci.pinRay[from]

		allowed := func(to Square) bool {
			bit := uint64(1) << uint(to)
			if pin != 0 && bit&pin == 0 {
				return false
			}
			return bit&ci.blockMask != 0
		}

		// Pushes.
		if mode != genCaptures {
			one := from + Square(up)
			if allOcc>>uint(one)&1 == 0 {
				if RankOf(one) == promoRank {
					if allowed(one) {
						for _, pk := range promoKinds {
							moves = append(moves, NewMove(from, one, moved, NoPiece, MakePiece(side, pk), FlagNone))
						}
					}
				} else {
					if allowed(one) {
						moves = append(moves, NewMove(from, one, moved, NoPiece, NoPiece, FlagNone))
					}
					if RankOf(from) == startRank {
						two := one + Square(up)
						if allOcc>>uint(two)&1 == 0 && allowed(two) {
							moves = append(moves, NewMove(from, two, moved, NoPiece, NoPiece, FlagNone))
						}
					}
				}
			}
		}

		if mode == genQuiets {
			continue
		}

		// Captures.
		caps := pawnAttacks[side][from] & oppOcc
		for caps != 0 {
			to := popLSB(&caps)
			if !allowed(to) {
				continue
			}
			victim := p.squares[to]
			if RankOf(to) == promoRank {
				for _, pk := range promoKinds {
					moves = append(moves, NewMove(from, to, moved, victim, MakePiece(side, pk), FlagNone))
				}
			} else {
				moves = append(moves, NewMove(from, to, moved, victim, NoPiece, FlagNone))
			}
		}

		// En passant. The capture removes two pieces from the capture
		// rank at once, so pin rays and block masks are not enough; we
		// verify king safety against the simulated occupancy instead.
		if p.epSquare != NoSquare && pawnAttacks[side][from]&(1<<uint(p.epSquare)) != 0 {
			ep := p.epSquare
			capSq := ep - Square(up)
			if pin == 0 || uint64(1)<<uint(ep)&pin != 0 {
				occ := allOcc
				occ &^= 1 << uint(from)
				occ &^= 1 << uint(capSq)
				occ |= 1 << uint(ep)
				if !p.isAttackedEP(ksq, them, occ, capSq) {
					moves = append(moves, NewMove(from, ep, moved, MakePiece(them, Pawn), NoPiece, FlagEnPassant))
				}
			}
		}
	}
	return moves
}

// isAttackedEP is isAttacked with the pawn on capSq treated as gone,
// needed because en passant removes a piece that still sits on the
// board's bitboards.
func (p *Position) isAttackedEP(sq Square, by Color, occ uint64, capSq Square) bool {
	capBit := uint64(1) << uint(capSq)
	if pawnAttacks[by.Other()][sq]&(p.pieceBB[by][Pawn]&^capBit) != 0 {
		return true
	}
	if knightAttacks[sq]&p.pieceBB[by][Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&p.pieceBB[by][King] != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(p.pieceBB[by][Rook]|p.pieceBB[by][Queen]) != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(p.pieceBB[by][Bishop]|p.pieceBB[by][Queen]) != 0 {
		return true
	}
	return false
}

func (p *Position) genKingMoves(moves []Move, mode genMode, ci *checkInfo, side, them Color, ownOcc, oppOcc, allOcc uint64) []Move {
	from := p.KingSquare(side)
	moved := p.squares[from]

	targets := kingAttacks[from] &^ ownOcc
	switch mode {
	case genCaptures:
		targets &= oppOcc
	case genQuiets:
		targets &^= oppOcc
	}
	for targets != 0 {
		to := popLSB(&targets)
		occ := allOcc&^(1<<uint(from)) | 1<<uint(to)
		if p.isAttacked(to, them, occ) {
			continue
		}
		moves = append(moves, NewMove(from, to, moved, p.squares[to], NoPiece, FlagNone))
	}

	// Castling: needs the right, an empty path, the rook still at home,
	// the king not in check and the transit squares unattacked.
	if mode != genCaptures && !ci.inCheck() {
		for _, cs := range castleTable[side] {
			if p.castling&cs.right == 0 {
				continue
			}
			if allOcc&cs.emptyMask != 0 {
				continue
			}
			if p.squares[cs.rookFrom] != MakePiece(side, Rook) {
				continue
			}
			if p.isAttacked(cs.transit[0], them, allOcc) || p.isAttacked(cs.transit[1], them, allOcc) {
				continue
			}
			moves = append(moves, NewMove(cs.kingFrom, cs.kingTo, moved, NoPiece, NoPiece, FlagCastle))
		}
	}
	return moves
}

// CheckersTo returns the bitboard of enemy pieces currently giving
// check to the given side's king.
func (p *Position) CheckersTo(side Color) uint64 {
	ksq := p.KingSquare(side)
	occ := p.AllOccupied()
	them := side.Other()
	var c uint64
	c |= pawnAttacks[side][ksq] & p.pieceBB[them][Pawn]
	c |= knightAttacks[ksq] & p.pieceBB[them][Knight]
	c |= RookAttacks(ksq, occ) & (p.pieceBB[them][Rook] | p.pieceBB[them][Queen])
	c |= BishopAttacks(ksq, occ) & (p.pieceBB[them][Bishop] | p.pieceBB[them][Queen])
	return c
}

// popcount is a tiny alias for bits.OnesCount64.
func popcount(bb uint64) int { return bits.OnesCount64(bb) }
