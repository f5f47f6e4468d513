package engine

import (
	"math/bits"

	tm "talon/talonmg"
)

// seeValue deliberately prices minors equally so that NxB and BxN
// trades come out even in exchange evaluation.
var seeValue = [7]int{
	tm.Pawn:   100,
	tm.Knight: 300,
	tm.Bishop: 300,
	tm.Rook:   500,
	tm.Queen:  900,
	tm.King:   5000,
}

// SEE runs a static exchange evaluation of the capture: both sides
// keep recapturing on the destination square with their least valuable
// attacker, and the result is the best score the mover can guarantee.
// Sliders hidden behind the current attacker are revealed as pieces
// come off the board.
func SEE(p *tm.Position, m tm.Move) int {
	from, to := m.From(), m.To()
	occ := p.AllOccupied()

	var gain [32]int
	d := 0
	gain[0] = seeValue[m.Captured().Type()]

	if m.Flag() == tm.FlagEnPassant {
		capSq := to - 8
		if m.Moved().Color() == tm.Black {
			capSq = to + 8
		}
		occ &^= uint64(1) << uint(capSq)
	}

	attackers := p.AttackersTo(to, tm.White, occ) | p.AttackersTo(to, tm.Black, occ)
	attacker := m.Moved().Type()
	attackerBit := uint64(1) << uint(from)
	side := m.Moved().Color()

	for {
		d++
		gain[d] = seeValue[attacker] - gain[d-1]
		if Max(-gain[d-1], gain[d]) < 0 {
			break
		}

		occ &^= attackerBit
		attackers &^= attackerBit
		attackers |= revealedSliders(p, to, occ)

		side = side.Other()
		attackerBit, attacker = leastValuableAttacker(p, attackers&occ, side)
		if attackerBit == 0 {
			break
		}
	}

	for d--; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// revealedSliders returns sliders of either color that attack sq
// through the now-thinner occupancy.
func revealedSliders(p *tm.Position, sq tm.Square, occ uint64) uint64 {
	rooks := (p.PieceBB(tm.White, tm.Rook) | p.PieceBB(tm.Black, tm.Rook) |
		p.PieceBB(tm.White, tm.Queen) | p.PieceBB(tm.Black, tm.Queen)) & occ
	bishops := (p.PieceBB(tm.White, tm.Bishop) | p.PieceBB(tm.Black, tm.Bishop) |
		p.PieceBB(tm.White, tm.Queen) | p.PieceBB(tm.Black, tm.Queen)) & occ
	return tm.RookAttacks(sq, occ)&rooks | tm.BishopAttacks(sq, occ)&bishops
}

func leastValuableAttacker(p *tm.Position, attackers uint64, side tm.Color) (uint64, tm.PieceType) {
	for pt := tm.Pawn; pt <= tm.King; pt++ {
		if subset := attackers & p.PieceBB(side, pt); subset != 0 {
			return uint64(1) << uint(bits.TrailingZeros64(subset)), pt
		}
	}
	return 0, tm.NoPieceType
}
