package engine

import (
	"math/bits"

	tm "talon/talonmg"
)

// Game phase weights per piece type. The phase runs from totalPhase
// (all pieces on the board) down to 0 (bare kings), and the evaluation
// blends the middlegame and endgame tables along it.
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = 4*knightPhase + 4*bishopPhase + 4*rookPhase + 2*queenPhase
)

var phaseWeight = [7]int{
	tm.Knight: knightPhase,
	tm.Bishop: bishopPhase,
	tm.Rook:   rookPhase,
	tm.Queen:  queenPhase,
}

var pieceValue = [7]int{
	tm.Pawn:   100,
	tm.Knight: 320,
	tm.Bishop: 330,
	tm.Rook:   500,
	tm.Queen:  900,
}

// tempoBonus nudges the evaluation toward the side to move.
const tempoBonus = 10

// flipView mirrors a square vertically so black pieces can index the
// white-oriented tables.
func flipView(sq tm.Square) tm.Square { return sq ^ 56 }

// Piece-square tables from White's point of view, rank 1 in the first
// row so table[sq] indexes directly for a white piece. Only the king
// changes shape between the middlegame and endgame tables; for the
// other pieces both phases share one layout.
var psqtPawn = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var psqtKnight = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var psqtBishop = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var psqtRook = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var psqtQueen = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var psqtKingMG = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var psqtKingEG = [64]int{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

var psqtMG, psqtEG [7][64]int

func init() {
	psqtMG[tm.Pawn] = psqtPawn
	psqtMG[tm.Knight] = psqtKnight
	psqtMG[tm.Bishop] = psqtBishop
	psqtMG[tm.Rook] = psqtRook
	psqtMG[tm.Queen] = psqtQueen
	psqtMG[tm.King] = psqtKingMG

	psqtEG = psqtMG
	psqtEG[tm.King] = psqtKingEG
}

// Evaluate scores the position in centipawns from the side to move's
// point of view: material plus piece placement, tapered between the
// middlegame and endgame tables by the remaining material.
func Evaluate(p *tm.Position) int {
	if p.InsufficientMaterial() {
		return scoreDraw
	}
	if score, ok := mopUpScore(p); ok {
		if p.SideToMove() == tm.Black {
			return -score + tempoBonus
		}
		return score + tempoBonus
	}

	var mg, eg, phase int
	for c := tm.White; c <= tm.Black; c++ {
		sign := 1
		if c == tm.Black {
			sign = -1
		}
		for pt := tm.Pawn; pt <= tm.King; pt++ {
			bb := p.PieceBB(c, pt)
			phase += phaseWeight[pt] * bits.OnesCount64(bb)
			for bb != 0 {
				sq := tm.Square(bits.TrailingZeros64(bb))
				bb &= bb - 1
				view := sq
				if c == tm.Black {
					view = flipView(sq)
				}
				mg += sign * (pieceValue[pt] + psqtMG[pt][view])
				eg += sign * (pieceValue[pt] + psqtEG[pt][view])
			}
		}
	}
	if phase > totalPhase {
		// Promotions can push the material past the opening total.
		phase = totalPhase
	}

	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase
	if p.SideToMove() == tm.Black {
		score = -score
	}
	return score + tempoBonus
}

// mopUpScore handles endings where one side has nothing but the king:
// drive the bare king to the edge and bring our king close. Returns a
// White-positive score and whether the pattern applies. The caller has
// already ruled out insufficient material, so the strong side can mate.
func mopUpScore(p *tm.Position) (int, bool) {
	var winner tm.Color
	switch {
	case p.Occupied(tm.Black) == p.PieceBB(tm.Black, tm.King):
		winner = tm.White
	case p.Occupied(tm.White) == p.PieceBB(tm.White, tm.King):
		winner = tm.Black
	default:
		return 0, false
	}
	if p.PieceBB(winner, tm.Queen)|p.PieceBB(winner, tm.Rook) == 0 {
		return 0, false
	}

	material := 0
	for pt := tm.Pawn; pt <= tm.Queen; pt++ {
		material += pieceValue[pt] * bits.OnesCount64(p.PieceBB(winner, pt))
	}
	loserK := p.KingSquare(winner.Other())
	winnerK := p.KingSquare(winner)
	score := material +
		10*tm.CenterDistance(loserK) +
		4*(7-tm.ChebyshevDistance[winnerK][loserK])
	if winner == tm.Black {
		score = -score
	}
	return score, true
}
