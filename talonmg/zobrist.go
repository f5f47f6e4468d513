package talonmg

import "math/rand"

// Zobrist keys. A fixed seed keeps hashes, and therefore searches,
// reproducible across runs.
var (
	zobristPiece  [2][7][64]uint64
	zobristCastle [16]uint64
	zobristEPFile [8]uint64
	zobristSide   uint64
)

func init() {
	rnd := rand.New(rand.NewSource(0x7A10B0A2D))
	for c := 0; c < 2; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rnd.Uint64()
			}
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rnd.Uint64()
	}
	for i := range zobristEPFile {
		zobristEPFile[i] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeHash recomputes the Zobrist key from scratch. The result must
// always match the incrementally maintained key.
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := p.squares[sq]
		if pc != NoPiece {
			key ^= zobristPiece[pc.Color()][pc.Type()][sq]
		}
	}
	if p.stm == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.castling]
	if p.epSquare != NoSquare {
		key ^= zobristEPFile[FileOf(p.epSquare)]
	}
	return key
}
