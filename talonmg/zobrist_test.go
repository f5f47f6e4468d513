package talonmg_test

import (
	"testing"

	tm "talon/talonmg"
)

func playMoves(t *testing.T, p *tm.Position, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		m, ok := p.ParseMove(mv)
		if !ok {
			t.Fatalf("move %s not legal in %s", mv, p.ToFEN())
		}
		if ok, _ := p.MakeMove(m); !ok {
			t.Fatalf("move %s rejected in %s", mv, p.ToFEN())
		}
	}
}

func TestHashIncrementalMatchesRecompute(t *testing.T) {
	p := mustPos(t, tm.StartFEN)
	playMoves(t, p,
		"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6",
		"b1c3", "a7a6", "c1e3", "e7e5", "d4b3", "c8e6", "f2f3", "f8e7",
		"d1d2", "e8g8")
	if got := p.ComputeHash(); got != p.Hash() {
		t.Fatalf("incremental %016x != recomputed %016x", p.Hash(), got)
	}
}

// Reaching the same position through different move orders must give
// the same key, or the transposition table cannot work.
func TestHashTranspositionInvariance(t *testing.T) {
	a := mustPos(t, tm.StartFEN)
	playMoves(t, a, "g1f3", "d7d5", "d2d4", "g8f6")
	b := mustPos(t, tm.StartFEN)
	playMoves(t, b, "d2d4", "d7d5", "g1f3", "g8f6")
	if a.Hash() != b.Hash() {
		t.Fatalf("transposed games hash differently: %016x vs %016x", a.Hash(), b.Hash())
	}
}

func TestHashDistinguishesStateFields(t *testing.T) {
	base := mustPos(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	variants := []string{
		"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w Kkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1",
	}
	seen := map[uint64]string{base.Hash(): base.ToFEN()}
	for _, fen := range variants {
		p := mustPos(t, fen)
		if prev, dup := seen[p.Hash()]; dup {
			t.Errorf("hash collision between %q and %q", prev, fen)
		}
		seen[p.Hash()] = fen
	}
}

func TestHashEnPassantFile(t *testing.T) {
	withEP := mustPos(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	without := mustPos(t, "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 2")
	if withEP.Hash() == without.Hash() {
		t.Fatal("en passant square not folded into the hash")
	}
}
