package engine

import (
	"testing"

	tm "talon/talonmg"
)

func seeMove(t *testing.T, fen, mv string) int {
	t.Helper()
	p := tm.MustParseFEN(fen)
	m, ok := p.ParseMove(mv)
	if !ok {
		t.Fatalf("move %s not legal in %s", mv, fen)
	}
	return SEE(p, m)
}

func TestSEESimpleWin(t *testing.T) {
	// Pawn takes an undefended queen.
	if got := seeMove(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", "e4d5"); got != 900 {
		t.Errorf("PxQ = %d, want 900", got)
	}
}

func TestSEELosingCapture(t *testing.T) {
	// The queen grabs a pawn defended by a pawn.
	if got := seeMove(t, "6k1/8/2p5/3p4/8/8/8/3Q2K1 w - - 0 1", "d1d5"); got != -800 {
		t.Errorf("QxP defended = %d, want -800", got)
	}
}

func TestSEEEqualTrade(t *testing.T) {
	// RxR with a recapturing rook behind: 500 - 500 = 0.
	if got := seeMove(t, "3rr1k1/8/8/8/8/8/8/3R2K1 w - - 0 1", "d1d8"); got != 0 {
		t.Errorf("RxR recaptured = %d, want 0", got)
	}
}

func TestSEERevealedSlider(t *testing.T) {
	// Bxe6 Qxe6 looks final, but lifting the bishop opens nothing for
	// white; with the queen defending, the bishop-for-knight trade is
	// dead even under equal minor values.
	if got := seeMove(t, "6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1", "c4e6"); got != 0 {
		t.Errorf("Bxe6 with queen defender = %d, want 0", got)
	}
	// Same capture without the defender wins the knight outright.
	if got := seeMove(t, "6k1/6p1/4n3/8/2B5/8/8/6K1 w - - 0 1", "c4e6"); got != 300 {
		t.Errorf("Bxe6 undefended = %d, want 300", got)
	}
}

func TestSEEXRayRecapture(t *testing.T) {
	// RxP loses the rook to the c7 pawn. The doubled rook on d1 is seen
	// through the vacated d3 square, but its recapture cannot rescue the
	// exchange, so the swap settles at pawn minus rook.
	got := seeMove(t, "6k1/2p5/3p4/8/8/3R4/8/3R2K1 w - - 0 1", "d3d6")
	if got != -400 {
		t.Errorf("RxP with stacked rooks = %d, want -400", got)
	}
}

func TestSEEEnPassant(t *testing.T) {
	if got := seeMove(t, "7k/8/8/3pP3/8/8/8/6K1 w - d6 0 2", "e5d6"); got != 100 {
		t.Errorf("en passant capture = %d, want 100", got)
	}
}

func TestSEEMinorsTradeEven(t *testing.T) {
	// NxB answered by PxN: equal minors make this a wash.
	if got := seeMove(t, "6k1/3p4/2b5/8/3N4/8/8/6K1 w - - 0 1", "d4c6"); got != 0 {
		t.Errorf("NxB recaptured by pawn = %d, want 0", got)
	}
}
