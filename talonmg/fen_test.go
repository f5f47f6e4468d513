package talonmg_test

import (
	"strings"
	"testing"

	tm "talon/talonmg"
)

func mustPos(t *testing.T, fen string) *tm.Position {
	t.Helper()
	p, err := tm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func TestParseFENStartPosition(t *testing.T) {
	p := mustPos(t, tm.StartFEN)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.SideToMove() != tm.White {
		t.Fatalf("side to move = %v, want White", p.SideToMove())
	}
	if p.EPSquare() != tm.NoSquare {
		t.Fatalf("ep square = %v, want none", p.EPSquare())
	}
	if p.Rule50() != 0 || p.FullMove() != 1 {
		t.Fatalf("clocks = %d/%d, want 0/1", p.Rule50(), p.FullMove())
	}
	if got := p.PieceAt(4); got != tm.MakePiece(tm.White, tm.King) {
		t.Fatalf("e1 = %v, want white king", got)
	}
	if got := p.PieceAt(60); got != tm.MakePiece(tm.Black, tm.King) {
		t.Fatalf("e8 = %v, want black king", got)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		tm.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
		"8/8/8/8/8/8/8/R3K2k w Q - 10 50",
	}
	for _, fen := range fens {
		p := mustPos(t, fen)
		if got := p.ToFEN(); got != fen {
			t.Errorf("round trip:\n in  %s\n out %s", fen, got)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Validate(%s): %v", fen, err)
		}
	}
}

func TestParseFENRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e5 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
	}
	for _, fen := range bad {
		if _, err := tm.ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) accepted invalid input", fen)
		} else if !strings.HasPrefix(err.Error(), "invalid FEN") {
			t.Errorf("ParseFEN(%q) error %q lacks invalid FEN prefix", fen, err)
		}
	}
}

func TestSquareStrings(t *testing.T) {
	cases := []struct {
		sq   tm.Square
		want string
	}{
		{0, "a1"}, {7, "h1"}, {28, "e4"}, {56, "a8"}, {63, "h8"},
	}
	for _, c := range cases {
		if got := c.sq.String(); got != c.want {
			t.Errorf("Square(%d).String() = %q, want %q", c.sq, got, c.want)
		}
		back, err := tm.SquareFromString(c.want)
		if err != nil || back != c.sq {
			t.Errorf("SquareFromString(%q) = %v,%v, want %v", c.want, back, err, c.sq)
		}
	}
	if _, err := tm.SquareFromString("i9"); err == nil {
		t.Error("SquareFromString accepted i9")
	}
}
