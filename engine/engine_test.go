package engine

import (
	"errors"
	"strings"
	"testing"

	tm "talon/talonmg"
)

func testEngine() *Engine {
	opts := DefaultOptions()
	opts.HashMB = 8
	return New(opts)
}

func TestEnginePlayMovesUpdatesFEN(t *testing.T) {
	e := testEngine()
	for _, mv := range []string{"e2e4", "e7e5"} {
		if err := e.PlayMove(mv); err != nil {
			t.Fatalf("PlayMove(%s): %v", mv, err)
		}
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	if got := e.FEN(); got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
}

func TestEngineRejectsIllegalMove(t *testing.T) {
	e := testEngine()
	if err := e.PlayMove("e2e5"); err == nil {
		t.Fatal("PlayMove accepted e2e5 from the start position")
	}
	if got := e.FEN(); got != tm.StartFEN {
		t.Errorf("failed move changed the position to %s", got)
	}
}

func TestEngineSetPositionFEN(t *testing.T) {
	e := testEngine()
	if err := e.SetPositionFEN("not a position"); err == nil {
		t.Fatal("SetPositionFEN accepted garbage")
	}
	fen := "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	if err := e.SetPositionFEN(fen); err != nil {
		t.Fatalf("SetPositionFEN: %v", err)
	}
	res, err := e.Search(Limits{Depth: 4})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.BestMove.String(); got != "a1a8" {
		t.Errorf("best move = %s, want the back-rank mate a1a8", got)
	}
}

func TestEngineRejectsBadLimits(t *testing.T) {
	e := testEngine()
	var limitsErr *LimitsError
	if _, err := e.Search(Limits{Depth: -1}); !errors.As(err, &limitsErr) {
		t.Errorf("Search(depth -1) err = %v, want a LimitsError", err)
	}
	if _, err := e.Search(Limits{MoveTimeMS: -5}); !errors.As(err, &limitsErr) {
		t.Errorf("Search(movetime -5) err = %v, want a LimitsError", err)
	}
}

func TestEngineNewGameResets(t *testing.T) {
	e := testEngine()
	if err := e.PlayMove("e2e4"); err != nil {
		t.Fatal(err)
	}
	e.NewGame()
	if got := e.FEN(); got != tm.StartFEN {
		t.Errorf("FEN after NewGame = %s, want start position", got)
	}
}

func TestEngineSearchEmitsInfoLines(t *testing.T) {
	e := testEngine()
	var sb strings.Builder
	e.SetOutput(&sb)
	if _, err := e.Search(Limits{Depth: 3}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "info depth 1 ") || !strings.Contains(out, "info depth 3 ") {
		t.Errorf("info output missing iteration lines:\n%s", out)
	}
	if !strings.Contains(out, " pv ") || !strings.Contains(out, " score cp ") {
		t.Errorf("info output missing score or pv fields:\n%s", out)
	}
}

func TestEngineSeesRepetitionInGameHistory(t *testing.T) {
	// White is a queen for a rook down. The rook has already shuffled to
	// f1 and back once, so repeating the shuffle recreates a position
	// from the game history; the search must take the draw over losing.
	e := testEngine()
	if err := e.SetPositionFEN("7k/8/8/8/8/8/q7/6RK w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	for _, mv := range []string{"g1f1", "a2b2", "f1g1", "b2a2"} {
		if err := e.PlayMove(mv); err != nil {
			t.Fatalf("PlayMove(%s): %v", mv, err)
		}
	}
	res, err := e.Search(Limits{Depth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != scoreDraw {
		t.Errorf("score = %d, want the repetition draw", res.Score)
	}
	if got := res.BestMove.String(); got != "g1f1" {
		t.Errorf("best move = %s, want the repeating g1f1", got)
	}
}

func TestEngineThreefoldAtRootIsTerminalDraw(t *testing.T) {
	// Two full knight shuffles put the start position on the board for
	// the third time; the draw is claimable before searching at all.
	e := testEngine()
	moves := []string{
		"b1c3", "b8c6", "c3b1", "c6b8",
		"b1c3", "b8c6", "c3b1", "c6b8",
	}
	for _, mv := range moves {
		if err := e.PlayMove(mv); err != nil {
			t.Fatalf("PlayMove(%s): %v", mv, err)
		}
	}
	res, err := e.Search(Limits{Depth: 6})
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != scoreDraw || res.Termination != TerminationTerminal {
		t.Errorf("result = %d/%v, want draw score and terminal", res.Score, res.Termination)
	}
	if res.BestMove == tm.NullMove {
		t.Error("terminal draw with moves on the board should still name one")
	}
}

func TestEngineSearchIsReusable(t *testing.T) {
	e := testEngine()
	first, err := e.Search(Limits{Depth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(first.BestMove.String()); err != nil {
		t.Fatalf("playing the engine's own move: %v", err)
	}
	second, err := e.Search(Limits{Depth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if second.BestMove == tm.NullMove {
		t.Fatal("second search returned no move")
	}
	if second.BestMove.Moved().Color() != tm.Black {
		t.Errorf("second search moved %v, want a black piece", second.BestMove.Moved())
	}
}
