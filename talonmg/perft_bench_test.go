package talonmg_test

import (
	"testing"

	tm "talon/talonmg"
)

func benchmarkPerft(b *testing.B, fen string, depth int) {
	p := tm.MustParseFEN(fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tm.Perft(p, depth)
	}
}

func BenchmarkPerftInitialD4(b *testing.B) {
	benchmarkPerft(b, tm.StartFEN, 4)
}

func BenchmarkPerftKiwipeteD3(b *testing.B) {
	benchmarkPerft(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3)
}

func BenchmarkPerftEndgameD5(b *testing.B) {
	benchmarkPerft(b, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5)
}

func BenchmarkGenerateMoves(b *testing.B) {
	p := tm.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	buf := make([]tm.Move, 0, tm.MaxMoves)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = p.GenerateMovesInto(buf[:0])
	}
	_ = buf
}

func BenchmarkMakeUnmake(b *testing.B) {
	p := tm.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	moves := p.GenerateMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		if ok, st := p.MakeMove(m); ok {
			p.UnmakeMove(st)
		}
	}
}
