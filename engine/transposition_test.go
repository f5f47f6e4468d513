package engine

import (
	"testing"

	tm "talon/talonmg"
)

var ttTestMove = tm.NewMove(12, 28, tm.MakePiece(tm.White, tm.Pawn), tm.NoPiece, tm.NoPiece, tm.FlagNone)

func TestTransTableStoreProbeExact(t *testing.T) {
	tt := NewTransTable(1)
	tt.Store(0xABCD, ttTestMove, 123, 5, 0, BoundExact)

	score, move, usable := tt.Probe(0xABCD, 5, 0, -scoreInfinite, scoreInfinite)
	if !usable || score != 123 {
		t.Fatalf("probe = %d,%v, want 123,usable", score, usable)
	}
	if move != ttTestMove {
		t.Fatalf("probe move = %v, want %v", move, ttTestMove)
	}

	// A deeper draft cannot be satisfied by a shallower entry, but the
	// move is still good for ordering.
	if _, move, usable := tt.Probe(0xABCD, 6, 0, -scoreInfinite, scoreInfinite); usable || move != ttTestMove {
		t.Fatalf("deep probe = %v,%v, want move without cut", move, usable)
	}
}

func TestTransTableProbeMiss(t *testing.T) {
	tt := NewTransTable(1)
	if _, move, usable := tt.Probe(0x1234, 1, 0, -scoreInfinite, scoreInfinite); usable || move != tm.NullMove {
		t.Fatal("empty table produced a hit")
	}
	if tt.HashMove(0x1234) != tm.NullMove {
		t.Fatal("empty table produced a hash move")
	}
}

func TestTransTableBoundCuts(t *testing.T) {
	tt := NewTransTable(1)
	tt.Store(1, ttTestMove, 50, 4, 0, BoundLower)
	if _, _, usable := tt.Probe(1, 4, 0, 0, 40); !usable {
		t.Error("lower bound 50 should cut against beta 40")
	}
	if _, _, usable := tt.Probe(1, 4, 0, 0, 60); usable {
		t.Error("lower bound 50 must not cut against beta 60")
	}

	tt.Store(2, ttTestMove, -50, 4, 0, BoundUpper)
	if _, _, usable := tt.Probe(2, 4, 0, -40, 40); !usable {
		t.Error("upper bound -50 should cut against alpha -40")
	}
	if _, _, usable := tt.Probe(2, 4, 0, -60, 40); usable {
		t.Error("upper bound -50 must not cut against alpha -60")
	}
}

func TestTransTableMateScoreRebase(t *testing.T) {
	tt := NewTransTable(1)
	// A mate found at ply 3 is stored node-relative and must come back
	// adjusted to the probing ply.
	tt.Store(7, ttTestMove, scoreMate-8, 6, 3, BoundExact)
	score, _, usable := tt.Probe(7, 6, 3, -scoreInfinite, scoreInfinite)
	if !usable || score != scoreMate-8 {
		t.Fatalf("same-ply probe = %d, want %d", score, scoreMate-8)
	}
	score, _, usable = tt.Probe(7, 6, 1, -scoreInfinite, scoreInfinite)
	if !usable || score != scoreMate-6 {
		t.Fatalf("shallower probe = %d, want %d", score, scoreMate-6)
	}

	tt.Store(8, ttTestMove, matedScore(3), 6, 3, BoundExact)
	score, _, usable = tt.Probe(8, 6, 5, -scoreInfinite, scoreInfinite)
	if !usable || score != matedScore(5) {
		t.Fatalf("mated probe = %d, want %d", score, matedScore(5))
	}
}

func TestTransTableEvictsShallowest(t *testing.T) {
	tt := NewTransTable(1)
	cc := tt.clusterCount
	base := uint64(1)
	hashes := []uint64{base, base + cc, base + 2*cc, base + 3*cc, base + 4*cc}
	depths := []int{5, 1, 4, 3, 2}
	for i, h := range hashes {
		tt.Store(h, ttTestMove, 10, depths[i], 0, BoundExact)
	}
	// All five map to one cluster; the depth-1 entry is the victim.
	if tt.HashMove(hashes[1]) != tm.NullMove {
		t.Error("shallowest entry survived a full cluster")
	}
	for _, i := range []int{0, 2, 3, 4} {
		if tt.HashMove(hashes[i]) == tm.NullMove {
			t.Errorf("entry %d (depth %d) evicted, want depth-1 entry gone", i, depths[i])
		}
	}
}

func TestTransTableShallowStoreDropped(t *testing.T) {
	tt := NewTransTable(1)
	cc := tt.clusterCount
	deep := []uint64{1, 1 + cc, 1 + 2*cc, 1 + 3*cc}
	for _, h := range deep {
		tt.Store(h, ttTestMove, 10, 7, 0, BoundExact)
	}
	// A depth-2 leaf probe must not displace any of the depth-7 entries.
	tt.Store(1+4*cc, ttTestMove, 10, 2, 0, BoundExact)
	if tt.HashMove(1+4*cc) != tm.NullMove {
		t.Error("shallow store evicted a deeper entry")
	}
	for _, h := range deep {
		if tt.HashMove(h) == tm.NullMove {
			t.Errorf("deep entry %d lost to a shallow store", h)
		}
	}
}

func TestTransTableUpdateInPlace(t *testing.T) {
	tt := NewTransTable(1)
	tt.Store(9, ttTestMove, 10, 2, 0, BoundExact)
	tt.Store(9, ttTestMove, 77, 6, 0, BoundExact)
	score, _, usable := tt.Probe(9, 6, 0, -scoreInfinite, scoreInfinite)
	if !usable || score != 77 {
		t.Fatalf("probe after update = %d,%v, want 77", score, usable)
	}
}

func TestTransTableOldGenerationEvictedFirst(t *testing.T) {
	tt := NewTransTable(1)
	cc := tt.clusterCount
	// Fill one cluster with deep entries from the previous search.
	old := []uint64{1, 1 + cc, 1 + 2*cc, 1 + 3*cc}
	for _, h := range old {
		tt.Store(h, ttTestMove, 10, 9, 0, BoundExact)
	}
	tt.NextGeneration()

	// A shallow entry from the current search must displace one of the
	// stale ones rather than be dropped.
	fresh := 1 + 4*cc
	tt.Store(fresh, ttTestMove, 10, 1, 0, BoundExact)
	if tt.HashMove(fresh) == tm.NullMove {
		t.Error("current-search entry lost to stale deep entries")
	}
	survivors := 0
	for _, h := range old {
		if tt.HashMove(h) != tm.NullMove {
			survivors++
		}
	}
	if survivors != 3 {
		t.Errorf("stale survivors = %d, want exactly 3", survivors)
	}
}

func TestTransTableResizeClears(t *testing.T) {
	tt := NewTransTable(1)
	tt.Store(5, ttTestMove, 10, 2, 0, BoundExact)
	tt.Resize(2)
	if tt.HashMove(5) != tm.NullMove {
		t.Error("resize kept old entries")
	}
	tt.Store(5, ttTestMove, 10, 2, 0, BoundExact)
	tt.Clear()
	if tt.HashMove(5) != tm.NullMove {
		t.Error("clear kept old entries")
	}
}
