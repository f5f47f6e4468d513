package engine

import (
	"unsafe"

	tm "talon/talonmg"
)

// Bound classifies a stored search score relative to the window it was
// searched with.
type Bound int8

const (
	BoundNone Bound = iota
	// BoundExact scores came from a full-window search.
	BoundExact
	// BoundLower scores failed high; the true score is at least this.
	BoundLower
	// BoundUpper scores failed low; the true score is at most this.
	BoundUpper
)

const ttClusterSize = 4

type ttEntry struct {
	hash  uint64
	move  tm.Move
	score int16
	depth int8
	bound Bound
	gen   uint8
}

// TransTable is a fixed-size transposition table bucketed into
// clusters of four entries. Entries from earlier root searches are
// replaced before anything current; within a fully current cluster the
// shallowest entry is evicted, and only for a result at least as deep,
// so deep results survive the churn of leaf probes.
type TransTable struct {
	entries      []ttEntry
	clusterCount uint64
	gen          uint8
}

// NewTransTable allocates a table of roughly sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTable {
	tt := &TransTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize throws away all entries and reallocates the table.
func (tt *TransTable) Resize(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	clusterCount := uint64(sizeMB) * 1024 * 1024 / (entrySize * ttClusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]ttEntry, clusterCount*ttClusterSize)
	tt.gen = 0
}

// Clear zeroes the table without reallocating.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
	tt.gen = 0
}

// NextGeneration marks the start of a new root search. Entries kept
// from before stay probeable but become preferred victims on store.
func (tt *TransTable) NextGeneration() {
	tt.gen++
}

// Probe looks the hash up and reports whether a stored result can cut
// the current node. The hash move is returned for ordering even when
// the score itself is not usable. Mate scores are stored relative to
// the storing node and rebased to the probing ply here.
func (tt *TransTable) Probe(hash uint64, depth, ply, alpha, beta int) (score int, move tm.Move, usable bool) {
	entry := tt.find(hash)
	if entry == nil {
		return 0, tm.NullMove, false
	}
	move = entry.move
	if int(entry.depth) < depth {
		return 0, move, false
	}

	score = int(entry.score)
	if score > scoreMateThreshold {
		score -= ply
	} else if score < -scoreMateThreshold {
		score += ply
	}

	switch entry.bound {
	case BoundExact:
		return score, move, true
	case BoundLower:
		if score >= beta {
			return score, move, true
		}
	case BoundUpper:
		if score <= alpha {
			return score, move, true
		}
	}
	return 0, move, false
}

// HashMove returns the stored best move for the position, if any.
func (tt *TransTable) HashMove(hash uint64) tm.Move {
	if entry := tt.find(hash); entry != nil {
		return entry.move
	}
	return tm.NullMove
}

func (tt *TransTable) find(hash uint64) *ttEntry {
	base := hash % tt.clusterCount * ttClusterSize
	for i := uint64(0); i < ttClusterSize; i++ {
		if e := &tt.entries[base+i]; e.hash == hash && e.bound != BoundNone {
			return e
		}
	}
	return nil
}

// Store records a search result. Mate scores are rebased from
// root-relative to node-relative before storing so they stay correct
// when probed at a different ply.
func (tt *TransTable) Store(hash uint64, move tm.Move, score, depth, ply int, bound Bound) {
	if score > scoreMateThreshold {
		score += ply
	} else if score < -scoreMateThreshold {
		score -= ply
	}

	base := hash % tt.clusterCount * ttClusterSize
	target := -1

	for i := uint64(0); i < ttClusterSize; i++ {
		if e := &tt.entries[base+i]; e.hash == hash {
			// A current-generation entry for the same position is only
			// replaced by a result at least as deep.
			if e.bound != BoundNone && e.gen == tt.gen && depth < int(e.depth) {
				return
			}
			target = int(base + i)
			break
		}
	}
	if target == -1 {
		for i := uint64(0); i < ttClusterSize; i++ {
			if e := &tt.entries[base+i]; e.bound == BoundNone || e.gen != tt.gen {
				target = int(base + i)
				break
			}
		}
	}
	if target == -1 {
		victim := int(base)
		minDepth := tt.entries[base].depth
		for i := uint64(1); i < ttClusterSize; i++ {
			if d := tt.entries[base+i].depth; d < minDepth {
				minDepth = d
				victim = int(base + i)
			}
		}
		// A full current-generation cluster only gives up its
		// shallowest entry for a result at least as deep.
		if depth < int(minDepth) {
			return
		}
		target = victim
	}

	tt.entries[target] = ttEntry{
		hash:  hash,
		move:  move,
		score: int16(score),
		depth: int8(depth),
		bound: bound,
		gen:   tt.gen,
	}
}
