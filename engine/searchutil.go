package engine

import (
	"fmt"
	"strings"

	tm "talon/talonmg"
)

const (
	maxPly   = 128
	maxDepth = 100

	scoreInfinite = 32500
	scoreMate     = 32000
	scoreDraw     = 0

	// Scores beyond this are mate-in-N, encoded as scoreMate minus the
	// ply the mate is delivered at.
	scoreMateThreshold = scoreMate - maxPly
)

func isMateScore(score int) bool {
	return score > scoreMateThreshold || score < -scoreMateThreshold
}

// matedScore is the score for the side to move being checkmated at
// the given ply. Deeper mates score closer to zero, so the search
// prefers the shortest mate and delays being mated.
func matedScore(ply int) int {
	return -scoreMate + ply
}

// formatScore renders a score the way UCI wants it: "mate N" in full
// moves for forced mates, "cp N" otherwise.
func formatScore(score int) string {
	if score > scoreMateThreshold {
		return fmt.Sprintf("mate %d", (scoreMate-score+1)/2)
	}
	if score < -scoreMateThreshold {
		return fmt.Sprintf("mate %d", -(scoreMate+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// pvTable is the triangular principal variation store: row ply holds
// the best line found from that ply downward.
type pvTable struct {
	moves  [maxPly + 1][maxPly + 1]tm.Move
	length [maxPly + 1]int
}

func (pv *pvTable) clear(ply int) {
	pv.length[ply] = 0
}

// extend records move as the head of the line at ply, followed by the
// line already proven at ply+1.
func (pv *pvTable) extend(ply int, move tm.Move) {
	pv.moves[ply][0] = move
	copy(pv.moves[ply][1:], pv.moves[ply+1][:pv.length[ply+1]])
	pv.length[ply] = pv.length[ply+1] + 1
}

// rootLine returns the best line from the root.
func (pv *pvTable) rootLine() []tm.Move {
	return pv.moves[0][:pv.length[0]]
}

func pvString(line []tm.Move) string {
	var sb strings.Builder
	for i, m := range line {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
