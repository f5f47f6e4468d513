package engine

import tm "talon/talonmg"

// killerTable keeps two quiet moves per ply that recently caused a
// beta cutoff. Slot 0 holds the most recent killer; the previous one
// shifts to slot 1 instead of being thrown away.
type killerTable [maxPly][2]tm.Move

func (kt *killerTable) insert(ply int, m tm.Move) {
	if ply >= maxPly || kt[ply][0] == m {
		return
	}
	kt[ply][1] = kt[ply][0]
	kt[ply][0] = m
}

func (kt *killerTable) isKiller(ply int, m tm.Move) bool {
	return ply < maxPly && (kt[ply][0] == m || kt[ply][1] == m)
}

func (kt *killerTable) clear() {
	*kt = killerTable{}
}
