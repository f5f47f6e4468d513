package engine

import tm "talon/talonmg"

const historyMax = 10000

// historyTable scores quiet moves by how often they caused beta
// cutoffs, indexed by mover color and the from/to squares.
type historyTable [2][64][64]int

// increment rewards a quiet cutoff move with depth squared. When any
// counter hits the cap the whole table is halved so old glories fade.
func (ht *historyTable) increment(side tm.Color, m tm.Move, depth int) {
	ht[side][m.From()][m.To()] += depth * depth
	if ht[side][m.From()][m.To()] >= historyMax {
		ht.age()
	}
}

func (ht *historyTable) get(side tm.Color, m tm.Move) int {
	return ht[side][m.From()][m.To()]
}

func (ht *historyTable) age() {
	for c := 0; c < 2; c++ {
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				ht[c][from][to] /= 2
			}
		}
	}
}

func (ht *historyTable) clear() {
	*ht = historyTable{}
}
