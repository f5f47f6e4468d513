package engine

import "fmt"

// CutStats counts how each pruning device contributed during one
// search, for tuning sessions where nps alone does not explain a
// regression.
type CutStats struct {
	TTProbes      uint64
	TTHits        uint64
	TTCuts        uint64
	NullMoveCuts  uint64
	RazorCuts     uint64
	BetaCuts      uint64
	FirstMoveCuts uint64
	LMRResearches uint64
	Extensions    uint64
	QNodes        uint64
}

func (cs *CutStats) reset() {
	*cs = CutStats{}
}

// lines renders the counters as UCI "info string" payloads.
func (cs *CutStats) lines() []string {
	return []string{
		fmt.Sprintf("tt probes %d hits %d cuts %d null cuts %d razor cuts %d",
			cs.TTProbes, cs.TTHits, cs.TTCuts, cs.NullMoveCuts, cs.RazorCuts),
		fmt.Sprintf("beta cuts %d first-move cuts %d lmr re-searches %d", cs.BetaCuts, cs.FirstMoveCuts, cs.LMRResearches),
		fmt.Sprintf("extensions %d qnodes %d", cs.Extensions, cs.QNodes),
	}
}
