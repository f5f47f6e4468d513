package engine

import tm "talon/talonmg"

// Ordering score bands, highest tried first. History scores live in
// [0, historyMax) between the killer band and the losing captures.
const (
	scorePV           = 30000
	scoreHashMove     = 29000
	scoreWinCapture   = 20000
	scorePromotion    = 18000
	scoreKiller       = 16000
	scoreEqualCapture = 14000
	scoreLoseCapture  = -20000
)

// mvvLva breaks ties inside a capture band: most valuable victim
// first, least valuable attacker first among equal victims.
var mvvLva [7][7]int

func init() {
	for victim := tm.Pawn; victim <= tm.Queen; victim++ {
		for attacker := tm.Pawn; attacker <= tm.King; attacker++ {
			mvvLva[victim][attacker] = 8*int(victim) + int(tm.King) - int(attacker)
		}
	}
}

// moveList pairs generated moves with ordering scores and hands them
// out best-first via incremental selection, so sorting work is only
// spent on moves the search actually visits.
type moveList struct {
	moves  []tm.Move
	scores [tm.MaxMoves]int
	n      int
}

func (ml *moveList) len() int { return ml.n }

// next swaps the best remaining move into slot i and returns it.
func (ml *moveList) next(i int) tm.Move {
	best := i
	for j := i + 1; j < ml.n; j++ {
		if ml.scores[j] > ml.scores[best] {
			best = j
		}
	}
	ml.moves[i], ml.moves[best] = ml.moves[best], ml.moves[i]
	ml.scores[i], ml.scores[best] = ml.scores[best], ml.scores[i]
	return ml.moves[i]
}

// scoreMoves ranks a full move list for the main search: principal
// variation move, then the hash move, winning captures, promotions,
// killers, even trades, history-ranked quiets and finally captures
// that lose material.
func (s *Search) scoreMoves(p *tm.Position, moves []tm.Move, ply int, pvMove, hashMove tm.Move) *moveList {
	ml := &moveList{moves: moves, n: len(moves)}
	side := p.SideToMove()
	for i, m := range moves {
		switch {
		case m == pvMove:
			ml.scores[i] = scorePV
		case m == hashMove:
			ml.scores[i] = scoreHashMove
		case m.IsCapture():
			see := SEE(p, m)
			switch {
			case see > 0:
				ml.scores[i] = scoreWinCapture + see + mvvLva[m.Captured().Type()][m.Moved().Type()]
			case see == 0:
				ml.scores[i] = scoreEqualCapture + mvvLva[m.Captured().Type()][m.Moved().Type()]
			default:
				ml.scores[i] = scoreLoseCapture + see
			}
		case m.Promotion() != tm.NoPiece:
			ml.scores[i] = scorePromotion + seeValue[m.Promotion().Type()]
		case s.killers.isKiller(ply, m):
			ml.scores[i] = scoreKiller
			if s.killers[ply][0] == m {
				ml.scores[i]++
			}
		default:
			ml.scores[i] = s.history.get(side, m)
		}
	}
	return ml
}

// scoreCaptures ranks captures for quiescence by exchange outcome.
func (s *Search) scoreCaptures(p *tm.Position, moves []tm.Move) *moveList {
	ml := &moveList{moves: moves, n: len(moves)}
	for i, m := range moves {
		if m.Promotion() != tm.NoPiece {
			ml.scores[i] = scorePromotion + seeValue[m.Promotion().Type()]
			continue
		}
		ml.scores[i] = SEE(p, m)*16 + mvvLva[m.Captured().Type()][m.Moved().Type()]
	}
	return ml
}
