package talonmg

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceChars = map[byte]Piece{
	'P': MakePiece(White, Pawn), 'N': MakePiece(White, Knight), 'B': MakePiece(White, Bishop),
	'R': MakePiece(White, Rook), 'Q': MakePiece(White, Queen), 'K': MakePiece(White, King),
	'p': MakePiece(Black, Pawn), 'n': MakePiece(Black, Knight), 'b': MakePiece(Black, Bishop),
	'r': MakePiece(Black, Rook), 'q': MakePiece(Black, Queen), 'k': MakePiece(Black, King),
}

func pieceChar(pc Piece) byte {
	var ch byte
	switch pc.Type() {
	case Pawn:
		ch = 'p'
	case Knight:
		ch = 'n'
	case Bishop:
		ch = 'b'
	case Rook:
		ch = 'r'
	case Queen:
		ch = 'q'
	case King:
		ch = 'k'
	}
	if pc.Color() == White {
		ch -= 'a' - 'A'
	}
	return ch
}

// ParseFEN parses the six standard FEN fields into a fresh Position.
// The halfmove clock and fullmove number may be omitted and default to
// 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid FEN: want at least 4 fields, got %d", len(fields))
	}

	p := &Position{epSquare: NoSquare, fullMove: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: want 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := pieceChars[ch]
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece character %q", ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("invalid FEN: rank %d overflows 8 files", rank+1)
			}
			p.place(SquareAt(file, rank), pc)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d covers %d files, want 8", rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		p.stm = White
	case "b":
		p.stm = Black
	default:
		return nil, fmt.Errorf("invalid FEN: side to move %q, want \"w\" or \"b\"", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castling |= CastleWhiteKing
			case 'Q':
				p.castling |= CastleWhiteQueen
			case 'k':
				p.castling |= CastleBlackKing
			case 'q':
				p.castling |= CastleBlackQueen
			default:
				return nil, fmt.Errorf("invalid FEN: castling character %q", fields[2][i])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant %w", err)
		}
		if r := RankOf(sq); r != 2 && r != 5 {
			return nil, fmt.Errorf("invalid FEN: en passant square %v not on rank 3 or 6", sq)
		}
		p.epSquare = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid FEN: halfmove clock %q", fields[4])
		}
		p.rule50 = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid FEN: fullmove number %q", fields[5])
		}
		p.fullMove = n
	}

	// place() already folded the pieces into the hash; fold in the rest
	// by recomputing, which also covers side/castling/ep.
	p.hash = p.ComputeHash()
	return p, nil
}

// MustParseFEN is ParseFEN that panics on error, for test fixtures and
// package-level setup of known-good positions.
func MustParseFEN(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// ToFEN serializes the position back into the six-field FEN form.
// ParseFEN(p.ToFEN()) reproduces p exactly.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[SquareAt(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pieceChar(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling&CastleWhiteKing != 0 {
			sb.WriteByte('K')
		}
		if p.castling&CastleWhiteQueen != 0 {
			sb.WriteByte('Q')
		}
		if p.castling&CastleBlackKing != 0 {
			sb.WriteByte('k')
		}
		if p.castling&CastleBlackQueen != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.rule50))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullMove))
	return sb.String()
}
