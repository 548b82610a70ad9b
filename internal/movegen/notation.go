package movegen

import (
	"strings"

	"github.com/kestrelchess/kestrel/internal/chess"
)

// ToSAN converts a move to Standard Algebraic Notation. legalMoves must be
// the full legal move list for pos, used for disambiguation and for
// distinguishing checkmate from ordinary check.
func ToSAN(m chess.Move, pos *chess.Position, legalMoves *chess.MoveList) string {
	if m == chess.NoMove {
		return "-"
	}

	if m.IsCastling() {
		if m.To() > m.From() {
			return "O-O"
		}
		return "O-O-O"
	}

	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)
	if piece == chess.NoPiece {
		return m.String()
	}
	pt := piece.Type()

	var sb strings.Builder

	if pt != chess.Pawn {
		sb.WriteByte(pieceLetter(pt))
		sb.WriteString(disambiguate(pos, legalMoves, m, pt))
	}

	isCapture := m.IsCapture(pos)
	if isCapture {
		if pt == chess.Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(pieceLetter(m.Promotion()))
	}

	scratch := pos.Copy()
	scratch.MakeMove(m)
	if scratch.InCheck() {
		if HasLegalMoves(scratch) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

func pieceLetter(pt chess.PieceType) byte {
	switch pt {
	case chess.King:
		return 'K'
	case chess.Knight:
		return 'N'
	case chess.Bishop:
		return 'B'
	case chess.Rook:
		return 'R'
	case chess.Queen:
		return 'Q'
	default:
		return '?'
	}
}

func disambiguate(pos *chess.Position, legalMoves *chess.MoveList, m chess.Move, pt chess.PieceType) string {
	from := m.From()
	to := m.To()
	pieces := pos.Pieces[pos.SideToMove][pt]

	var candidates []chess.Square
	for i := 0; i < legalMoves.Len(); i++ {
		mv := legalMoves.Get(i)
		if mv.To() != to || mv.From() == from {
			continue
		}
		if pieces.IsSet(mv.From()) {
			candidates = append(candidates, mv.From())
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}
	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// GetMoveFromUCI parses a UCI move string (e.g. "e2e4", "e7e8q") against
// pos's legal moves, returning chess.NoMove if it does not match exactly one
// of them.
func GetMoveFromUCI(s string, pos *chess.Position, legalMoves *chess.MoveList) chess.Move {
	s = strings.TrimSpace(s)
	if len(s) < 4 || len(s) > 5 {
		return chess.NoMove
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' || s[2] < 'a' || s[2] > 'h' || s[3] < '1' || s[3] > '8' {
		return chess.NoMove
	}

	m, err := chess.ParseMove(s, pos)
	if err != nil {
		return chess.NoMove
	}
	if !ValidateMove(pos, m, legalMoves) {
		return chess.NoMove
	}
	return m
}

// ValidateMove reports whether m (compared with its sort-value bits
// stripped) appears in legalMoves.
func ValidateMove(pos *chess.Position, m chess.Move, legalMoves *chess.MoveList) bool {
	return legalMoves.Contains(m)
}

// ParseSAN parses a SAN string against pos's legal moves and returns the
// matching move, or chess.NoMove if nothing matches.
func ParseSAN(s string, pos *chess.Position, legalMoves *chess.MoveList) chess.Move {
	s = strings.TrimSpace(s)

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingFrom, kingTo := chess.E1, chess.G1
		if pos.SideToMove == chess.Black {
			kingFrom, kingTo = chess.E8, chess.G8
		}
		if len(s) == 5 {
			kingTo -= 4
		}
		m := chess.NewCastling(kingFrom, kingTo)
		if !legalMoves.Contains(m) {
			return chess.NoMove
		}
		return m
	}

	s = strings.TrimSuffix(s, "+")
	s = strings.TrimSuffix(s, "#")

	promo := chess.NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		switch s[idx+1] {
		case 'N':
			promo = chess.Knight
		case 'B':
			promo = chess.Bishop
		case 'R':
			promo = chess.Rook
		case 'Q':
			promo = chess.Queen
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := chess.Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = chess.Knight
		case 'B':
			pt = chess.Bishop
		case 'R':
			pt = chess.Rook
		case 'Q':
			pt = chess.Queen
		case 'K':
			pt = chess.King
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return chess.NoMove
	}
	dest, err := chess.ParseSquare(s[len(s)-2:])
	if err != nil {
		return chess.NoMove
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		}
	}

	for i := 0; i < legalMoves.Len(); i++ {
		m := legalMoves.Get(i)
		if m.To() != dest {
			continue
		}
		from := m.From()
		if pos.PieceAt(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		if promo != chess.NoPieceType && (!m.IsPromotion() || m.Promotion() != promo) {
			continue
		}
		return m
	}

	return chess.NoMove
}
