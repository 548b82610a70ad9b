// Package movegen generates pseudo-legal and legal moves for a chess
// position, in bulk (all quiets, all non-quiets, or everything) and staged
// via an on-demand generator that interleaves with move ordering.
package movegen

import "github.com/kestrelchess/kestrel/internal/chess"

// Mode selects which subset of moves a bulk generation call produces.
type Mode int

const (
	// Quiet generates only non-capturing, non-promoting moves.
	Quiet Mode = iota
	// NonQuiet generates captures, en passant and promotions.
	NonQuiet
	// All generates every pseudo-legal move.
	All
)

// Generate produces pseudo-legal moves of the requested mode into ml.
func Generate(p *chess.Position, mode Mode, ml *chess.MoveList) {
	switch mode {
	case Quiet:
		generateQuiets(p, ml)
	case NonQuiet:
		generateNonQuiets(p, ml)
	default:
		generateNonQuiets(p, ml)
		generateQuiets(p, ml)
	}
}

// GenerateLegal produces every legal move in the position.
func GenerateLegal(p *chess.Position) *chess.MoveList {
	pseudo := chess.NewMoveList()
	Generate(p, All, pseudo)
	return filterLegal(p, pseudo)
}

// GeneratePseudoLegal produces every pseudo-legal move, without check
// filtering.
func GeneratePseudoLegal(p *chess.Position) *chess.MoveList {
	ml := chess.NewMoveList()
	Generate(p, All, ml)
	return ml
}

// GenerateLegalCaptures produces every legal capturing/promoting move.
func GenerateLegalCaptures(p *chess.Position) *chess.MoveList {
	ml := chess.NewMoveList()
	Generate(p, NonQuiet, ml)
	return filterLegal(p, ml)
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, short-circuiting as soon as one is found rather than building the
// full list (used for checkmate/stalemate detection).
func HasLegalMoves(p *chess.Position) bool {
	pseudo := chess.NewMoveList()
	Generate(p, All, pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		if IsLegal(p, pseudo.Get(i)) {
			return true
		}
	}
	return false
}

func filterLegal(p *chess.Position, ml *chess.MoveList) *chess.MoveList {
	result := chess.NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if IsLegal(p, m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal reports whether m, already known pseudo-legal, leaves the mover's
// own king safe. King moves (including castling, already validated during
// generation against transit-square attacks) are checked directly against
// the destination square; everything else is verified by playing the move
// on the real position and inspecting the resulting king safety, then
// undoing it.
func IsLegal(p *chess.Position, m chess.Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if from == ksq {
		if m.IsCastling() {
			return true
		}
		occ := p.AllOccupied &^ chess.SquareBB(from)
		return p.AttacksToByColor(m.To(), them, occ) == 0
	}

	undo := p.MakeMove(m)
	if !undo.Valid {
		return false
	}
	attacked := p.IsSquareAttacked(ksq, them)
	p.UnmakeMove(m, undo)
	return !attacked
}

func addPromotions(ml *chess.MoveList, from, to chess.Square) {
	ml.Add(chess.NewPromotion(from, to, chess.Queen))
	ml.Add(chess.NewPromotion(from, to, chess.Knight))
	ml.Add(chess.NewPromotion(from, to, chess.Rook))
	ml.Add(chess.NewPromotion(from, to, chess.Bishop))
}

func generateQuiets(p *chess.Position, ml *chess.MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	empty := ^occupied

	pawns := p.Pieces[us][chess.Pawn]
	var push1, push2 chess.Bitboard
	var promotionRank chess.Bitboard
	var pushDir int
	if us == chess.White {
		push1 = pawns.North() & empty
		push2 = (push1 & chess.Rank3).North() & empty
		promotionRank = chess.Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & chess.Rank6).South() & empty
		promotionRank = chess.Rank1
		pushDir = -8
	}

	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-pushDir), to))
	}
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-2*pushDir), to))
	}

	knights := p.Pieces[us][chess.Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := chess.KnightAttacks(from) & empty
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	bishops := p.Pieces[us][chess.Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := chess.BishopAttacks(from, occupied) & empty
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	rooks := p.Pieces[us][chess.Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := chess.RookAttacks(from, occupied) & empty
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	queens := p.Pieces[us][chess.Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := chess.QueenAttacks(from, occupied) & empty
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	from := p.KingSquare[us]
	attacks := chess.KingAttacks(from) & empty
	for attacks != 0 {
		ml.Add(chess.NewMove(from, attacks.PopLSB()))
	}

	generateCastling(p, ml, us)
}

func generateCastling(p *chess.Position, ml *chess.MoveList, us chess.Color) {
	them := us.Other()

	if us == chess.White {
		if p.CastlingRights&chess.WhiteKingSideCastle != 0 &&
			p.AllOccupied&(chess.SquareBB(chess.F1)|chess.SquareBB(chess.G1)) == 0 &&
			!p.IsSquareAttacked(chess.E1, them) && !p.IsSquareAttacked(chess.F1, them) && !p.IsSquareAttacked(chess.G1, them) {
			ml.Add(chess.NewCastling(chess.E1, chess.G1))
		}
		if p.CastlingRights&chess.WhiteQueenSideCastle != 0 &&
			p.AllOccupied&(chess.SquareBB(chess.B1)|chess.SquareBB(chess.C1)|chess.SquareBB(chess.D1)) == 0 &&
			!p.IsSquareAttacked(chess.E1, them) && !p.IsSquareAttacked(chess.D1, them) && !p.IsSquareAttacked(chess.C1, them) {
			ml.Add(chess.NewCastling(chess.E1, chess.C1))
		}
		return
	}

	if p.CastlingRights&chess.BlackKingSideCastle != 0 &&
		p.AllOccupied&(chess.SquareBB(chess.F8)|chess.SquareBB(chess.G8)) == 0 &&
		!p.IsSquareAttacked(chess.E8, them) && !p.IsSquareAttacked(chess.F8, them) && !p.IsSquareAttacked(chess.G8, them) {
		ml.Add(chess.NewCastling(chess.E8, chess.G8))
	}
	if p.CastlingRights&chess.BlackQueenSideCastle != 0 &&
		p.AllOccupied&(chess.SquareBB(chess.B8)|chess.SquareBB(chess.C8)|chess.SquareBB(chess.D8)) == 0 &&
		!p.IsSquareAttacked(chess.E8, them) && !p.IsSquareAttacked(chess.D8, them) && !p.IsSquareAttacked(chess.C8, them) {
		ml.Add(chess.NewCastling(chess.E8, chess.C8))
	}
}

func generateNonQuiets(p *chess.Position, ml *chess.MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	pawns := p.Pieces[us][chess.Pawn]
	var attackL, attackR, push1 chess.Bitboard
	var promotionRank chess.Bitboard
	var pushDir int
	if us == chess.White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		push1 = pawns.North() & ^occupied & chess.Rank8
		promotionRank = chess.Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		push1 = pawns.South() & ^occupied & chess.Rank1
		promotionRank = chess.Rank1
		pushDir = -8
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-pushDir-1), to))
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, chess.Square(int(to)-pushDir+1), to)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, chess.Square(int(to)-pushDir-1), to)
	}
	for push1 != 0 {
		to := push1.PopLSB()
		addPromotions(ml, chess.Square(int(to)-pushDir), to)
	}

	if p.EnPassant != chess.NoSquare {
		epBB := chess.SquareBB(p.EnPassant)
		var epAttackers chess.Bitboard
		if us == chess.White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			ml.Add(chess.NewEnPassant(epAttackers.PopLSB(), p.EnPassant))
		}
	}

	knights := p.Pieces[us][chess.Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := chess.KnightAttacks(from) & enemies
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	bishops := p.Pieces[us][chess.Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := chess.BishopAttacks(from, occupied) & enemies
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	rooks := p.Pieces[us][chess.Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := chess.RookAttacks(from, occupied) & enemies
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	queens := p.Pieces[us][chess.Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := chess.QueenAttacks(from, occupied) & enemies
		for attacks != 0 {
			ml.Add(chess.NewMove(from, attacks.PopLSB()))
		}
	}

	from := p.KingSquare[us]
	attacks := chess.KingAttacks(from) & enemies
	for attacks != 0 {
		ml.Add(chess.NewMove(from, attacks.PopLSB()))
	}
}
