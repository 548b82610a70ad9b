package movegen

import (
	"github.com/kestrelchess/kestrel/internal/chess"
	"github.com/kestrelchess/kestrel/internal/history"
)

// Stage is the on-demand generator's state machine position.
type Stage int

const (
	StageNew Stage = iota
	StagePV
	StageOD1 // pawn non-quiet: captures, en passant, Q/N promotions
	StageOD2 // piece non-quiet: knight/bishop/rook/queen captures
	StageOD3 // king non-quiet: king captures
	StageOD4 // pawn quiet: pushes, R/B under-promotions
	StageOD5 // castling
	StageOD6 // piece quiet: knight/bishop/rook/queen quiet moves
	StageOD7 // king quiet
	StageOD8 // reserved, currently unused; falls straight through
	StageDone
)

const (
	sortKiller1      = 1001
	sortKiller2      = 1000
	sortCounterBonus = 500
	sortCaptureBase  = 2000
	sortQuietBase    = -2000
	sortPromoQueen   = 5000
	sortPromoKnight  = 1500
	sortPromoMinor   = -5000
)

// Generator drives staged, ordered, one-move-at-a-time iteration over a
// position's pseudo-legal moves: a PV move first, then seven bitboard-scan
// stages in the order pawn/piece/king non-quiet, pawn quiet, castling, piece
// quiet, king quiet, each batch-sorted by descending ordering value as it is
// produced. Re-pinning to a new position (detected by a changed Zobrist key)
// resets the whole state machine.
type Generator struct {
	pos     *chess.Position
	zobrist uint64
	stage   Stage

	buffer    []chess.MoveWithValue
	takeIndex int

	pv       chess.Move
	pvPushed bool
	killers  [2]chess.Move
	hist     *history.Tables

	lastMove  chess.Move
	lastPiece chess.Piece
}

// NewGenerator creates an idle staged generator; it pins to a position on
// the first NextPseudoLegal call.
func NewGenerator() *Generator {
	return &Generator{stage: StageNew}
}

// SetPV designates m as the move to try first, subject to mode compatibility.
func (g *Generator) SetPV(m chess.Move) { g.pv = m }

// StoreKiller records m in the two-slot killer ring, promoting slot 0 to
// slot 1 unless m is already the primary killer. A NONE move is a no-op.
func (g *Generator) StoreKiller(m chess.Move) {
	if m == chess.NoMove || g.killers[0] == m {
		return
	}
	g.killers[1] = g.killers[0]
	g.killers[0] = m
}

// SetHistoryData attaches the externally-owned history/counter-move tables
// consulted while ordering quiet moves.
func (g *Generator) SetHistoryData(ref *history.Tables) { g.hist = ref }

// SetLastMove records the opponent's last move and the piece that made it,
// for counter-move lookups during ordering.
func (g *Generator) SetLastMove(m chess.Move, piece chess.Piece) {
	g.lastMove = m
	g.lastPiece = piece
}

func (g *Generator) reset(p *chess.Position) {
	g.pos = p
	g.zobrist = p.Hash
	g.stage = StagePV
	g.buffer = g.buffer[:0]
	g.takeIndex = 0
	g.pvPushed = false
}

func pvModeCompatible(p *chess.Position, m chess.Move, mode Mode) bool {
	if mode == All {
		return true
	}
	isCapture := m.IsCapture(p) || m.IsEnPassant()
	if mode == NonQuiet {
		return isCapture || m.IsPromotion()
	}
	return !isCapture && !m.IsPromotion()
}

// NextPseudoLegal returns the next pseudo-legal move of the requested mode
// in ordering order, or chess.NoMove once the generator is exhausted. Not
// filtered for legality: callers apply IsLegal, the same as bulk generation.
func (g *Generator) NextPseudoLegal(p *chess.Position, mode Mode, inCheck bool) chess.Move {
	if g.pos == nil || p.Hash != g.zobrist {
		g.reset(p)
	}

	for {
		if g.takeIndex < len(g.buffer) {
			mv := g.buffer[g.takeIndex]
			g.takeIndex++
			m := chess.MoveOf(mv)
			if g.pvPushed && m == g.pv {
				continue
			}
			return m
		}

		switch g.stage {
		case StagePV:
			g.stage = StageOD1
			if g.pv != chess.NoMove && pvModeCompatible(p, g.pv, mode) {
				g.pvPushed = true
				return g.pv
			}

		case StageOD1:
			g.stage = StageOD2
			if mode != Quiet {
				g.fillStage(p, inCheck, stagePawnNonQuiet)
			}

		case StageOD2:
			g.stage = StageOD3
			if mode != Quiet {
				g.fillStage(p, inCheck, stagePieceNonQuiet)
			}

		case StageOD3:
			g.stage = StageOD4
			if mode != Quiet {
				g.fillStage(p, inCheck, stageKingNonQuiet)
			}

		case StageOD4:
			g.stage = StageOD5
			if mode != NonQuiet {
				g.fillStage(p, inCheck, stagePawnQuiet)
			}

		case StageOD5:
			g.stage = StageOD6
			if mode != NonQuiet && !inCheck {
				g.fillStage(p, inCheck, stageCastling)
			}

		case StageOD6:
			g.stage = StageOD7
			if mode != NonQuiet {
				g.fillStage(p, inCheck, stagePieceQuiet)
			}

		case StageOD7:
			g.stage = StageOD8
			if mode != NonQuiet {
				g.fillStage(p, inCheck, stageKingQuiet)
			}

		case StageOD8:
			g.stage = StageDone

		case StageDone:
			return chess.NoMove
		}
	}
}

// fillStage generates one stage's moves, assigns each an ordering value and
// sorts the batch, descending, by insertion-stable order.
func (g *Generator) fillStage(p *chess.Position, inCheck bool, gen func(p *chess.Position, inCheck bool, ml *chess.MoveList)) {
	ml := chess.NewMoveList()
	gen(p, inCheck, ml)

	g.buffer = g.buffer[:0]
	g.takeIndex = 0
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		g.buffer = append(g.buffer, chess.NewMoveWithValue(m, g.sortValue(p, m)))
	}
	stableSortDescending(g.buffer)
}

func stableSortDescending(buf []chess.MoveWithValue) {
	for i := 1; i < len(buf); i++ {
		v := buf[i]
		val := chess.ValueOf(v)
		j := i - 1
		for j >= 0 && chess.ValueOf(buf[j]) < val {
			buf[j+1] = buf[j]
			j--
		}
		buf[j+1] = v
	}
}

// sortValue implements the ordering policy: captures by MVV-LVA plus PSQT,
// quiet moves by PSQT plus history/counter-move bonus, promotions stratified
// by piece, castling in between captures and quiets, killers boosted above
// ordinary quiets.
func (g *Generator) sortValue(p *chess.Position, m chess.Move) int16 {
	if m == g.pv {
		return 32767
	}

	us := p.SideToMove
	mover := p.PieceAt(m.From())
	pt := mover.Type()

	if m.IsCastling() {
		return 0
	}

	isCapture := m.IsCapture(p)

	if m.IsPromotion() {
		psq := psqBlend(p, pt, us, m.To())
		base := sortQuietBase
		if isCapture {
			base = sortCaptureBase
		}
		switch m.Promotion() {
		case chess.Queen:
			return int16(base + sortPromoQueen + psq)
		case chess.Knight:
			return int16(base + sortPromoKnight + psq)
		default:
			return int16(base + sortPromoMinor + psq)
		}
	}

	if isCapture {
		victimValue := chess.PieceValue[chess.Pawn]
		if !m.IsEnPassant() {
			victimValue = chess.PieceValue[p.PieceAt(m.To()).Type()]
		}
		attackerValue := chess.PieceValue[pt]
		psq := psqBlend(p, pt, us, m.To())
		return int16(clampValue(sortCaptureBase + victimValue - attackerValue + psq))
	}

	psq := psqBlend(p, pt, us, m.To())
	value := sortQuietBase + psq

	if g.killers[0] == m {
		value += sortKiller1
	} else if g.killers[1] == m {
		value += sortKiller2
	}

	if g.hist != nil {
		bonus := g.hist.HistoryScore(m) / 100
		if g.lastMove != chess.NoMove && g.hist.CounterMove(g.lastMove, g.lastPiece) == m {
			bonus += sortCounterBonus
		}
		if bonus > 0 {
			value += bonus
		}
	}

	return int16(clampValue(value))
}

func clampValue(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

func psqBlend(p *chess.Position, pt chess.PieceType, c chess.Color, sq chess.Square) int {
	phase := p.GamePhase()
	mid := chess.PSQMid(pt, c, sq)
	end := chess.PSQEnd(pt, c, sq)
	return (mid*phase + end*(chess.MaxGamePhase-phase)) / chess.MaxGamePhase
}

// evasionTargets returns the squares a non-king move must land on while the
// side to move is in check: the checker's square, plus (for a single sliding
// checker) the squares between it and the king. A double check leaves no
// legal non-king move, reported via kingOnly.
func evasionTargets(p *chess.Position) (targets chess.Bitboard, kingOnly bool) {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	attackers := p.AttacksToByColor(ksq, them, p.AllOccupied)

	if attackers.PopCount() > 1 {
		return 0, true
	}
	if attackers == 0 {
		return ^chess.Bitboard(0), false
	}

	targets = attackers
	attackerSq := attackers.LSB()
	if p.PieceAt(attackerSq).Type().IsSliding() {
		targets |= chess.Between(attackerSq, ksq)
	}
	return targets, false
}

func stagePawnNonQuiet(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	restrict, kingOnly := restrictionFor(p, inCheck)
	if kingOnly {
		return
	}

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

	nonPromoL := attackL & ^promotionRank & restrict
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR & ^promotionRank & restrict
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-pushDir-1), to))
	}

	// Capturing promotions are non-quiet regardless of promotion piece: the
	// quiet pawn stage's "under-promotions R, B" carve-out (spec.md §4.3)
	// applies to non-capturing push-promotions only.
	promoL := attackL & promotionRank & restrict
	for promoL != 0 {
		to := promoL.PopLSB()
		from := chess.Square(int(to) - pushDir + 1)
		addPromotions(ml, from, to)
	}
	promoR := attackR & promotionRank & restrict
	for promoR != 0 {
		to := promoR.PopLSB()
		from := chess.Square(int(to) - pushDir - 1)
		addPromotions(ml, from, to)
	}
	push1QN := push1 & restrict
	for push1QN != 0 {
		to := push1QN.PopLSB()
		from := chess.Square(int(to) - pushDir)
		ml.Add(chess.NewPromotion(from, to, chess.Queen))
		ml.Add(chess.NewPromotion(from, to, chess.Knight))
	}

	if p.EnPassant != chess.NoSquare {
		capturedSq := p.EnPassant - chess.Square(pushDir)
		if restrict.IsSet(p.EnPassant) || restrict.IsSet(capturedSq) {
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
	}
}

func stagePieceNonQuiet(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	restrict, kingOnly := restrictionFor(p, inCheck)
	if kingOnly {
		return
	}

	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them] & restrict

	for _, pt := range [...]chess.PieceType{chess.Knight, chess.Bishop, chess.Rook, chess.Queen} {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks chess.Bitboard
			switch pt {
			case chess.Knight:
				attacks = chess.KnightAttacks(from)
			case chess.Bishop:
				attacks = chess.BishopAttacks(from, occupied)
			case chess.Rook:
				attacks = chess.RookAttacks(from, occupied)
			case chess.Queen:
				attacks = chess.QueenAttacks(from, occupied)
			}
			attacks &= enemies
			for attacks != 0 {
				ml.Add(chess.NewMove(from, attacks.PopLSB()))
			}
		}
	}
}

func stageKingNonQuiet(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	us := p.SideToMove
	them := us.Other()
	from := p.KingSquare[us]
	attacks := chess.KingAttacks(from) & p.Occupied[them]
	for attacks != 0 {
		ml.Add(chess.NewMove(from, attacks.PopLSB()))
	}
}

func stagePawnQuiet(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	restrict, kingOnly := restrictionFor(p, inCheck)
	if kingOnly {
		return
	}

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

	nonPromo := push1 & ^promotionRank & restrict
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-pushDir), to))
	}
	push2 &= restrict
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(chess.NewMove(chess.Square(int(to)-2*pushDir), to))
	}

	underPromo := push1 & promotionRank & restrict
	for underPromo != 0 {
		to := underPromo.PopLSB()
		from := chess.Square(int(to) - pushDir)
		ml.Add(chess.NewPromotion(from, to, chess.Rook))
		ml.Add(chess.NewPromotion(from, to, chess.Bishop))
	}
}

func stageCastling(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	generateCastling(p, ml, p.SideToMove)
}

func stagePieceQuiet(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	restrict, kingOnly := restrictionFor(p, inCheck)
	if kingOnly {
		return
	}

	us := p.SideToMove
	occupied := p.AllOccupied
	empty := ^occupied & restrict

	for _, pt := range [...]chess.PieceType{chess.Knight, chess.Bishop, chess.Rook, chess.Queen} {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks chess.Bitboard
			switch pt {
			case chess.Knight:
				attacks = chess.KnightAttacks(from)
			case chess.Bishop:
				attacks = chess.BishopAttacks(from, occupied)
			case chess.Rook:
				attacks = chess.RookAttacks(from, occupied)
			case chess.Queen:
				attacks = chess.QueenAttacks(from, occupied)
			}
			attacks &= empty
			for attacks != 0 {
				ml.Add(chess.NewMove(from, attacks.PopLSB()))
			}
		}
	}
}

func stageKingQuiet(p *chess.Position, inCheck bool, ml *chess.MoveList) {
	us := p.SideToMove
	them := us.Other()
	from := p.KingSquare[us]
	attacks := chess.KingAttacks(from) & ^p.AllOccupied

	for attacks != 0 {
		to := attacks.PopLSB()
		if inCheck && p.IsSquareAttacked(to, them) {
			continue
		}
		ml.Add(chess.NewMove(from, to))
	}
}

func restrictionFor(p *chess.Position, inCheck bool) (chess.Bitboard, bool) {
	if !inCheck {
		return ^chess.Bitboard(0), false
	}
	return evasionTargets(p)
}
