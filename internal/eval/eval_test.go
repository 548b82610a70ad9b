package eval

import (
	"testing"

	"github.com/kestrelchess/kestrel/internal/chess"
	"github.com/kestrelchess/kestrel/internal/pawntt"
)

func TestEvaluateInsufficientMaterialIsZero(t *testing.T) {
	pos, err := chess.ParseFEN("8/8/4k3/8/8/3K4/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := Evaluate(pos, nil); got != 0 {
		t.Errorf("Evaluate(K v K) = %d, want 0", got)
	}
}

func TestEvaluateStartingPositionIsSymmetric(t *testing.T) {
	pos := chess.NewPosition()
	if got := Evaluate(pos, nil); got != TempoBonus {
		t.Errorf("Evaluate(startpos) = %d, want the tempo bonus %d", got, TempoBonus)
	}
}

func TestEvaluateMaterialAdvantageFavorsWhite(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/8/8/8/8/RNB1K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := Evaluate(pos, nil); got <= 0 {
		t.Errorf("Evaluate() = %d, want a positive score for white's material edge", got)
	}
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	whiteToMove, err := chess.ParseFEN("4k3/8/8/8/8/8/8/RNB1K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	blackToMove, err := chess.ParseFEN("4k3/8/8/8/8/8/8/RNB1K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	w := Evaluate(whiteToMove, nil)
	b := Evaluate(blackToMove, nil)
	if w <= 0 || b >= 0 {
		t.Errorf("expected opposite-signed scores for the same material imbalance from each side's perspective, got w=%d b=%d", w, b)
	}
}

func TestEvaluateUsesPawnTableCache(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/pp6/8/8/8/8/PP6/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	table := pawntt.New(1)

	first := Evaluate(pos, table)

	if _, _, found := table.Probe(pos.PawnKey); !found {
		t.Fatalf("expected Evaluate to populate the pawn hash table")
	}

	second := Evaluate(pos, table)
	if first != second {
		t.Errorf("expected a cached pawn-structure evaluation to match the first computation, got %d then %d", first, second)
	}
}

func TestComputePawnStructureDetectsDoubledPawns(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/8/8/8/P1P1P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos2, err := chess.ParseFEN("4k3/8/8/8/8/4P3/P1P1P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	mid1, _ := computePawnStructure(pos)
	mid2, _ := computePawnStructure(pos2)

	if mid2 >= mid1 {
		t.Errorf("expected doubling the e-pawn to reduce white's pawn-structure score: got mid1=%d mid2=%d", mid1, mid2)
	}
}

func TestIsPassedRecognizesClearFile(t *testing.T) {
	enemyPawns := chess.Bitboard(0)
	if !isPassed(chess.E4, chess.White, enemyPawns) {
		t.Errorf("expected a pawn with no enemy pawns on the board to be passed")
	}
}

func TestIsPassedBlockedByAdjacentFile(t *testing.T) {
	enemyPawns := chess.SquareBB(chess.F6)
	if isPassed(chess.E4, chess.White, enemyPawns) {
		t.Errorf("expected an enemy pawn on an adjacent file ahead to stop the pawn being passed")
	}
}

func TestTempoBonusForSign(t *testing.T) {
	white := chess.NewPosition()
	if got := TempoBonusFor(white); got != TempoBonus {
		t.Errorf("TempoBonusFor(white to move) = %d, want %d", got, TempoBonus)
	}

	black, err := chess.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := TempoBonusFor(black); got != -TempoBonus {
		t.Errorf("TempoBonusFor(black to move) = %d, want %d", got, -TempoBonus)
	}
}
