package see

import (
	"testing"

	"github.com/kestrelchess/kestrel/internal/chess"
)

func TestEvaluateSimpleTrade(t *testing.T) {
	// White pawn takes a bishop defended only by a knight: wins bishop
	// (330) then loses the pawn (100) back, net +230.
	pos, err := chess.ParseFEN("4k3/8/8/3b4/4P3/8/2N5/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("e4d5", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !m.IsCapture(pos) {
		t.Fatalf("expected e4d5 to be a capture")
	}
	got := Evaluate(pos, m)
	want := chess.PieceValue[chess.Bishop]
	if got != want {
		t.Errorf("Evaluate(e4xd5) = %d, want %d (bishop undefended by the knight against a pawn)", got, want)
	}
}

func TestEvaluateLosingCapture(t *testing.T) {
	// A rook captures a pawn defended by another pawn: loses the exchange.
	pos, err := chess.ParseFEN("4k3/8/2p5/3p4/8/8/3R4/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("d2d5", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	got := Evaluate(pos, m)
	if got >= 0 {
		t.Errorf("Evaluate(Rxd5) = %d, want a negative score (rook lost for a pawn)", got)
	}
}

func TestEvaluateEnPassantFlatApproximation(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("e5d6", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !m.IsEnPassant() {
		t.Fatalf("expected e5d6 to be parsed as en passant")
	}
	got := Evaluate(pos, m)
	if got != 100 {
		t.Errorf("Evaluate(en passant) = %d, want the flat +100 approximation", got)
	}
}

// The following cases are the boundary scenarios from the exchange
// evaluation section of the specification, each with a literal expected
// SEE value.

func TestEvaluateBoundaryS1(t *testing.T) {
	pos, err := chess.ParseFEN("1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("d3e5", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if got, want := Evaluate(pos, m), -220; got != want {
		t.Errorf("Evaluate(Nd3xe5) = %d, want %d", got, want)
	}
}

func TestEvaluateBoundaryS2(t *testing.T) {
	pos, err := chess.ParseFEN("1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("e1e5", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if got, want := Evaluate(pos, m), 100; got != want {
		t.Errorf("Evaluate(Re1xe5) = %d, want %d", got, want)
	}
}

func TestEvaluateBoundaryS3(t *testing.T) {
	pos, err := chess.ParseFEN("5q1k/8/8/8/RRQ2nrr/8/8/K7 w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("c4f4", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if got, want := Evaluate(pos, m), -580; got != want {
		t.Errorf("Evaluate(Qc4xf4) = %d, want %d", got, want)
	}
}

func TestEvaluateBoundaryS4(t *testing.T) {
	pos, err := chess.ParseFEN("k6q/3n1n2/3b4/4p3/3P1P2/3N1N2/8/K7 w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("d3e5", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if got, want := Evaluate(pos, m), 100; got != want {
		t.Errorf("Evaluate(Nd3xe5) = %d, want %d", got, want)
	}
}

func TestEvaluateBoundaryS5(t *testing.T) {
	pos, err := chess.ParseFEN("r3k2r/1ppn3p/2q1q1n1/4P3/2q1Pp2/6R1/pbp2PPP/1R2R1K1 b kq e3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m, err := chess.ParseMove("a2b1q", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !m.IsPromotion() {
		t.Fatalf("expected a2b1q to be parsed as a promotion")
	}
	if got, want := Evaluate(pos, m), 500; got != want {
		t.Errorf("Evaluate(a2xb1=Q) = %d, want %d", got, want)
	}
}

func TestEvaluateNonCaptureIsZero(t *testing.T) {
	pos := chess.NewPosition()
	m, err := chess.ParseMove("e2e4", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if got := Evaluate(pos, m); got != 0 {
		t.Errorf("Evaluate(quiet move) = %d, want 0", got)
	}
}
