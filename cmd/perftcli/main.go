// Command perftcli runs perft (performance test, move-count enumeration)
// over a FEN position, optionally divided per root move, and reports
// transposition table fill statistics for a scratch TT sized alongside it.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/kestrelchess/kestrel/internal/chess"
	"github.com/kestrelchess/kestrel/internal/movegen"
	"github.com/kestrelchess/kestrel/internal/tt"
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "FEN of the position to search from")
	depth := flag.Int("depth", 5, "perft depth")
	divide := flag.Bool("divide", false, "print per-root-move node counts")
	ttSizeMB := flag.Int("tt", 16, "scratch transposition table size in MB, for store/probe exercise")
	ttLoadDir := flag.String("tt-load", "", "badger directory to preload the scratch TT from, if any")
	ttSaveDir := flag.String("tt-save", "", "badger directory to snapshot the scratch TT into after the run, if any")
	flag.Parse()

	log.SetFlags(0)

	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("invalid FEN %q: %v", *fen, err)
	}

	table := tt.New(*ttSizeMB)

	if *ttLoadDir != "" {
		if err := table.LoadFromDisk(*ttLoadDir); err != nil {
			log.Fatalf("loading tt snapshot from %q: %v", *ttLoadDir, err)
		}
		log.Printf("tt: loaded snapshot from %q", *ttLoadDir)
	}

	if *divide {
		total := runDivide(pos, *depth, table)
		log.Printf("total: %d nodes", total)
	} else {
		nodes := perft(pos, *depth, table)
		log.Printf("perft(%d) from %q: %d nodes", *depth, *fen, nodes)
	}

	log.Printf("tt: %d permille full", table.HashFullPermill())

	if *ttSaveDir != "" {
		if err := table.SaveToDisk(*ttSaveDir); err != nil {
			log.Fatalf("saving tt snapshot to %q: %v", *ttSaveDir, err)
		}
		log.Printf("tt: saved snapshot to %q", *ttSaveDir)
	}

	os.Exit(0)
}

func runDivide(pos *chess.Position, depth int, table *tt.Table) int64 {
	moves := movegen.GenerateLegal(pos)
	var total int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes := perft(pos, depth-1, table)
		pos.UnmakeMove(m, undo)
		log.Printf("%s: %d", m.String(), nodes)
		total += nodes
	}
	return total
}

// perft counts leaf nodes reachable in exactly depth plies. It also probes
// and stores a marker entry per visited position, exercising the
// transposition table's put/probe path under load; node counts routinely
// exceed the table's 16-bit value field, so the cached entry is never used
// as the source of truth for the count itself, only as traffic.
func perft(p *chess.Position, depth int, table *tt.Table) int64 {
	if depth == 0 {
		return 1
	}

	table.Probe(p.Hash)

	moves := movegen.GenerateLegal(p)
	if depth == 1 {
		n := int64(moves.Len())
		table.Put(p.Hash, uint8(depth), chess.NoMove, clampInt16(n), tt.Exact, tt.ValueNone, false)
		return n
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1, table)
		p.UnmakeMove(m, undo)
	}

	table.Put(p.Hash, uint8(depth), chess.NoMove, clampInt16(nodes), tt.Exact, tt.ValueNone, false)
	return nodes
}

func clampInt16(n int64) int16 {
	if n > 32767 {
		return 32767
	}
	if n < -32768 {
		return -32768
	}
	return int16(n)
}
