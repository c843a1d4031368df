// Command touchdown is the CLI dispatcher for the Touchdown tablebase
// core: generating a database, and inspecting or playing against one
// already generated. It contains no board-game logic of its own --
// everything here calls into board, position, tablebase, and solver.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/hailam/touchdown4x4/board"
	"github.com/hailam/touchdown4x4/internal/config"
	"github.com/hailam/touchdown4x4/internal/rundb"
	"github.com/hailam/touchdown4x4/internal/textfmt"
	"github.com/hailam/touchdown4x4/position"
	"github.com/hailam/touchdown4x4/solver"
	"github.com/hailam/touchdown4x4/tablebase"
	"golang.org/x/sync/errgroup"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "list-valid":
		err = runListValid(os.Args[2:])
	case "list-legal":
		err = runListLegal(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Printf("touchdown %s: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: touchdown <generate|dump|list-valid|list-legal|play> [args]")
}

// runGenerate builds the complete tablebase at the given path.
func runGenerate(args []string) error {
	cfg, err := config.ParseGenerate(args)
	if err != nil {
		return err
	}

	value, err := tablebase.Open(cfg.ValuePath, cfg.Fresh)
	if err != nil {
		return fmt.Errorf("open value tablebase: %w", err)
	}
	defer value.Close()

	known, err := tablebase.Open(cfg.KnownPath, cfg.Fresh)
	if err != nil {
		return fmt.Errorf("open known tablebase: %w", err)
	}
	defer known.Close()

	started := time.Now()
	passes := 0
	updatedTotal := 0

	solver.Solve(value, known, func(pass, updated int) {
		passes = pass
		updatedTotal += updated
	})

	log.Printf("generate: %d passes, %d indices classified, tablebase at %s", passes, updatedTotal, cfg.ValuePath)

	db, err := rundb.Open()
	if err != nil {
		log.Printf("generate: run audit unavailable: %v", err)
		return nil
	}
	defer db.Close()

	return db.Record(rundb.Run{
		ValuePath:  cfg.ValuePath,
		KnownPath:  cfg.KnownPath,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Passes:     passes,
		Updated:    updatedTotal,
	})
}

// runDump prints the board, value, and known status for a single index
// from an existing tablebase pair.
func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	knownPath := fs.String("known", config.DefaultKnownPath, "path to the known-bitmap scratch file")
	short := fs.Bool("short", false, "use the one-line short form instead of the ASCII board")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: dump [-known path] [-short] <value-path> <index>")
	}

	idx, err := parseIndex(fs.Arg(1))
	if err != nil {
		return err
	}

	value, err := tablebase.Open(fs.Arg(0), false)
	if err != nil {
		return fmt.Errorf("open value tablebase: %w", err)
	}
	defer value.Close()

	known, err := tablebase.Open(*knownPath, false)
	if err != nil {
		return fmt.Errorf("open known tablebase: %w", err)
	}
	defer known.Close()

	if !position.IsValidIndex(idx) {
		fmt.Printf("index %#06x is invalid (sentinel WIN)\n", idx)
		return nil
	}

	w := position.Decode(idx)
	if *short {
		fmt.Println(textfmt.Short(w.Occ(), w.Own()))
	} else {
		fmt.Println(textfmt.Board(w.Occ(), w.Own()))
	}

	if known.ReadBit(idx) == 0 {
		fmt.Println("value: UNKNOWN")
		return nil
	}
	if value.ReadBit(idx) != 0 {
		fmt.Println("value: WIN")
	} else {
		fmt.Println("value: LOSS")
	}
	return nil
}

// runListValid counts valid indices in [0, 2^24), fanning the scan out
// across workers with errgroup since it is a read-only, order-independent
// reduction over pure functions of the index.
func runListValid(args []string) error {
	const space = 1 << 24
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	chunk := (space + workers - 1) / workers

	counts := make([]int, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			lo := w * chunk
			hi := lo + chunk
			if hi > space {
				hi = space
			}
			n := 0
			for i := lo; i < hi; i++ {
				if position.IsValidIndex(uint32(i)) {
					n++
				}
			}
			counts[w] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	fmt.Printf("valid indices: %d\n", total)
	return nil
}

// runListLegal counts valid indices that also decode to a legal (not
// already-won) position.
func runListLegal(args []string) error {
	const space = 1 << 24
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	chunk := (space + workers - 1) / workers

	counts := make([]int, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			lo := w * chunk
			hi := lo + chunk
			if hi > space {
				hi = space
			}
			n := 0
			for i := lo; i < hi; i++ {
				idx := uint32(i)
				if !position.IsValidIndex(idx) {
					continue
				}
				pos := position.Decode(idx)
				b := board.New(pos.Occ(), pos.Own())
				if !b.IsWin() {
					n++
				}
			}
			counts[w] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	fmt.Printf("legal (non-terminal-win) indices: %d\n", total)
	return nil
}

// runPlay plays a greedy principal variation from the initial position
// using an existing tablebase: the side to move always picks a successor
// classified LOSS for the opponent when one exists.
func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	knownPath := fs.String("known", config.DefaultKnownPath, "path to the known-bitmap scratch file")
	maxPlies := fs.Int("max-plies", 64, "safety bound on printed plies")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: play [-known path] [-max-plies n] <value-path>")
	}

	value, err := tablebase.Open(fs.Arg(0), false)
	if err != nil {
		return fmt.Errorf("open value tablebase: %w", err)
	}
	defer value.Close()

	known, err := tablebase.Open(*knownPath, false)
	if err != nil {
		return fmt.Errorf("open known tablebase: %w", err)
	}
	defer known.Close()

	idx := position.Initial
	for ply := 0; ply < *maxPlies; ply++ {
		w := position.Decode(idx)
		b := board.New(w.Occ(), w.Own())

		fmt.Printf("ply %d (%s to move):\n%s\n", ply, sideLabel(ply), textfmt.Board(w.Occ(), w.Own()))

		if b.IsWin() {
			fmt.Println("side to move wins (sentinel position)")
			return nil
		}
		if b.IsLoss() {
			fmt.Println("side to move loses")
			return nil
		}

		nt, _ := b.AsNonTerminal()
		var buf [board.MaxSuccessors]uint32
		n := nt.LegalMoves(buf[:])
		if n == 0 {
			fmt.Println("side to move has no legal moves: loses")
			return nil
		}

		best := buf[0]
		bestIsLossForOpponent := false
		for k := 0; k < n; k++ {
			j := position.Encode(position.Word(buf[k]))
			if known.ReadBit(j) != 0 && value.ReadBit(j) == 0 {
				best = buf[k]
				bestIsLossForOpponent = true
				break
			}
		}
		if !bestIsLossForOpponent {
			fmt.Println("no winning continuation found in tablebase; playing first legal move")
		}

		idx = position.Encode(position.Word(best))
	}

	fmt.Println("reached max-plies without a decided outcome")
	return nil
}

func sideLabel(ply int) string {
	if ply%2 == 0 {
		return "first"
	}
	return "second"
}

func parseIndex(s string) (uint32, error) {
	var idx uint32
	if _, err := fmt.Sscanf(s, "0x%x", &idx); err == nil {
		return idx, nil
	}
	if _, err := fmt.Sscanf(s, "%d", &idx); err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	return idx, nil
}
