package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/muesli/termenv"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/shell"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	fen        = flag.String("fen", board.StartFEN, "starting position")
	perftDepth = flag.Int("perft", 0, "count leaf nodes to this depth and exit")
	divide     = flag.Int("divide", 0, "print per-move node counts to this depth and exit")
	verify     = flag.Int("verify", 0, "compare a divide against the reference generator and exit")
	hashMB     = flag.Int("hash", 16, "in-memory perft table size in MB, 0 to disable")
	threads    = flag.Int("threads", 1, "goroutines for perft and divide")
	useCache   = flag.Bool("cache", false, "store perft results in the on-disk cache")
	cacheDir   = flag.String("cachedir", "", "cache directory (default: platform data directory)")
	color      = flag.String("color", "auto", "board colours: auto, always or never")
	debug      = flag.Bool("debug", false, "validate the position after every move")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	board.DebugMoveValidation = *debug

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := run(); err != nil {
		log.Printf("chesscore: %v", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run() error {
	out, err := output(*color)
	if err != nil {
		return err
	}

	opts := []shell.Option{
		shell.WithRenderer(shell.NewRenderer(out)),
		shell.WithThreads(*threads),
	}

	var cache perft.Cache
	if *hashMB > 0 {
		cache = perft.NewTable(*hashMB)
	}
	if *useCache {
		store, err := storage.NewStorage(*cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
		if cache != nil {
			cache = perft.Tiered{Fast: cache, Slow: store}
		} else {
			cache = store
		}
		log.Printf("perft cache enabled")
	}
	if cache != nil {
		opts = append(opts, shell.WithCache(cache))
	}

	sh := shell.New(os.Stdout, opts...)
	if *fen != board.StartFEN {
		if err := sh.Position().InitFromFEN(*fen, false); err != nil {
			return err
		}
	}

	// One-shot modes run a single shell command.
	switch {
	case *perftDepth > 0:
		sh.Execute(fmt.Sprintf("perft %d", *perftDepth))
	case *divide > 0:
		sh.Execute(fmt.Sprintf("divide %d", *divide))
	case *verify > 0:
		sh.Execute(fmt.Sprintf("verify %d", *verify))
	default:
		return sh.Run(os.Stdin)
	}
	return nil
}

// output returns a terminal output for stdout with the requested colour mode.
func output(mode string) (*termenv.Output, error) {
	switch mode {
	case "auto":
		return termenv.NewOutput(os.Stdout), nil
	case "always":
		return termenv.NewOutput(os.Stdout, termenv.WithProfile(termenv.ANSI256)), nil
	case "never":
		return termenv.NewOutput(os.Stdout, termenv.WithProfile(termenv.Ascii)), nil
	default:
		return nil, fmt.Errorf("unknown -color mode %q", mode)
	}
}
