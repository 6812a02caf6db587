// Package shell implements a line-oriented command protocol around a
// board.Position.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
)

// Shell reads commands line by line and answers on its writer.
type Shell struct {
	position *board.Position
	out      io.Writer
	render   *Renderer
	cache    perft.Cache
	threads  int
	watcher  *watcher
}

// Option configures a Shell.
type Option func(*Shell)

// WithCache routes perft, divide and verify through c.
func WithCache(c perft.Cache) Option {
	return func(s *Shell) { s.cache = c }
}

// WithThreads spreads perft and divide over n goroutines.
func WithThreads(n int) Option {
	return func(s *Shell) { s.threads = n }
}

// WithRenderer replaces the default renderer, which styles for out.
func WithRenderer(r *Renderer) Option {
	return func(s *Shell) { s.render = r }
}

// New creates a shell on the starting position writing to out.
func New(out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		position: board.NewPosition(),
		out:      out,
	}
	s.watcher = &watcher{shell: s}
	for _, opt := range opts {
		opt(s)
	}
	if s.render == nil {
		s.render = NewRenderer(termenv.NewOutput(out))
	}
	return s
}

// Position returns the shell's position.
func (s *Shell) Position() *board.Position {
	return s.position
}

// Run executes commands from in until "quit" or end of input.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if !s.Execute(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line. It returns false after "quit".
func (s *Shell) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "position":
		if board.DebugMoveValidation {
			log.Printf("DEBUG: position %s", strings.Join(args, " "))
		}
		s.handlePosition(args)
	case "d":
		s.handleDisplay()
	case "fen":
		s.println(s.position.FEN())
	case "moves":
		s.printMoves(s.position.AllMoves())
	case "captures":
		s.printMoves(s.position.CapturingMoves())
	case "quiets":
		s.printMoves(s.position.NonCapturingMoves())
	case "recaptures":
		s.handleRecaptures(args)
	case "do":
		s.handleDo(args)
	case "undo":
		s.handleUndo(args)
	case "redo":
		s.handleRedo(args)
	case "hash":
		s.printf("%016x\n", s.position.HashCode())
	case "status":
		s.println(s.render.Status(s.position))
	case "validate":
		if err := s.position.Validate(); err != nil {
			s.errorf("%v", err)
		} else {
			s.println("ok")
		}
	case "watch":
		s.handleWatch(args)
	case "perft":
		s.handlePerft(args)
	case "divide":
		s.handleDivide(args)
	case "verify":
		s.handleVerify(args)
	case "quit":
		return false
	default:
		s.errorf("unknown command: %s", cmd)
	}
	return true
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) errorf(format string, a ...any) {
	fmt.Fprintf(s.out, "error: "+format+"\n", a...)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (s *Shell) handlePosition(args []string) {
	if len(args) == 0 {
		s.errorf("position: missing startpos or fen")
		return
	}

	moveStart := slices.Index(args, "moves")
	setup := args
	var moves []string
	if moveStart >= 0 {
		setup, moves = args[:moveStart], args[moveStart+1:]
	}
	if len(setup) == 0 {
		s.errorf("position: missing startpos or fen")
		return
	}

	var fen string
	switch setup[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(setup[1:], " ")
	default:
		s.errorf("position: expected startpos or fen, got %s", setup[0])
		return
	}

	// InitFromFEN keeps the position, and with it any registered listener,
	// unchanged on error.
	if err := s.position.InitFromFEN(fen, false); err != nil {
		s.errorf("invalid FEN: %v", err)
		return
	}
	s.applyMoves(moves)
}

// applyMoves plays coordinate moves until one fails.
func (s *Shell) applyMoves(moves []string) bool {
	for _, str := range moves {
		m := s.parseMove(str)
		if m == board.NoMove {
			s.errorf("illegal move: %s", str)
			return false
		}
		if err := s.position.DoMove(m); err != nil {
			s.errorf("%v", err)
			return false
		}
	}
	return true
}

// parseMove converts a coordinate move string to a legal board.Move, or
// board.NoMove.
func (s *Shell) parseMove(str string) board.Move {
	if str == "0000" {
		return board.NullMove
	}
	if len(str) != 4 && len(str) != 5 {
		return board.NoMove
	}

	from, err := board.ParseSquare(str[0:2])
	if err != nil {
		return board.NoMove
	}
	to, err := board.ParseSquare(str[2:4])
	if err != nil {
		return board.NoMove
	}

	// Check for promotion
	promo := board.NoPieceType
	if len(str) == 5 {
		promo = board.PieceTypeFromChar(str[4])
		if promo < board.Knight || promo > board.Queen {
			return board.NoMove
		}
	}

	return s.position.FindMove(from, to, promo)
}

func (s *Shell) handleDisplay() {
	s.printf("%s\n", s.render.Board(s.position))
	s.printf("FEN: %s\n", s.position.FEN())
	s.printf("Hash: %016x\n", s.position.HashCode())
	s.printf("Status: %s\n", s.render.Status(s.position))
}

// printMoves prints a move list sorted by coordinate string.
func (s *Shell) printMoves(ml *board.MoveList) {
	strs := make([]string, ml.Len())
	for i := range strs {
		strs[i] = ml.Get(i).String()
	}
	slices.Sort(strs)
	s.printf("%d: %s\n", len(strs), strings.Join(strs, " "))
}

func (s *Shell) handleRecaptures(args []string) {
	if len(args) != 1 {
		s.errorf("recaptures: expected a square")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		s.errorf("recaptures: %v", err)
		return
	}
	s.printMoves(s.position.RecapturingMoves(sq))
}

func (s *Shell) handleDo(args []string) {
	if len(args) == 0 {
		s.errorf("do: expected moves")
		return
	}
	if s.applyMoves(args) {
		s.println(s.position.FEN())
	}
}

// count parses an optional repeat count, 1 by default.
func count(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad count %q", args[0])
	}
	return n, nil
}

func (s *Shell) handleUndo(args []string) {
	n, err := count(args)
	if err != nil {
		s.errorf("undo: %v", err)
		return
	}
	for i := 0; i < n; i++ {
		if !s.position.UndoMove() {
			s.errorf("undo: no move to take back")
			return
		}
	}
	s.println(s.position.FEN())
}

func (s *Shell) handleRedo(args []string) {
	n, err := count(args)
	if err != nil {
		s.errorf("redo: %v", err)
		return
	}
	for i := 0; i < n; i++ {
		if !s.position.RedoMove() {
			s.errorf("redo: no move to replay")
			return
		}
	}
	s.println(s.position.FEN())
}

// depth parses a perft depth argument.
func depth(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	d, err := strconv.Atoi(args[0])
	if err != nil || d < 1 {
		return 0, fmt.Errorf("bad depth %q", args[0])
	}
	return d, nil
}

func (s *Shell) handlePerft(args []string) {
	d, err := depth(args, 5)
	if err != nil {
		s.errorf("perft: %v", err)
		return
	}

	// Counting runs on a clone so watchers see none of the tree walk.
	pos := s.position.Clone()
	start := time.Now()
	var nodes uint64
	if s.threads > 1 {
		var entries []perft.Entry
		entries, err = perft.DivideParallel(pos, d, s.threads, s.cache)
		nodes = perft.Total(entries)
	} else {
		nodes, err = perft.CountCached(pos, d, s.cache)
	}
	if err != nil {
		s.errorf("perft: %v", err)
		return
	}
	elapsed := time.Since(start)

	s.printf("Nodes: %d\n", nodes)
	s.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		s.printf("NPS: %.0f\n", nps)
	}
}

func (s *Shell) handleDivide(args []string) {
	d, err := depth(args, 1)
	if err != nil {
		s.errorf("divide: %v", err)
		return
	}

	entries, err := perft.DivideParallel(s.position.Clone(), d, s.threads, s.cache)
	if err != nil {
		s.errorf("divide: %v", err)
		return
	}
	for _, e := range entries {
		s.printf("%s: %d\n", e.Move, e.Nodes)
	}
	s.printf("Total: %d\n", perft.Total(entries))
}

func (s *Shell) handleVerify(args []string) {
	d, err := depth(args, 3)
	if err != nil {
		s.errorf("verify: %v", err)
		return
	}

	mismatches, err := perft.Verify(s.position.Clone(), d, s.cache)
	if err != nil {
		s.errorf("verify: %v", err)
		return
	}
	if len(mismatches) == 0 {
		s.printf("verify %d: ok\n", d)
		return
	}
	for _, m := range mismatches {
		s.printf("mismatch %v\n", m)
	}
	log.Printf("verify: %d mismatches at depth %d in %s", len(mismatches), d, s.position.FEN())
}

func (s *Shell) handleWatch(args []string) {
	on := len(args) == 0 || args[0] == "on"
	if on {
		s.position.AddListener(s.watcher)
		s.position.AddChangeListener(s.watcher)
	} else {
		s.position.RemoveListener(s.watcher)
		s.position.RemoveChangeListener(s.watcher)
	}
	s.printf("watch %v\n", on)
}
