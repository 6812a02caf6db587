package shell

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/hailam/chesscore/internal/board"
)

// Board colours, hex as accepted by termenv.
const (
	lightSquare = "#EEEED2"
	darkSquare  = "#769656"
	lastFrom    = "#F6F669"
	lastTo      = "#BACA2B"
	whiteStone  = "#FFFFFF"
	blackStone  = "#000000"
)

// Renderer draws positions for a terminal.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer returns a renderer styling for out's color profile.
func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) plain() bool {
	return r.out.Profile == termenv.Ascii
}

// Board renders pos with rank 8 on top. The squares of the last move are
// highlighted when colours are available.
func (r *Renderer) Board(pos *board.Position) string {
	var from, to board.Square = board.NoSquare, board.NoSquare
	if m := pos.LastMove(); m != board.NoMove && !m.IsNull() {
		from, to = m.From(), m.To()
	}

	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			sb.WriteString(r.square(pos.StoneAt(sq), sq, sq == from, sq == to))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	return sb.String()
}

func (r *Renderer) square(s board.Stone, sq board.Square, isFrom, isTo bool) string {
	if r.plain() {
		if s == board.NoStone {
			return " . "
		}
		return " " + s.String() + " "
	}

	bg := darkSquare
	switch {
	case isFrom:
		bg = lastFrom
	case isTo:
		bg = lastTo
	case (sq.File()+sq.Rank())%2 == 1:
		bg = lightSquare
	}

	if s == board.NoStone {
		return r.out.String("   ").Background(r.out.Color(bg)).String()
	}
	fg := whiteStone
	if s.Color() == board.Black {
		fg = blackStone
	}
	return r.out.String(" " + string(s.Type().Char()) + " ").
		Foreground(r.out.Color(fg)).
		Background(r.out.Color(bg)).
		Bold().
		String()
}

// Status renders a one-line summary of the game state.
func (r *Renderer) Status(pos *board.Position) string {
	var state string
	switch {
	case pos.IsMate():
		state = fmt.Sprintf("checkmate, %s wins", pos.ToPlay().Other())
	case pos.IsStaleMate():
		state = "stalemate"
	case pos.HalfMoveClock() >= 100:
		state = "draw by the fifty-move rule"
	case pos.IsInsufficientMaterial():
		state = "insufficient material"
	case pos.IsCheck():
		state = fmt.Sprintf("%s to play, in check", pos.ToPlay())
	default:
		state = fmt.Sprintf("%s to play", pos.ToPlay())
	}

	if r.plain() {
		return state
	}
	if pos.IsTerminal() || pos.IsCheck() {
		return r.out.String(state).Bold().String()
	}
	return state
}
