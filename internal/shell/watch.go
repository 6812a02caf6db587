package shell

import "github.com/hailam/chesscore/internal/board"

// watcher echoes position notifications as "info" lines.
type watcher struct {
	shell *Shell
}

func (w *watcher) SquareChanged(sq board.Square, s board.Stone) {
	if s == board.NoStone {
		w.shell.printf("info square %s empty\n", sq)
		return
	}
	w.shell.printf("info square %s %s\n", sq, s)
}

func (w *watcher) ToPlayChanged(c board.Color) {
	w.shell.printf("info toplay %s\n", c)
}

func (w *watcher) CastlesChanged(cr board.CastlingRights) {
	w.shell.printf("info castles %s\n", cr)
}

func (w *watcher) EPSquareChanged(sq board.Square) {
	w.shell.printf("info ep %s\n", sq)
}

func (w *watcher) PlyNumberChanged(ply int) {
	w.shell.printf("info ply %d\n", ply)
}

func (w *watcher) HalfMoveClockChanged(clock int) {
	w.shell.printf("info clock %d\n", clock)
}

func (w *watcher) MoveDone(_ *board.Position, m board.Move) {
	w.shell.printf("info done %s\n", m)
}

func (w *watcher) MoveUndone(_ *board.Position, m board.Move) {
	w.shell.printf("info undone %s\n", m)
}
