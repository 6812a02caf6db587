package board

// PositionListener receives fine-grained notifications about board edits and
// about the squares and flags touched by moves. Calls happen synchronously
// after the change is complete. A listener must not mutate the position.
type PositionListener interface {
	SquareChanged(sq Square, stone Stone)
	ToPlayChanged(c Color)
	CastlesChanged(cr CastlingRights)
	EPSquareChanged(sq Square)
	PlyNumberChanged(ply int)
	HalfMoveClockChanged(clock int)
}

// PositionChangeListener is notified when a move is done (or redone) and
// when a move is undone.
type PositionChangeListener interface {
	MoveDone(p *Position, m Move)
	MoveUndone(p *Position, m Move)
}

// AddListener registers l. Registering the same listener twice has no effect.
func (p *Position) AddListener(l PositionListener) {
	for _, x := range p.listeners {
		if x == l {
			return
		}
	}
	p.listeners = append(p.listeners, l)
}

// RemoveListener unregisters l.
func (p *Position) RemoveListener(l PositionListener) {
	for i, x := range p.listeners {
		if x == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// AddChangeListener registers l. Registering the same listener twice has no effect.
func (p *Position) AddChangeListener(l PositionChangeListener) {
	for _, x := range p.changeListeners {
		if x == l {
			return
		}
	}
	p.changeListeners = append(p.changeListeners, l)
}

// RemoveChangeListener unregisters l.
func (p *Position) RemoveChangeListener(l PositionChangeListener) {
	for i, x := range p.changeListeners {
		if x == l {
			p.changeListeners = append(p.changeListeners[:i], p.changeListeners[i+1:]...)
			return
		}
	}
}

// SetNotifyListeners turns notifications on or off. Positions start with
// notifications on.
func (p *Position) SetNotifyListeners(on bool) {
	p.notify = on
}

// NotifyListeners reports whether notifications are on.
func (p *Position) NotifyListeners() bool {
	return p.notify
}

func (p *Position) notifySquares(squares Bitboard) {
	if !p.notify || len(p.listeners) == 0 {
		return
	}
	for squares != 0 {
		sq := squares.PopLSB()
		stone := p.StoneAt(sq)
		for _, l := range p.listeners {
			l.SquareChanged(sq, stone)
		}
	}
}

// notifyFlags reports every flag that differs from old.
func (p *Position) notifyFlags(old uint64) {
	if !p.notify || len(p.listeners) == 0 {
		return
	}
	prev := Position{flags: old}
	for _, l := range p.listeners {
		if prev.ToPlay() != p.ToPlay() {
			l.ToPlayChanged(p.ToPlay())
		}
		if prev.Castles() != p.Castles() {
			l.CastlesChanged(p.Castles())
		}
		if prev.EPSquare() != p.EPSquare() {
			l.EPSquareChanged(p.EPSquare())
		}
		if prev.PlyNumber() != p.PlyNumber() {
			l.PlyNumberChanged(p.PlyNumber())
		}
		if prev.HalfMoveClock() != p.HalfMoveClock() {
			l.HalfMoveClockChanged(p.HalfMoveClock())
		}
	}
}

func (p *Position) notifyMove(m Move, undone bool) {
	if !p.notify || len(p.changeListeners) == 0 {
		return
	}
	for _, l := range p.changeListeners {
		if undone {
			l.MoveUndone(p, m)
		} else {
			l.MoveDone(p, m)
		}
	}
}
