package board

// A backup record is a run of words on the backup stack:
//
//	hash, mover color mask, [changed masks...], flags word
//
// The changed masks are pushed in pieceMasks order and only if the move
// changed them; the flags word carries both king squares and a 5-bit change
// mask telling which were pushed. Records are popped from the top.

// snapshot is the pre-move state needed to build a backup record.
type snapshot struct {
	hash  uint64
	mover Bitboard
	masks [5]Bitboard
	word  uint64
}

// pieceMasks returns the maskable state other than the mover's color mask.
func (p *Position) pieceMasks(us Color) [5]Bitboard {
	return [5]Bitboard{p.colorMask(us.Other()), p.pawns, p.knights, p.bishops, p.rooks}
}

func (p *Position) setPieceMask(i int, us Color, bb Bitboard) {
	switch i {
	case 0:
		p.setColorMask(us.Other(), bb)
	case 1:
		p.pawns = bb
	case 2:
		p.knights = bb
	case 3:
		p.bishops = bb
	case 4:
		p.rooks = bb
	}
}

func (p *Position) setColorMask(c Color, bb Bitboard) {
	if c == White {
		p.white = bb
	} else {
		p.black = bb
	}
}

func (p *Position) takeSnapshot(us Color) snapshot {
	return snapshot{
		hash:  p.hash,
		mover: p.colorMask(us),
		masks: p.pieceMasks(us),
		word:  p.backupWord(0),
	}
}

// pushBackup compares the current state with pre and pushes a record.
func (p *Position) pushBackup(pre *snapshot, us Color) {
	cur := p.pieceMasks(us)
	p.backup = append(p.backup, pre.hash, uint64(pre.mover))

	var changed uint64
	for i, m := range pre.masks {
		if m != cur[i] {
			changed |= 1 << i
			p.backup = append(p.backup, uint64(m))
		}
	}
	p.backup = append(p.backup, pre.word|changed<<changeShift)
}

// popBackup restores the state saved by the topmost record and removes it.
func (p *Position) popBackup() {
	n := len(p.backup) - 1
	changed := p.restoreWord(p.backup[n])
	us := p.ToPlay()

	for i := 4; i >= 0; i-- {
		if changed&(1<<i) != 0 {
			n--
			p.setPieceMask(i, us, Bitboard(p.backup[n]))
		}
	}
	n--
	p.setColorMask(us, Bitboard(p.backup[n]))
	n--
	p.hash = p.backup[n]

	p.backup = p.backup[:n]
}

// BackupSize returns the number of words on the backup stack.
func (p *Position) BackupSize() int {
	return len(p.backup)
}
