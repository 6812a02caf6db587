package board

// Hash keys for position hashing.
// The tables come from a fixed-seed linear congruential generator so hash
// values are identical across runs and builds; stored perft results key on
// them.
var (
	stoneKeys  [13][64]uint64 // [Stone.index()][Square], NoStone row is zero
	castleKeys [16]uint64     // castleKeys[NoCastling] is zero
	epKeys     [8]uint64      // one per file
)

// sideKey is XORed in when black is to play. No other key touches bit 0.
const sideKey uint64 = 1

const hashSeed uint64 = 0x2E0BE2F7A8C3D915

func init() {
	initZobrist()
}

// lcg is Knuth's MMIX linear congruential generator.
type lcg struct {
	state uint64
}

func (g *lcg) next() uint64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return g.state
}

// key combines the high halves of two outputs; the low bits of an LCG have
// short periods. Bit 0 is reserved for the side to play.
func (g *lcg) key() uint64 {
	hi := g.next() >> 32
	lo := g.next() >> 32
	return (hi<<32 | lo) &^ sideKey
}

func initZobrist() {
	g := &lcg{state: hashSeed}

	for s := WhiteKing; s <= BlackKing; s++ {
		if s == NoStone {
			continue
		}
		for sq := A1; sq <= H8; sq++ {
			stoneKeys[s.index()][sq] = g.key()
		}
	}

	for i := 1; i < 16; i++ {
		castleKeys[i] = g.key()
	}

	for file := 0; file < 8; file++ {
		epKeys[file] = g.key()
	}
}

// StoneKey returns the hash key for a stone on a square.
func StoneKey(s Stone, sq Square) uint64 {
	return stoneKeys[s.index()][sq]
}

// HashCode returns the incrementally maintained position hash.
func (p *Position) HashCode() uint64 {
	return p.hash
}

// hashedEPFile returns the file whose key belongs in the hash, or -1 when
// no pawn of the side to play can capture onto the en passant square.
func (p *Position) hashedEPFile() int {
	ep := p.EPSquare()
	if ep == NoSquare {
		return -1
	}
	us := p.ToPlay()
	if pawnAttacks[us.Other()][ep]&p.pawns&p.colorMask(us) == 0 {
		return -1
	}
	return ep.File()
}

// updateEPHash brings the en passant contribution of the hash in line with
// the current en passant square, side to play and pawns.
func (p *Position) updateEPHash() {
	want := uint64(p.hashedEPFile() + 1)
	have := p.field(epHashShift, epHashBits)
	if want == have {
		return
	}
	if have != 0 {
		p.hash ^= epKeys[have-1]
	}
	if want != 0 {
		p.hash ^= epKeys[want-1]
	}
	p.setField(epHashShift, epHashBits, want)
}

// ComputeHash computes the hash from scratch. The result equals HashCode for
// every consistent position.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for bb := p.occupied(); bb != 0; {
		sq := bb.PopLSB()
		hash ^= stoneKeys[p.StoneAt(sq).index()][sq]
	}

	hash ^= castleKeys[p.Castles()]

	if f := p.hashedEPFile(); f >= 0 {
		hash ^= epKeys[f]
	}

	if p.ToPlay() == Black {
		hash ^= sideKey
	}

	return hash
}
