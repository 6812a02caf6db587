package perft

import (
	"fmt"
	"sort"

	"github.com/dylhunn/dragontoothmg"

	"github.com/hailam/chesscore/internal/board"
)

// Mismatch is a root move whose subtree count differs between the position's
// own generator and the reference generator. A zero count on one side means
// that side does not generate the move at all.
type Mismatch struct {
	Move      string
	Nodes     uint64
	Reference uint64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %d, reference %d", m.Move, m.Nodes, m.Reference)
}

// ReferenceDivide runs a divide for fen on the dragontoothmg generator.
func ReferenceDivide(fen string, depth int) (entries []Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reference generator rejected %q: %v", fen, r)
		}
	}()

	if depth < 1 {
		depth = 1
	}
	b := dragontoothmg.ParseFen(fen)
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		n := referenceCount(&b, depth-1)
		unapply()
		entries = append(entries, Entry{Move: m.String(), Nodes: n})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Move < entries[j].Move })
	return entries, nil
}

func referenceCount(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referenceCount(b, depth-1)
		unapply()
	}
	return nodes
}

// Verify divides pos on both generators and returns every root move whose
// counts differ. An empty result means the generators agree.
func Verify(pos *board.Position, depth int, c Cache) ([]Mismatch, error) {
	own, err := DivideCached(pos, depth, c)
	if err != nil {
		return nil, err
	}
	ref, err := ReferenceDivide(pos.FEN(), depth)
	if err != nil {
		return nil, err
	}
	return compare(own, ref), nil
}

// compare merges two divides sorted by move string.
func compare(own, ref []Entry) []Mismatch {
	var out []Mismatch
	i, j := 0, 0
	for i < len(own) || j < len(ref) {
		switch {
		case j == len(ref) || i < len(own) && own[i].Move < ref[j].Move:
			out = append(out, Mismatch{Move: own[i].Move, Nodes: own[i].Nodes})
			i++
		case i == len(own) || ref[j].Move < own[i].Move:
			out = append(out, Mismatch{Move: ref[j].Move, Reference: ref[j].Nodes})
			j++
		default:
			if own[i].Nodes != ref[j].Nodes {
				out = append(out, Mismatch{Move: own[i].Move, Nodes: own[i].Nodes, Reference: ref[j].Nodes})
			}
			i++
			j++
		}
	}
	return out
}
