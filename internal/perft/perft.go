// Package perft counts move-tree leaves to verify move generation.
package perft

import (
	"fmt"
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// Cache stores node counts keyed by position. Implementations must treat a
// missing entry as ok == false with a nil error.
type Cache interface {
	Get(pos *board.Position, depth int) (nodes uint64, ok bool, err error)
	Put(pos *board.Position, depth int, nodes uint64) error
}

// minCacheDepth is the shallowest subtree worth a cache round trip.
const minCacheDepth = 3

// Count returns the number of leaf nodes depth plies below pos.
// The position is restored before Count returns.
func Count(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := pos.AllMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if err := pos.DoMove(m); err != nil {
			panic(fmt.Sprintf("perft: generated move %v rejected: %v", m, err))
		}
		nodes += Count(pos, depth-1)
		pos.UndoMove()
	}
	return nodes
}

// CountCached is Count with subtree results looked up in and stored to c.
// Only subtrees at least minCacheDepth deep go through the cache.
func CountCached(pos *board.Position, depth int, c Cache) (uint64, error) {
	if c == nil || depth < minCacheDepth {
		return Count(pos, depth), nil
	}

	if nodes, ok, err := c.Get(pos, depth); err != nil {
		return 0, err
	} else if ok {
		return nodes, nil
	}

	moves := pos.AllMoves()
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if err := pos.DoMove(m); err != nil {
			return 0, err
		}
		n, err := CountCached(pos, depth-1, c)
		pos.UndoMove()
		if err != nil {
			return 0, err
		}
		nodes += n
	}

	if err := c.Put(pos, depth, nodes); err != nil {
		return 0, err
	}
	return nodes, nil
}

// Entry is the node count below one root move.
type Entry struct {
	Move  string
	Nodes uint64
}

// Divide returns the node count below each legal move of pos, sorted by
// move string.
func Divide(pos *board.Position, depth int) []Entry {
	entries, _ := DivideCached(pos, depth, nil)
	return entries
}

// DivideCached is Divide with subtree counts going through c.
func DivideCached(pos *board.Position, depth int, c Cache) ([]Entry, error) {
	if depth < 1 {
		depth = 1
	}

	moves := pos.AllMoves()
	entries := make([]Entry, 0, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if err := pos.DoMove(m); err != nil {
			return nil, err
		}
		n, err := CountCached(pos, depth-1, c)
		pos.UndoMove()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Move: m.String(), Nodes: n})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Move < entries[j].Move })
	return entries, nil
}

// Total sums the node counts of a divide.
func Total(entries []Entry) uint64 {
	var sum uint64
	for _, e := range entries {
		sum += e.Nodes
	}
	return sum
}
