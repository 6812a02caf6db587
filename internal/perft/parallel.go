package perft

import (
	"sort"
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

// DivideParallel is DivideCached with the root moves spread over workers
// goroutines. Each worker counts on its own clone of pos; c is shared and
// must be safe for concurrent use (Table and the storage cache are).
func DivideParallel(pos *board.Position, depth, workers int, c Cache) ([]Entry, error) {
	if workers <= 1 {
		return DivideCached(pos, depth, c)
	}
	if depth < 1 {
		depth = 1
	}

	moves := pos.AllMoves().Slice()
	entries := make([]Entry, len(moves))
	errs := make([]error, len(moves))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		local := pos.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				m := moves[i]
				if err := local.DoMove(m); err != nil {
					errs[i] = err
					continue
				}
				n, err := CountCached(local, depth-1, c)
				local.UndoMove()
				entries[i] = Entry{Move: m.String(), Nodes: n}
				errs[i] = err
			}
		}()
	}
	for i := range moves {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Move < entries[j].Move })
	return entries, nil
}
