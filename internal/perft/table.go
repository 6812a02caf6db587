package perft

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Number of shards for table locking (power of 2 for fast modulo)
const tableShardCount = 256
const tableShardMask = tableShardCount - 1

// TableEntry is one stored subtree count.
type TableEntry struct {
	Key   uint64 // Full 64-bit position hash for verification
	Nodes uint64
	Depth uint8
}

// Table is a fixed-size in-memory Cache indexed by position hash. It uses
// sharded locking so parallel counts can share one table.
type Table struct {
	entries []TableEntry
	shards  [tableShardCount]sync.RWMutex
	size    uint64
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTable creates a table with the given size in MB.
func NewTable(sizeMB int) *Table {
	entrySize := uint64(24)
	numEntries := (uint64(max(sizeMB, 1)) * 1024 * 1024) / entrySize

	// Round down to power of 2 for fast modulo
	numEntries = roundDownToPowerOf2(numEntries)

	return &Table{
		entries: make([]TableEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (t *Table) shardIndex(idx uint64) int {
	return int(idx & tableShardMask)
}

// Probe returns the entry stored for hash at depth.
func (t *Table) Probe(hash uint64, depth int) (TableEntry, bool) {
	t.probes.Add(1)

	idx := hash & t.mask
	shard := t.shardIndex(idx)

	t.shards[shard].RLock()
	entry := t.entries[idx]
	t.shards[shard].RUnlock()

	if entry.Key == hash && entry.Depth > 0 && int(entry.Depth) == depth {
		t.hits.Add(1)
		return entry, true
	}
	return TableEntry{}, false
}

// Store saves a subtree count. A slot holding a deeper subtree is kept, as
// it stands for more work.
func (t *Table) Store(hash uint64, depth int, nodes uint64) {
	idx := hash & t.mask
	shard := t.shardIndex(idx)

	t.shards[shard].Lock()
	entry := &t.entries[idx]
	if entry.Key == hash || depth >= int(entry.Depth) {
		entry.Key = hash
		entry.Nodes = nodes
		entry.Depth = uint8(depth)
	}
	t.shards[shard].Unlock()
}

// Get implements Cache.
func (t *Table) Get(pos *board.Position, depth int) (uint64, bool, error) {
	e, ok := t.Probe(pos.HashCode(), depth)
	return e.Nodes, ok, nil
}

// Put implements Cache.
func (t *Table) Put(pos *board.Position, depth int, nodes uint64) error {
	t.Store(pos.HashCode(), depth, nodes)
	return nil
}

// Clear empties the table and its statistics. It is safe to call while
// other goroutines use the table.
func (t *Table) Clear() {
	for shard := range t.shards {
		t.shards[shard].Lock()
		for i := uint64(shard); i < t.size; i += tableShardCount {
			t.entries[i] = TableEntry{}
		}
		t.shards[shard].Unlock()
	}
	t.hits.Store(0)
	t.probes.Store(0)
}

// HitRate returns the cache hit rate as a percentage.
func (t *Table) HitRate() float64 {
	probes := t.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (t *Table) Size() uint64 {
	return t.size
}

// Tiered is a Cache consulting Fast before Slow. Hits in Slow are copied
// into Fast; stores go to both.
type Tiered struct {
	Fast, Slow Cache
}

// Get implements Cache.
func (c Tiered) Get(pos *board.Position, depth int) (uint64, bool, error) {
	if n, ok, err := c.Fast.Get(pos, depth); err != nil || ok {
		return n, ok, err
	}
	n, ok, err := c.Slow.Get(pos, depth)
	if err != nil || !ok {
		return 0, false, err
	}
	return n, true, c.Fast.Put(pos, depth, n)
}

// Put implements Cache.
func (c Tiered) Put(pos *board.Position, depth int, nodes uint64) error {
	if err := c.Fast.Put(pos, depth, nodes); err != nil {
		return err
	}
	return c.Slow.Put(pos, depth, nodes)
}
