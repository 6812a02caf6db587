package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
)

// Storage keys
var (
	prefixPerft = []byte("perft/")
)

// PerftResult is one stored node count.
type PerftResult struct {
	Position string    `json:"position"` // first four FEN fields
	Depth    int       `json:"depth"`
	Nodes    uint64    `json:"nodes"`
	Stored   time.Time `json:"stored"`
}

// Storage wraps BadgerDB as a perft result cache. Results are keyed by the
// position hash and depth; the stored position text guards against hash
// collisions.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the cache in dir, or in the default database directory
// when dir is empty.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// NewMemoryStorage opens a cache that lives only in memory.
func NewMemoryStorage() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open perft cache: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func perftKey(hash uint64, depth int) []byte {
	key := make([]byte, 0, len(prefixPerft)+9)
	key = append(key, prefixPerft...)
	key = binary.BigEndian.AppendUint64(key, hash)
	return append(key, byte(depth))
}

// positionText returns the FEN without its move counters, which do not
// affect the move tree.
func positionText(pos *board.Position) string {
	fields := strings.Fields(pos.FEN())
	return strings.Join(fields[:4], " ")
}

// Get returns the stored node count for pos at depth. A missing entry, or
// one recorded for a different position with the same hash, is a miss.
func (s *Storage) Get(pos *board.Position, depth int) (uint64, bool, error) {
	var result PerftResult
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(pos.HashCode(), depth))
		if err == badger.ErrKeyNotFound {
			return nil // Miss
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("read perft result: %w", err)
	}

	if !found || result.Position != positionText(pos) || result.Depth != depth {
		return 0, false, nil
	}
	return result.Nodes, true, nil
}

// Put stores the node count for pos at depth.
func (s *Storage) Put(pos *board.Position, depth int, nodes uint64) error {
	data, err := json.Marshal(PerftResult{
		Position: positionText(pos),
		Depth:    depth,
		Nodes:    nodes,
		Stored:   time.Now(),
	})
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(pos.HashCode(), depth), data)
	})
	if err != nil {
		return fmt.Errorf("write perft result: %w", err)
	}
	return nil
}

// Results returns every stored result in key order.
func (s *Storage) Results() ([]PerftResult, error) {
	var results []PerftResult

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefixPerft); it.ValidForPrefix(prefixPerft); it.Next() {
			var r PerftResult
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list perft results: %w", err)
	}
	return results, nil
}

// Clear removes every stored result.
func (s *Storage) Clear() error {
	if err := s.db.DropPrefix(prefixPerft); err != nil {
		return fmt.Errorf("clear perft results: %w", err)
	}
	return nil
}
