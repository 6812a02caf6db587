package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
)

var _ perft.Cache = (*Storage)(nil)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewMemoryStorage()
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	s := newTestStorage(t)
	pos := board.NewPosition()

	t.Run("Miss", func(t *testing.T) {
		if _, ok, err := s.Get(pos, 3); err != nil || ok {
			t.Errorf("Get on empty cache = %v, %v", ok, err)
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		if err := s.Put(pos, 3, 8902); err != nil {
			t.Fatal(err)
		}
		n, ok, err := s.Get(pos, 3)
		if err != nil || !ok || n != 8902 {
			t.Errorf("Get = %d, %v, %v; want 8902", n, ok, err)
		}
		if _, ok, _ := s.Get(pos, 4); ok {
			t.Error("depth 4 hit on a depth 3 entry")
		}
	})

	t.Run("CountersIgnored", func(t *testing.T) {
		other, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 7 30", false)
		if err != nil {
			t.Fatal(err)
		}
		if n, ok, _ := s.Get(other, 3); !ok || n != 8902 {
			t.Errorf("Get with other counters = %d, %v", n, ok)
		}
	})

	t.Run("Results", func(t *testing.T) {
		results, err := s.Results()
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 {
			t.Fatalf("%d results, want 1", len(results))
		}
		r := results[0]
		if r.Depth != 3 || r.Nodes != 8902 || r.Position != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -" {
			t.Errorf("result = %+v", r)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := s.Clear(); err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := s.Get(pos, 3); ok {
			t.Error("entry survived Clear")
		}
	})
}

func TestStorageServesPerft(t *testing.T) {
	s := newTestStorage(t)
	pos := board.NewPosition()

	n, err := perft.CountCached(pos, 4, s)
	if err != nil {
		t.Fatal(err)
	}
	if n != 197281 {
		t.Fatalf("CountCached(4) = %d, want 197281", n)
	}

	results, err := s.Results()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 21 {
		t.Errorf("%d stored results, want 21", len(results))
	}

	// A second run is answered from the root entry.
	if n, err := perft.CountCached(pos, 4, s); err != nil || n != 197281 {
		t.Errorf("cached CountCached(4) = %d, %v", n, err)
	}
}

func TestStoragePersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	pos := board.NewPosition()

	s, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	if err := s.Put(pos, 5, 4865609); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewStorage(dir)
	if err != nil {
		t.Fatalf("Failed to reopen storage: %v", err)
	}
	defer s.Close()
	if n, ok, err := s.Get(pos, 5); err != nil || !ok || n != 4865609 {
		t.Errorf("Get after reopen = %d, %v, %v", n, ok, err)
	}
}

func TestDataPaths(t *testing.T) {
	override := filepath.Join(t.TempDir(), "data")
	t.Setenv(dataDirEnv, override)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != override {
		t.Errorf("GetDataDir() = %s, want %s", dataDir, override)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	// Verify directory exists
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}

	t.Logf("Database directory: %s", dbDir)
}
