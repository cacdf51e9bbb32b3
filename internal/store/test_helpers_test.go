package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/listq/internal/testutil"
)

// createTestStore creates a new store for the Blog registry.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, testutil.Blog())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a Blog store holding testutil.BlogFixtures.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	for _, f := range testutil.BlogFixtures() {
		if _, err := s.Insert(context.Background(), f.Type, f.Values); err != nil {
			t.Fatalf("Insert(%s) failed: %v", f.Type, err)
		}
	}
	return s
}

func recordIDs(records []Record) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID()
	}
	return ids
}
