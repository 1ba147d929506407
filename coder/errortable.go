package coder

import (
	"github.com/nathanhack/qhamming/matrix"
)

// Error is a single symbol correction: Value is added (mod q) at Position.
type Error struct {
	Position int
	Value    matrix.Value
}

type tableEntry struct {
	syndrome *matrix.Matrix
	err      Error
}

// errorTable maps syndromes to corrections. Buckets are keyed by Matrix.Hash and
// entries within a bucket are compared with Matrix.Equals.
type errorTable struct {
	buckets map[uint64][]tableEntry
	size    int
}

func newErrorTable(capacity int) *errorTable {
	return &errorTable{
		buckets: make(map[uint64][]tableEntry, capacity),
	}
}

// insertIfAbsent keeps the first entry for a syndrome. It reports the existing
// entry and false when the syndrome was already present.
func (t *errorTable) insertIfAbsent(syndrome *matrix.Matrix, e Error) (Error, bool) {
	h := syndrome.Hash()
	for _, entry := range t.buckets[h] {
		if entry.syndrome.Equals(syndrome) {
			return entry.err, false
		}
	}
	t.buckets[h] = append(t.buckets[h], tableEntry{syndrome: syndrome.Copy(), err: e})
	t.size++
	return e, true
}

func (t *errorTable) lookup(syndrome *matrix.Matrix) (Error, bool) {
	for _, entry := range t.buckets[syndrome.Hash()] {
		if entry.syndrome.Equals(syndrome) {
			return entry.err, true
		}
	}
	return Error{}, false
}

func (t *errorTable) len() int {
	return t.size
}
