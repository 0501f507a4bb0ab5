// Package proptable keeps per-tag records of enum properties.
//
// A Table maps every tag of an enumeration to a single record. The record is
// never stored in enum values, they only carry a tag and get a reference to
// the shared record through Resolve. Records are either computed at package
// initialisation (NewEager) or on the first access to a tag (NewLazy).
package proptable

import (
	"fmt"
	"sync"
)

// Tag is a constraint for enumeration tags.
type Tag interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// denseLimit tags in [0, denseLimit) are looked up through a slice, others through a map.
const denseLimit = 256

// Table tag to record mapping
type Table[T Tag, R any] struct {
	tags   []T
	dense  []int
	sparse map[T]int

	records []R
	cells   []func() *R
}

// EntrySpec is a tag with its precomputed record
type EntrySpec[T Tag, R any] struct {
	tag T
	rec R
}

// Entry pairs tag with a record for NewEager
func Entry[T Tag, R any](tag T, rec R) EntrySpec[T, R] {
	return EntrySpec[T, R]{tag: tag, rec: rec}
}

// CellSpec is a tag with its record initializer
type CellSpec[T Tag, R any] struct {
	tag  T
	init func() R
}

// Cell pairs tag with a record initializer for NewLazy
func Cell[T Tag, R any](tag T, init func() R) CellSpec[T, R] {
	return CellSpec[T, R]{tag: tag, init: init}
}

// NewEager creates a table whose records are given right away. Resolve returns
// the same reference for a tag on every call.
func NewEager[T Tag, R any](entries ...EntrySpec[T, R]) *Table[T, R] {
	t := &Table[T, R]{
		records: make([]R, len(entries)),
	}
	for i, e := range entries {
		t.register(e.tag, i)
		t.records[i] = e.rec
	}
	return t
}

// NewLazy creates a table whose records are computed on the first access
// to their tags. Each initializer runs at most once for the whole process,
// concurrent first accessors wait for it to complete. An initializer which
// panics keeps panicking with the same value on every later access to its tag.
func NewLazy[T Tag, R any](cells ...CellSpec[T, R]) *Table[T, R] {
	t := &Table[T, R]{
		cells: make([]func() *R, len(cells)),
	}
	for i, c := range cells {
		t.register(c.tag, i)
		init := c.init
		t.cells[i] = sync.OnceValue(func() *R {
			rec := init()
			return &rec
		})
	}
	return t
}

func (t *Table[T, R]) register(tag T, slot int) {
	if _, ok := t.slot(tag); ok {
		panic(fmt.Sprintf("proptable: duplicate tag %d", int64(tag)))
	}
	t.tags = append(t.tags, tag)

	if inDenseRange(tag) {
		for len(t.dense) <= int(tag) {
			t.dense = append(t.dense, 0)
		}
		t.dense[int(tag)] = slot + 1
		return
	}

	if t.sparse == nil {
		t.sparse = map[T]int{}
	}
	t.sparse[tag] = slot
}

func (t *Table[T, R]) slot(tag T) (int, bool) {
	if inDenseRange(tag) {
		if int(tag) >= len(t.dense) || t.dense[int(tag)] == 0 {
			return 0, false
		}
		return t.dense[int(tag)] - 1, true
	}

	slot, ok := t.sparse[tag]
	return slot, ok
}

// Lookup returns a record of the given tag and true, or nil and false if
// the tag is not known to the table.
func (t *Table[T, R]) Lookup(tag T) (*R, bool) {
	slot, ok := t.slot(tag)
	if !ok {
		return nil, false
	}
	if t.cells != nil {
		return t.cells[slot](), true
	}
	return &t.records[slot], true
}

// Resolve returns a record of the given tag. It panics on unknown tags:
// generated enums only pass values of declared variants.
func (t *Table[T, R]) Resolve(tag T) *R {
	rec, ok := t.Lookup(tag)
	if !ok {
		panic(fmt.Sprintf("proptable: unknown tag %d", int64(tag)))
	}
	return rec
}

// Tags returns known tags in the order they were passed to the constructor
func (t *Table[T, R]) Tags() []T {
	res := make([]T, len(t.tags))
	copy(res, t.tags)
	return res
}

// Len returns the number of tags
func (t *Table[T, R]) Len() int {
	return len(t.tags)
}

// Lazy reports whether records are computed on first access
func (t *Table[T, R]) Lazy() bool {
	return t.cells != nil
}

func inDenseRange[T Tag](tag T) bool {
	// uint64 values above MaxInt64 turn negative here and go to the map
	v := int64(tag)
	return v >= 0 && v < denseLimit
}
