// Package hashdict implements a mutable, insertion-ordered dictionary
// that is itself hashable, so a dictionary can be used as a key in
// another dictionary or as a member of any hash-based container.
//
// A [Dict] maps arbitrary hashable keys to arbitrary hashable values.
// Its hash is computed from the current key set only: two Dicts with
// the same keys hash equal regardless of insertion order or of the
// values stored under those keys. [Dict.Equal] compares full contents
// and is consistent with the hash.
//
// Plain mappings (builtin Go maps, or [Mapping] implementors that are
// not hashable) supplied as keys or values are coerced, recursively,
// into fresh Dicts, so arbitrarily nested structures stay hashable.
// Anything that is neither hashable nor a mapping is rejected.
//
// A Dict may carry a factory, a zero-argument function invoked by
// [Dict.Get] on a missing key; the result is inserted under that key
// and returned, and the factory is never invoked again for a key that
// has been materialized.
//
// Contents round-trip to and from JSON text through
// github.com/goccy/go-json; see [Dict.ToJSON] and [FromJSON].
package hashdict

import (
	"hash/maphash"
	"iter"

	"github.com/pkg/errors"
)

// Dict is a hashable, insertion-ordered mapping.
//
// Key equality is the dynamic equality of the stored values: an
// int64(1) key and a float64(1) key are distinct. Keys implementing
// [Hashable] (including *Dict itself) use their own equivalence
// relation instead.
//
// The zero Dict is an empty dictionary ready for use, and a nil *Dict
// is a valid empty dictionary for read-only operations.
//
// A Dict provides no internal synchronization. Read-only operations
// may be called concurrently with each other, but mutation requires an
// exclusive owner. Do not mutate a Dict while it is stored as a key
// inside another Dict: its hash would change under its host.
type Dict struct {
	table   map[uint64][]int // key hash -> positions in entries
	entries []entry          // insertion order; deleted entries become tombstones
	length  int
	factory func() any
}

type entry struct {
	key, val any
	hash     uint64
	used     bool
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return d.length
}

// IsEmpty reports whether the Dict has no entries.
func (d *Dict) IsEmpty() bool {
	return d.Len() == 0
}

// probeKey normalizes a lookup key the same way Set normalizes an
// inserted key, so that a plain mapping probe finds the coerced Dict
// stored for it.
func probeKey(key any) any {
	if isHashable(key) {
		return key
	}
	if _, ok := asMapping(key); ok {
		if ck, err := FromMapping(key); err == nil {
			return ck
		}
	}
	return key
}

// find locates the entry for key, if present.
func (d *Dict) find(key any) (int, bool) {
	if d == nil || d.table == nil {
		return -1, false
	}
	key = probeKey(key)
	if !isHashable(key) {
		return -1, false
	}
	for _, i := range d.table[hashOf(key)] {
		if d.entries[i].used && equalValues(key, d.entries[i].key) {
			return i, true
		}
	}
	return -1, false
}

// Set stores value under key, overwriting any previous value. A key
// that already exists keeps its original position; a new key is
// appended.
//
// A key or value that is a non-hashable mapping is replaced by a new
// Dict holding the same entries (recursively). A key or value that is
// neither hashable nor a mapping is rejected: the value is checked
// first ([ErrUnhashableValue]), then the key ([ErrUnhashableKey]), and
// the Dict is not modified.
func (d *Dict) Set(key, value any) error {
	if d == nil {
		panic("(*Dict).Set called on nil *Dict")
	}
	if _, ok := asMapping(key); ok && !isHashable(key) {
		ck, err := FromMapping(key)
		if err != nil {
			return err
		}
		key = ck
	}
	if _, ok := asMapping(value); ok && !isHashable(value) {
		cv, err := FromMapping(value)
		if err != nil {
			return err
		}
		value = cv
	} else if !isHashable(value) {
		return errors.Wrapf(ErrUnhashableValue, "%T", value)
	}
	if !isHashable(key) {
		return errors.Wrapf(ErrUnhashableKey, "%T", key)
	}
	d.set(key, value)
	return nil
}

// set stores an already-normalized entry.
func (d *Dict) set(key, value any) {
	if d.table == nil {
		d.table = make(map[uint64][]int)
	}
	hv := hashOf(key)
	for _, i := range d.table[hv] {
		e := &d.entries[i]
		if e.used && equalValues(key, e.key) {
			e.val = value
			return
		}
	}
	d.entries = append(d.entries, entry{key: key, val: value, hash: hv, used: true})
	d.table[hv] = append(d.table[hv], len(d.entries)-1)
	d.length++
}

// Lookup returns the value stored under key and reports whether the
// key is present. It never invokes the factory.
func (d *Dict) Lookup(key any) (any, bool) {
	if i, ok := d.find(key); ok {
		return d.entries[i].val, true
	}
	return nil, false
}

// Get returns the value stored under key.
//
// If the key is absent and the Dict has a factory, the factory is
// invoked once, its result is inserted under the key through [Dict.Set]
// and the stored (possibly coerced) value is returned. If the key is
// absent and there is no factory, Get fails with [ErrKeyNotFound].
func (d *Dict) Get(key any) (any, error) {
	if i, ok := d.find(key); ok {
		return d.entries[i].val, nil
	}
	if d == nil || d.factory == nil {
		return nil, errors.Wrapf(ErrKeyNotFound, "%v", key)
	}
	if err := d.Set(key, d.factory()); err != nil {
		return nil, err
	}
	i, _ := d.find(key)
	return d.entries[i].val, nil
}

// Delete removes the entry for key, if present, returning the removed
// value and reporting whether it was found. The entry slot is not
// compacted, to preserve iterator behavior.
func (d *Dict) Delete(key any) (any, bool) {
	i, ok := d.find(key)
	if !ok {
		return nil, false
	}
	e := &d.entries[i]
	old := e.val
	hv := e.hash
	*e = entry{}
	b := d.table[hv]
	for j, bi := range b {
		if bi == i {
			d.table[hv] = append(b[:j], b[j+1:]...)
			break
		}
	}
	d.length--
	return old, true
}

// Merge inserts every entry of m, a [Mapping] implementor or builtin
// Go map, through [Dict.Set]. Entries are inserted independently in
// sequence: a failure partway through leaves earlier entries in place.
func (d *Dict) Merge(m any) error {
	seq, ok := asMapping(m)
	if !ok {
		return errors.Wrapf(ErrArguments, "cannot merge %T", m)
	}
	for k, v := range seq {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns a hash of the current key set. It is independent of
// insertion order and of the stored values: two Dicts with equal key
// sets hash equal. The hash of an empty Dict is 0.
//
// Hashes are stable only within a process; they are seeded per run.
func (d *Dict) Hash() uint64 {
	if d == nil {
		return 0
	}
	var sum uint64
	for i := range d.entries {
		if d.entries[i].used {
			sum ^= d.entries[i].hash
		}
	}
	return sum
}

// WriteHash implements [Hashable] by writing the key-set hash to h.
func (d *Dict) WriteHash(h *maphash.Hash) {
	maphash.WriteComparable(h, d.Hash())
}

// Equal implements [Hashable]. It reports whether x is a *Dict with
// the same keys mapping to equal values. Unlike [Dict.Hash], equality
// does consider values, so equal Dicts always hash equal but not the
// reverse.
func (d *Dict) Equal(x any) bool {
	od, ok := x.(*Dict)
	if !ok {
		return false
	}
	if d.Len() != od.Len() {
		return false
	}
	for k, v := range d.All() {
		ov, ok := od.Lookup(k)
		if !ok || !equalValues(v, ov) {
			return false
		}
	}
	return true
}

// All returns an iterator over (key, value) pairs in insertion order.
//
// If the caller mutates the Dict while iterating, the usual Go
// map-style caveats apply: deleting an unseen entry guarantees it
// won't be yielded; inserting a new entry may or may not be seen.
func (d *Dict) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		if d == nil {
			return
		}
		for i := range d.entries {
			if d.entries[i].used {
				if !yield(d.entries[i].key, d.entries[i].val) {
					return
				}
			}
		}
	}
}

// Keys returns an iterator over keys in insertion order.
func (d *Dict) Keys() iter.Seq[any] {
	return func(yield func(any) bool) {
		for k := range d.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over values in insertion order.
func (d *Dict) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range d.All() {
			if !yield(v) {
				return
			}
		}
	}
}
