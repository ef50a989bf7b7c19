package hashdict

import (
	"hash/maphash"
	"iter"
	"reflect"
)

// seed is shared by every Dict in the process so that hashes of equal
// values agree across instances.
var seed = maphash.MakeSeed()

// A Hashable defines its own content hash and equivalence relation.
//
// WriteHash must write a representation of the value to h, and Equal
// must report whether the value is equivalent to x. The two must be
// consistent: if Equal(x, y) is true then x and y must write identical
// hashes.
//
// Values implementing Hashable are stored in a Dict as-is, even when
// they are also mappings.
type Hashable interface {
	WriteHash(h *maphash.Hash)
	Equal(x any) bool
}

// A Mapping is a map-like value whose entries can be enumerated.
// Mapping implementors are accepted wherever a Dict accepts a mapping:
// as a constructor argument, a Merge source, or a key or value subject
// to coercion. Builtin Go maps are accepted in the same places; they
// are detected dynamically.
type Mapping interface {
	All() iter.Seq2[any, any]
	Len() int
}

// isHashable reports whether v may be stored in a Dict as a key or
// value: its dynamic type is comparable and hashes cleanly, or it
// implements Hashable.
func isHashable(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(Hashable); ok {
		return true
	}
	if !reflect.TypeOf(v).Comparable() {
		return false
	}
	return canWriteHash(v)
}

// canWriteHash reports whether maphash accepts v at runtime. A value
// of a comparable type can still be unhashable when it contains an
// unhashable dynamic value, e.g. a [2]any holding a slice, or a struct
// whose interface field holds a map.
func canWriteHash(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	var h maphash.Hash
	h.SetSeed(seed)
	maphash.WriteComparable(&h, v)
	return true
}

// asMapping returns an enumerator over v's entries if v is map-like:
// a Mapping implementor or any builtin Go map. Entries of a builtin
// map are enumerated in unspecified order.
func asMapping(v any) (iter.Seq2[any, any], bool) {
	if m, ok := v.(Mapping); ok {
		return m.All(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	return func(yield func(any, any) bool) {
		it := rv.MapRange()
		for it.Next() {
			if !yield(it.Key().Interface(), it.Value().Interface()) {
				return
			}
		}
	}, true
}

// writeValueHash writes the hash of a single stored value to h.
// The value must satisfy isHashable.
func writeValueHash(h *maphash.Hash, v any) {
	if hv, ok := v.(Hashable); ok {
		hv.WriteHash(h)
		return
	}
	maphash.WriteComparable(h, v)
}

// hashOf returns the seeded hash sum of a single stored value.
func hashOf(v any) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeValueHash(&h, v)
	return h.Sum64()
}

// equalValues reports whether two values are equivalent. Hashable
// values use their own relation; everything else compares with ==.
// Values that are not hashable compare equal to nothing.
func equalValues(a, b any) bool {
	if ha, ok := a.(Hashable); ok {
		return ha.Equal(b)
	}
	if hb, ok := b.(Hashable); ok {
		return hb.Equal(a)
	}
	if !isHashable(a) || !isHashable(b) {
		return false
	}
	return a == b
}
