package hashdict

import "github.com/pkg/errors"

// Entry is a single key-value pair. It is the element type of
// [FromPairs] and is accepted by [New] as a pair-form positional
// argument.
type Entry struct {
	Key, Value any
}

// Factory is a default-value function. When passed to [New] among the
// positional arguments it is installed on the new Dict rather than
// inserted: [Dict.Get] invokes it on a missing key and stores the
// result under that key.
type Factory func() any

// Values carries a mapping merged into the new Dict after all
// positional entries, so its entries overwrite earlier ones with the
// same key. Pass it to [New] among the positional arguments.
// Wrapping a non-mapping fails construction with [ErrArguments]; a
// nil Mapping is ignored.
type Values struct {
	Mapping any
}

// New constructs a Dict from positional arguments in one of four
// shapes, tried in this order:
//
//  1. pair sequence: every argument is an [Entry], a [2]any, or a
//     []any of length two, with both components hashable;
//  2. flat alternating list: k1, v1, k2, v2, ... with an even count
//     and every key position hashable;
//  3. a single mapping ([Mapping] implementor or builtin Go map),
//     whose entries are copied in;
//  4. no arguments: an empty Dict.
//
// Any other shape fails with [ErrArguments].
//
// A [Factory] or [Values] argument may appear anywhere in the list and
// is removed before the shape is inspected. Duplicate keys among the
// positional entries resolve to the last value written, keeping the
// first position; the [Values] mapping is merged last and overwrites.
// Every entry is inserted through [Dict.Set], so mappings coerce and
// unhashable entries are rejected.
func New(args ...any) (*Dict, error) {
	var factory Factory
	var values any
	rest := make([]any, 0, len(args))
	for _, a := range args {
		switch a := a.(type) {
		case Factory:
			factory = a
		case Values:
			values = a.Mapping
		default:
			rest = append(rest, a)
		}
	}

	var named entryList
	switch {
	case isPairArgs(rest):
		for _, a := range rest {
			k, v, _ := pairOf(a)
			named.add(k, v)
		}
	case isFlatArgs(rest):
		for i := 1; i < len(rest); i += 2 {
			named.add(rest[i-1], rest[i])
		}
	case len(rest) == 1 && isMappingArg(rest[0]):
		seq, _ := asMapping(rest[0])
		for k, v := range seq {
			named.add(k, v)
		}
	case len(rest) == 0:
	default:
		return nil, errors.Wrap(ErrArguments,
			"an even number of arguments is required when keys and values are passed individually")
	}

	d := &Dict{factory: factory}
	for _, e := range named {
		if err := d.Set(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	if values != nil {
		if err := d.Merge(values); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromPairs constructs a Dict from key-value pairs, inserted in order
// through [Dict.Set]. Unlike the pair form of [New], a pair component
// that is a plain mapping is accepted and coerced.
func FromPairs(pairs ...Entry) (*Dict, error) {
	d := &Dict{}
	for _, p := range pairs {
		if err := d.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromFlatList constructs a Dict from an alternating key/value list.
// An odd-length list fails with [ErrArguments].
func FromFlatList(kvs ...any) (*Dict, error) {
	if len(kvs)%2 != 0 {
		return nil, errors.Wrap(ErrArguments, "odd flat key-value list")
	}
	d := &Dict{}
	for i := 1; i < len(kvs); i += 2 {
		if err := d.Set(kvs[i-1], kvs[i]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromMapping constructs a Dict holding the entries of m, a [Mapping]
// implementor or builtin Go map. This is the constructor used when a
// plain mapping is coerced into a Dict.
func FromMapping(m any) (*Dict, error) {
	d := &Dict{}
	if err := d.Merge(m); err != nil {
		return nil, err
	}
	return d, nil
}

// entryList accumulates constructor entries before insertion.
// Duplicate keys resolve to the last value written, keeping the first
// position.
type entryList []Entry

func (l *entryList) add(k, v any) {
	for i := range *l {
		if equalValues(k, (*l)[i].Key) {
			(*l)[i].Value = v
			return
		}
	}
	*l = append(*l, Entry{k, v})
}

// pairOf destructures a pair-form argument.
func pairOf(a any) (key, value any, ok bool) {
	switch p := a.(type) {
	case Entry:
		return p.Key, p.Value, true
	case [2]any:
		return p[0], p[1], true
	case []any:
		if len(p) == 2 {
			return p[0], p[1], true
		}
	}
	return nil, nil, false
}

// isPairArgs reports whether args is a non-empty pair sequence: every
// element destructures as a pair with both components hashable.
func isPairArgs(args []any) bool {
	if len(args) == 0 {
		return false
	}
	for _, a := range args {
		k, v, ok := pairOf(a)
		if !ok || !isHashable(k) || !isHashable(v) {
			return false
		}
	}
	return true
}

// isFlatArgs reports whether args is a non-empty alternating key/value
// list: even count, with every key position hashable. Value positions
// are not inspected here; insertion coerces or rejects them.
func isFlatArgs(args []any) bool {
	if len(args) == 0 || len(args)%2 != 0 {
		return false
	}
	for i := 0; i < len(args); i += 2 {
		if !isHashable(args[i]) {
			return false
		}
	}
	return true
}

// isMappingArg reports whether a is map-like.
func isMappingArg(a any) bool {
	_, ok := asMapping(a)
	return ok
}
