package hashdict_test

import (
	"slices"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/hdict/hashdict"
)

func TestConstructionFormsEquivalent(t *testing.T) {
	fromPairs := mustNew(t,
		hashdict.Entry{Key: "a", Value: 1},
		hashdict.Entry{Key: "b", Value: 2},
	)
	fromFlat := mustNew(t, "a", 1, "b", 2)
	fromMapping := mustNew(t, map[string]any{"a": 1, "b": 2})

	qt.Assert(t, qt.IsTrue(fromPairs.Equal(fromFlat)))
	qt.Assert(t, qt.IsTrue(fromFlat.Equal(fromMapping)))
	qt.Assert(t, qt.Equals(fromPairs.Hash(), fromMapping.Hash()))
}

func TestPairFormShapes(t *testing.T) {
	d := mustNew(t,
		hashdict.Entry{Key: "a", Value: 1},
		[2]any{"b", 2},
		[]any{"c", 3},
	)
	qt.Assert(t, qt.Equals(d.Len(), 3))
	qt.Assert(t, qt.DeepEquals(slices.Collect(d.Keys()), []any{"a", "b", "c"}))
}

func TestEmptyForm(t *testing.T) {
	d := mustNew(t)
	qt.Assert(t, qt.IsTrue(d.IsEmpty()))
}

func TestOddFlatArgs(t *testing.T) {
	_, err := hashdict.New("a", 1, "b")
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))
}

func TestMalformedShapes(t *testing.T) {
	// A single non-mapping argument is no recognized shape.
	_, err := hashdict.New("a")
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))

	// Mixing pair-form and scalar arguments is no recognized shape
	// either: pair detection fails, and three arguments make an odd
	// flat list.
	_, err = hashdict.New(hashdict.Entry{Key: "a", Value: 1}, "b", hashdict.Entry{Key: "c", Value: 2})
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))

	// A pair whose component is an unhashable non-mapping fails pair
	// detection and falls through to the shape error.
	_, err = hashdict.New([]any{"a", []int{1}})
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))
}

func TestDuplicatePositionalKeysLastWins(t *testing.T) {
	d := mustNew(t, "a", 1, "b", 2, "a", 3)
	qt.Assert(t, qt.Equals(d.Len(), 2))

	v, _ := d.Lookup("a")
	qt.Assert(t, qt.Equals(v, any(3)))
	// The duplicate keeps the first position.
	qt.Assert(t, qt.DeepEquals(slices.Collect(d.Keys()), []any{"a", "b"}))
}

func TestValuesMergedLast(t *testing.T) {
	d := mustNew(t, "a", 1, "b", 2,
		hashdict.Values{Mapping: map[string]any{"a": 100, "c": 3}},
	)
	qt.Assert(t, qt.Equals(d.Len(), 3))

	v, _ := d.Lookup("a")
	qt.Assert(t, qt.Equals(v, any(100)))
	v, _ = d.Lookup("c")
	qt.Assert(t, qt.Equals(v, any(3)))
}

func TestValuesNonMapping(t *testing.T) {
	_, err := hashdict.New("a", 1, hashdict.Values{Mapping: "x"})
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))

	// A nil Values mapping is ignored.
	d := mustNew(t, "a", 1, hashdict.Values{})
	qt.Assert(t, qt.Equals(d.Len(), 1))
}

func TestFactoryOptionAnywhere(t *testing.T) {
	d := mustNew(t, "a", 1,
		hashdict.Factory(func() any { return "made" }),
		"b", 2,
	)
	qt.Assert(t, qt.Equals(d.Len(), 2))

	v, err := d.Get("missing")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v, any("made")))
}

func TestMappingFormFromDict(t *testing.T) {
	src := mustNew(t, "a", 1, "b", 2)
	d := mustNew(t, src)

	qt.Assert(t, qt.IsTrue(d.Equal(src)))
	// The copy is independent of the source.
	qt.Assert(t, qt.IsNil(d.Set("c", 3)))
	qt.Assert(t, qt.Equals(src.Len(), 2))
	qt.Assert(t, qt.DeepEquals(slices.Collect(d.Keys()), []any{"a", "b", "c"}))
}

func TestMappingFormCoercesNested(t *testing.T) {
	d := mustNew(t, map[string]any{
		"cfg": map[string]any{"x": 1},
	})
	v, ok := d.Lookup("cfg")
	qt.Assert(t, qt.IsTrue(ok))
	nested, ok := v.(*hashdict.Dict)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(nested.Equal(mustNew(t, "x", 1))))
}

func TestConstructionRejectsUnhashableValue(t *testing.T) {
	_, err := hashdict.New("a", []int{1, 2})
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrUnhashableValue))
}

func TestFromPairs(t *testing.T) {
	d, err := hashdict.FromPairs(
		hashdict.Entry{Key: "a", Value: 1},
		hashdict.Entry{Key: "b", Value: map[string]any{"x": 1}}, // coerced
	)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(d.Len(), 2))

	v, _ := d.Lookup("b")
	_, ok := v.(*hashdict.Dict)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestFromFlatList(t *testing.T) {
	d, err := hashdict.FromFlatList("a", 1, "b", 2)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(d.Equal(mustNew(t, "a", 1, "b", 2))))

	_, err = hashdict.FromFlatList("a", 1, "b")
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))
}

func TestFromMapping(t *testing.T) {
	d, err := hashdict.FromMapping(map[string]int{"a": 1, "b": 2})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(d.Equal(mustNew(t, "a", 1, "b", 2))))

	_, err = hashdict.FromMapping(42)
	qt.Assert(t, qt.ErrorIs(err, hashdict.ErrArguments))
}
