package traversal

import "github.com/helixdb/helix-core/pkg/value"

// Predicate tests one item, used by FilterRef/FilterMut.
type Predicate func(Item) bool

// CheckProperty yields the named property's Value for every upstream
// item that has it, as a KindValue item that keeps flowing through
// downstream steps (spec §4.8 `check_property`: "yields the Value").
// Items without the property, or without properties at all, are
// dropped.
func (t *Traversal) CheckProperty(name string) *Traversal {
	return t.step(func(up pull) pull {
		return func() (Item, bool, error) {
			for {
				it, ok, err := up()
				if err != nil || !ok {
					return Item{}, ok, err
				}
				props := it.properties()
				if props == nil {
					continue
				}
				if v, ok := props.Get(name); ok {
					return valueItem(v), true, nil
				}
			}
		}
	})
}

// FilterRef drops every item for which pred returns false (spec §4.8
// `filter_ref`). Both filter_ref and filter_mut apply the same
// predicate semantics in this engine — Go has no borrow-checker
// distinction between a read-only and a held-for-mutation reference —
// so FilterMut is an alias kept for source-level symmetry with the
// upstream step vocabulary.
func (t *Traversal) FilterRef(pred Predicate) *Traversal {
	return t.step(func(up pull) pull {
		return func() (Item, bool, error) {
			for {
				it, ok, err := up()
				if err != nil || !ok {
					return Item{}, ok, err
				}
				if pred(it) {
					return it, true, nil
				}
			}
		}
	})
}

// FilterMut is FilterRef under the step name spec §4.8 uses for the
// mutation-intent variant (`filter_mut`).
func (t *Traversal) FilterMut(pred Predicate) *Traversal {
	return t.FilterRef(pred)
}

// Props projects every upstream item to a KindValue item wrapping its
// property object, dropping items that have none (spec §4.8
// `props()`).
func (t *Traversal) Props() *Traversal {
	return t.step(func(up pull) pull {
		return func() (Item, bool, error) {
			for {
				it, ok, err := up()
				if err != nil || !ok {
					return Item{}, ok, err
				}
				if p := it.properties(); p != nil {
					return valueItem(value.Obj(p)), true, nil
				}
			}
		}
	})
}

// PropertyPredicate builds a Predicate that compares item's named
// property against v using cmp (spec §4.8's boolean ops: eq, neq, gt,
// gte, lt, lte). An item without the property, or without properties,
// never matches.
func PropertyPredicate(name string, cmp func(value.Ordering) bool, v value.Value) Predicate {
	return func(it Item) bool {
		props := it.properties()
		if props == nil {
			return false
		}
		got, ok := props.Get(name)
		if !ok {
			return false
		}
		return cmp(value.Compare(got, v))
	}
}

func Eq(name string, v value.Value) Predicate {
	return PropertyPredicate(name, func(o value.Ordering) bool { return o == value.Equal }, v)
}

func Neq(name string, v value.Value) Predicate {
	return PropertyPredicate(name, func(o value.Ordering) bool { return o != value.Equal }, v)
}

func Gt(name string, v value.Value) Predicate {
	return PropertyPredicate(name, func(o value.Ordering) bool { return o == value.Greater }, v)
}

func Gte(name string, v value.Value) Predicate {
	return PropertyPredicate(name, func(o value.Ordering) bool { return o != value.Less }, v)
}

func Lt(name string, v value.Value) Predicate {
	return PropertyPredicate(name, func(o value.Ordering) bool { return o == value.Less }, v)
}

func Lte(name string, v value.Value) Predicate {
	return PropertyPredicate(name, func(o value.Ordering) bool { return o != value.Greater }, v)
}

// Contains reports whether the named array-valued property contains an
// element equal to v (spec §4.8 `contains`).
func Contains(name string, v value.Value) Predicate {
	return func(it Item) bool {
		props := it.properties()
		if props == nil {
			return false
		}
		got, ok := props.Get(name)
		if !ok || got.Kind != value.KindArray {
			return false
		}
		for _, e := range got.Arr {
			if value.EqualValues(e, v) {
				return true
			}
		}
		return false
	}
}

// IsIn reports whether the named property's value equals one of set
// (spec §4.8 `is_in`).
func IsIn(name string, set []value.Value) Predicate {
	return func(it Item) bool {
		props := it.properties()
		if props == nil {
			return false
		}
		got, ok := props.Get(name)
		if !ok {
			return false
		}
		for _, v := range set {
			if value.EqualValues(got, v) {
				return true
			}
		}
		return false
	}
}
