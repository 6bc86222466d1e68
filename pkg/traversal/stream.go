package traversal

// pull is the lazy, pull-based generator every step is built from:
// calling it advances exactly one item of upstream work (spec §4.8:
// "consuming one output pulls exactly enough work upstream"). ok=false
// with a nil error signals a clean end of stream.
type pull func() (Item, bool, error)

func fromSlice(items []Item) pull {
	i := 0
	return func() (Item, bool, error) {
		if i >= len(items) {
			return Item{}, false, nil
		}
		it := items[i]
		i++
		return it, true, nil
	}
}

func single(it Item) pull {
	done := false
	return func() (Item, bool, error) {
		if done {
			return Item{}, false, nil
		}
		done = true
		return it, true, nil
	}
}

func empty() pull {
	return func() (Item, bool, error) { return Item{}, false, nil }
}

func failing(err error) pull {
	done := false
	return func() (Item, bool, error) {
		if done {
			return Item{}, false, nil
		}
		done = true
		return Item{}, false, err
	}
}

// drain pulls every remaining item off p.
func drain(p pull) ([]Item, error) {
	var out []Item
	for {
		it, ok, err := p()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, it)
	}
}
