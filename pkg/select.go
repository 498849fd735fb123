package evoked

// Selector picks segment positions out of a SegmentSet. The three variants
// cover positional, range and condition-based selection; all selection goes
// through SegmentSet.Select, there is no type inspection of a generic key.
type Selector interface {
	positions(set *SegmentSet) ([]int, error)
}

// Select returns the view of the set described by the selector. The result
// shares the underlying Series and keeps the original segment order.
func (s *SegmentSet) Select(selector Selector) (*SegmentSet, error) {
	positions, err := selector.positions(s)
	if err != nil {
		return nil, err
	}
	return s.subset(positions), nil
}

// ByPosition selects a single segment. Negative indices count from the end.
func ByPosition(index int) Selector {
	return byPosition{index: index}
}

type byPosition struct {
	index int
}

func (p byPosition) positions(set *SegmentSet) ([]int, error) {
	i := p.index
	if i < 0 {
		i += set.Len()
	}
	if i < 0 || i >= set.Len() {
		return nil, &ErrIndexOutOfRange{Index: p.index, Length: set.Len()}
	}
	return []int{i}, nil
}

// ByRange selects [start, stop) with the given step. Negative bounds count
// from the end and out-of-range bounds clip silently, like slicing a
// sequence. A step below one is treated as one.
func ByRange(start, stop, step int) Selector {
	return byRange{start: start, stop: stop, step: step}
}

type byRange struct {
	start, stop, step int
}

func (r byRange) positions(set *SegmentSet) ([]int, error) {
	n := set.Len()
	start, stop, step := r.start, r.stop, r.step
	if step < 1 {
		step = 1
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	start = clamp(start, 0, n)
	stop = clamp(stop, 0, n)

	var positions []int
	for i := start; i < stop; i += step {
		positions = append(positions, i)
	}
	return positions, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ByCondition selects every segment whose label code belongs to a condition
// matching the query, either by full name or by a single `/`-component.
func ByCondition(key string) Selector {
	return byCondition{keys: []string{key}}
}

// ByAnyCondition selects the union over several condition queries, still in
// original segment order and without duplicates.
func ByAnyCondition(keys ...string) Selector {
	return byCondition{keys: keys}
}

type byCondition struct {
	keys []string
}

func (c byCondition) positions(set *SegmentSet) ([]int, error) {
	selected := make(map[int]bool)
	for _, key := range c.keys {
		if set.Conditions == nil {
			return nil, &ErrUnknownCondition{Key: key}
		}
		codes, err := set.Conditions.Codes(key)
		if err != nil {
			return nil, err
		}
		for _, code := range codes {
			selected[code] = true
		}
	}
	var positions []int
	for i, segment := range set.Segments {
		if selected[segment.Label] {
			positions = append(positions, i)
		}
	}
	return positions, nil
}
