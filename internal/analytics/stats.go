package analytics

import (
	"math"
	"sort"
)

// mean accumulates an average that ignores nulls, like SQL AVG.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m *mean) addInt(v *int64) {
	if v == nil {
		return
	}
	m.sum += float64(*v)
	m.n++
}

func (m *mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

// total accumulates an integer sum that ignores nulls, like SQL SUM.
type total struct {
	sum int64
	n   int
}

func (t *total) add(v *int64) {
	if v == nil {
		return
	}
	t.sum += *v
	t.n++
}

func (t *total) value() *int64 {
	if t.n == 0 {
		return nil
	}
	v := t.sum
	return &v
}

// sample collects non-null values for percentile computation.
type sample []float64

func (s *sample) add(v *float64) {
	if v != nil {
		*s = append(*s, *v)
	}
}

// Median is the continuous 50th percentile: linear interpolation between
// the two middle order statistics. It returns nil for an empty input.
func Median(values []float64) *float64 {
	return Percentile(values, 0.5)
}

// Percentile follows percentile_cont semantics for p in [0, 1].
func Percentile(values []float64, p float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	v := sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
	return &v
}

// CompetitionRank ranks values in descending order, rank 1 being the
// highest. Equal values share the lowest rank of their group and the next
// distinct value skips by the size of the group: [10, 10, 8] -> [1, 1, 3].
// Nulls rank after every value and tie with each other.
func CompetitionRank(values []*float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return compareDesc(values[idx[a]], values[idx[b]]) < 0
	})

	ranks := make([]int, len(values))
	for pos, i := range idx {
		if pos > 0 && compareDesc(values[idx[pos-1]], values[i]) == 0 {
			ranks[i] = ranks[idx[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}

// ratio divides and yields null on a null operand or a zero denominator.
func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

// compareDesc orders a before b when a is larger; nulls go last.
func compareDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}

func intPtrToFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func floatPtr(v float64) *float64 {
	return &v
}
