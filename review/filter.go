package review

import (
	"sort"
	"strings"
)

// AllInsurers is the selector entry that disables the insurer filter.
const AllInsurers = "Tous"

// IsAllInsurers reports whether the selection means "no filter".
func IsAllInsurers(selection string) bool {
	s := strings.TrimSpace(selection)
	return s == "" || s == AllInsurers || strings.EqualFold(s, "all")
}

// Insurers lists distinct insurer names in first-appearance order.
func Insurers(t *Table, cols Columns) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < t.Len(); i++ {
		name := t.Cell(i, cols.Insurer)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FilterByInsurer returns the rows whose insurer equals selection exactly.
// The "all" selection returns t unchanged.
func FilterByInsurer(t *Table, cols Columns, selection string) *Table {
	if t == nil || IsAllInsurers(selection) {
		return t
	}
	var idx []int
	for i := 0; i < t.Len(); i++ {
		if t.Cell(i, cols.Insurer) == selection {
			idx = append(idx, i)
		}
	}
	return t.subset(idx)
}

// RatingBucket counts reviews sharing one rating value.
type RatingBucket struct {
	Value float64
	Label string
	Count int
}

// RatingDistribution counts ratings in ascending order. The boolean is false when
// the table has no rating column.
func RatingDistribution(t *Table, cols Columns) ([]RatingBucket, bool) {
	if !t.HasColumn(cols.Rating) {
		return nil, false
	}
	counts := make(map[float64]int)
	for i := 0; i < t.Len(); i++ {
		if v, ok := parseRating(t.Cell(i, cols.Rating)); ok {
			counts[v]++
		}
	}
	buckets := make([]RatingBucket, 0, len(counts))
	for v, n := range counts {
		buckets = append(buckets, RatingBucket{Value: v, Label: FormatRating(v), Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Value < buckets[j].Value })
	return buckets, true
}

// ExampleReviews returns up to n non-blank reviews from the top of t, unmodified.
func ExampleReviews(t *Table, cols Columns, n int) []string {
	var out []string
	for i := 0; i < t.Len() && len(out) < n; i++ {
		if text := t.RawCell(i, cols.Review); strings.TrimSpace(text) != "" {
			out = append(out, text)
		}
	}
	return out
}
