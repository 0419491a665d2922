package table

import "slices"

// Comparator returns a negative number, zero or a positive number
type Comparator[T any] func(a, b T) int

func identity[T any](T, T) int { return 0 }

// BuildComparator turns the ordering into a comparator over rows.
// A cleared ordering, an unknown label and an unsortable column all yield
// the comparator that treats every pair as equal, which keeps insertion order
// under a stable sort. Descending negates the result rather than reversing rows,
// so ties keep their relative order in both directions.
func BuildComparator[T any](columns Columns[T], ordering Ordering) Comparator[T] {
	label, ok := ordering.Column()
	if !ok {
		return identity[T]
	}
	col, ok := columns.Lookup(label)
	if !ok || !col.Sortable() {
		return identity[T]
	}

	accessor := col.Accessor
	if ordering.Direction() == Descending {
		return func(a, b T) int {
			return -Compare(accessor(a), accessor(b))
		}
	}
	return func(a, b T) int {
		return Compare(accessor(a), accessor(b))
	}
}

// Sort returns a stably sorted copy of rows
func Sort[T any](rows []T, cmp Comparator[T]) []T {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, cmp)
	return out
}

// Filter returns the rows keep accepts, in order. A nil keep accepts all.
func Filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Arrange filters then sorts. Filtering always comes first: derived columns
// are only meaningful for rows that passed.
func Arrange[T any](rows []T, keep func(T) bool, columns Columns[T], ordering Ordering) []T {
	return Sort(Filter(rows, keep), BuildComparator(columns, ordering))
}
