package table

import (
	"math"
	"strings"
)

// Value is what an accessor extracts for comparison: a number or a text.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number wraps a numeric attribute. NaN is stored as 0 so it never breaks the total order.
func Number(f float64) Value {
	if math.IsNaN(f) {
		f = 0
	}
	return Value{num: f}
}

// Text wraps a string attribute
func Text(s string) Value {
	return Value{text: s, isText: true}
}

// Compare orders numbers numerically and texts lexicographically.
// Numbers sort before texts.
func Compare(a, b Value) int {
	switch {
	case a.isText && b.isText:
		return strings.Compare(a.text, b.text)
	case a.isText:
		return 1
	case b.isText:
		return -1
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	}
	return 0
}

// Accessor extracts the sort key of a column from a row
type Accessor[T any] func(T) Value

// Column describes one table column. A nil Accessor marks it unsortable.
type Column[T any] struct {
	Label    string
	Accessor Accessor[T]
}

// Sortable reports whether the column has an accessor
func (c Column[T]) Sortable() bool {
	return c.Accessor != nil
}

// Columns is the ordered column set of a table, fixed for its lifetime.
type Columns[T any] []Column[T]

// Lookup finds a column by label
func (cs Columns[T]) Lookup(label string) (Column[T], bool) {
	for _, c := range cs {
		if c.Label == label {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Labels returns the column labels in display order
func (cs Columns[T]) Labels() []string {
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = c.Label
	}
	return labels
}
