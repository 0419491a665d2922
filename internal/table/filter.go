package table

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownDimension = errors.New("unknown filter dimension")
	ErrUnknownValue     = errors.New("unknown filter value")
)

// Dimension is a categorical attribute rows can be filtered by
type Dimension string

const (
	Race     Dimension = "race"
	Category Dimension = "category"
	License  Dimension = "license"
)

// Dimensions lists the filterable dimensions in display order
var Dimensions = []Dimension{Race, Category, License}

// ParseDimension validates a dimension name
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Classifier returns the values a row holds in a dimension.
// Race and category hold at most one value, licenses any number.
type Classifier[T any] func(T, Dimension) []string

// FilterEntry is one checkbox of a dimension
type FilterEntry struct {
	Value    string `json:"value"`
	Included bool   `json:"included"`
}

// FilterState maps every observed value of each dimension to an inclusion flag.
// Its key sets are populated once from the dataset and never change afterwards.
type FilterState struct {
	dims map[Dimension]map[string]bool
}

// NewFilterState populates the given dimensions from rows, everything included
func NewFilterState[T any](rows []T, classify Classifier[T], dims ...Dimension) *FilterState {
	f := &FilterState{dims: make(map[Dimension]map[string]bool, len(dims))}
	for _, d := range dims {
		InitFilter(f, rows, d, classify)
	}
	return f
}

// InitFilter (re)populates one dimension with a true entry per distinct value in rows
func InitFilter[T any](f *FilterState, rows []T, dim Dimension, classify Classifier[T]) {
	if f.dims == nil {
		f.dims = make(map[Dimension]map[string]bool)
	}
	values := make(map[string]bool)
	for _, r := range rows {
		for _, v := range classify(r, dim) {
			if v != "" {
				values[v] = true
			}
		}
	}
	f.dims[dim] = values
}

// Toggle flips the flag of value in dim and returns its new state.
// Unknown dimensions or values leave the state untouched.
func (f *FilterState) Toggle(dim Dimension, value string) (bool, error) {
	values, ok := f.dims[dim]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	included, ok := values[value]
	if !ok {
		return false, fmt.Errorf("%w: %q in %s", ErrUnknownValue, value, dim)
	}
	values[value] = !included
	return !included, nil
}

// Included reports the flag of value in dim. Values outside the key set count as included.
func (f *FilterState) Included(dim Dimension, value string) bool {
	included, ok := f.dims[dim][value]
	return !ok || included
}

// Allows applies the any-of rule on every dimension: a row passes a dimension
// when it holds no value there or when at least one held value is included.
func (f *FilterState) Allows(classes func(Dimension) []string) bool {
	for dim := range f.dims {
		if !f.allowsIn(dim, classes(dim)) {
			return false
		}
	}
	return true
}

func (f *FilterState) allowsIn(dim Dimension, values []string) bool {
	held := false
	for _, v := range values {
		if v == "" {
			continue
		}
		held = true
		if f.Included(dim, v) {
			return true
		}
	}
	return !held
}

// Entries returns the checkboxes of dim sorted by value
func (f *FilterState) Entries(dim Dimension) []FilterEntry {
	values := f.dims[dim]
	entries := make([]FilterEntry, 0, len(values))
	for v, included := range values {
		entries = append(entries, FilterEntry{Value: v, Included: included})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	return entries
}

// Has reports whether dim is populated
func (f *FilterState) Has(dim Dimension) bool {
	_, ok := f.dims[dim]
	return ok
}

// Clone returns an independent copy
func (f *FilterState) Clone() *FilterState {
	c := &FilterState{dims: make(map[Dimension]map[string]bool, len(f.dims))}
	for dim, values := range f.dims {
		cv := make(map[string]bool, len(values))
		for v, included := range values {
			cv[v] = included
		}
		c.dims[dim] = cv
	}
	return c
}

// Predicate binds the filter to a row type
func Predicate[T any](f *FilterState, classify Classifier[T]) func(T) bool {
	return func(row T) bool {
		return f.Allows(func(d Dimension) []string { return classify(row, d) })
	}
}

// Apply keeps the rows the filter accepts, in order
func Apply[T any](f *FilterState, rows []T, classify Classifier[T]) []T {
	return Filter(rows, Predicate(f, classify))
}
