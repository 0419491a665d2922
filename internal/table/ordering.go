// Package table holds the sorting and filtering state shared by every
// catalog table: per-table ordering, column descriptors, the comparator
// built from them and the categorical filter.
package table

import (
	"encoding/json"
	"fmt"
)

// Direction of an active ordering
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// ParseDirection accepts "asc" or "desc"
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Ordering is the active sort column of one table and its direction.
// The zero value is the cleared state: rows keep their insertion order.
type Ordering struct {
	column    string
	direction Direction
}

// OrderBy returns an ordering on column. An empty column yields the cleared state.
func OrderBy(column string, direction Direction) Ordering {
	if column == "" || (direction != Ascending && direction != Descending) {
		return Ordering{}
	}
	return Ordering{column: column, direction: direction}
}

// Column reports the active column, if any
func (o Ordering) Column() (string, bool) {
	return o.column, o.column != ""
}

// Direction is 0 when the ordering is cleared
func (o Ordering) Direction() Direction {
	return o.direction
}

// IsCleared reports whether no column is active
func (o Ordering) IsCleared() bool {
	return o.column == ""
}

// Toggle cycles column through ascending, descending and cleared.
// Choosing a different column always starts over at ascending.
func (o Ordering) Toggle(column string) Ordering {
	if column == "" {
		return o
	}
	if o.column != column {
		return Ordering{column: column, direction: Ascending}
	}
	if o.direction == Ascending {
		return Ordering{column: column, direction: Descending}
	}
	return Ordering{}
}

func (o Ordering) String() string {
	if o.IsCleared() {
		return "none"
	}
	return o.column + " " + o.direction.String()
}

type orderingJSON struct {
	Column    string `json:"column,omitempty"`
	Direction string `json:"direction,omitempty"`
}

func (o Ordering) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderingJSON{Column: o.column, Direction: o.direction.String()})
}

func (o *Ordering) UnmarshalJSON(data []byte) error {
	var raw orderingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Column == "" {
		*o = Ordering{}
		return nil
	}
	dir, err := ParseDirection(raw.Direction)
	if err != nil {
		return err
	}
	*o = OrderBy(raw.Column, dir)
	return nil
}
