package table

// Header is what a table view needs to draw one column heading
type Header struct {
	Label     string `json:"label"`
	Sortable  bool   `json:"sortable"`
	Direction string `json:"direction,omitempty"`
}

// Headers describes the column headings under the current ordering.
// Only the active column carries a direction.
func Headers[T any](columns Columns[T], ordering Ordering) []Header {
	active, _ := ordering.Column()
	headers := make([]Header, len(columns))
	for i, c := range columns {
		h := Header{Label: c.Label, Sortable: c.Sortable()}
		if h.Sortable && c.Label == active {
			h.Direction = ordering.Direction().String()
		}
		headers[i] = h
	}
	return headers
}
