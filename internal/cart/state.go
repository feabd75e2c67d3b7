// Package cart keeps the shopping cart: pure aggregation helpers over State and
// a Store/Service pair that persists every mutation.
package cart

import (
	"encoding/json"

	"github.com/smarttech/storefront/internal/storefront"
)

// Line pairs a product snapshot with a quantity. Quantity is always > 0 in a
// well-formed cart.
type Line struct {
	Product  *storefront.Product `json:"product"`
	Quantity int                 `json:"quantity"`
}

// State is the ordered list of cart lines, at most one per product id. It
// serializes as a bare JSON array.
type State struct {
	Lines []Line
}

func (s State) MarshalJSON() ([]byte, error) {
	if s.Lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Lines)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	s.Lines = lines
	return nil
}

// Empty reports whether the cart has no lines.
func (s State) Empty() bool {
	return len(s.Lines) == 0
}

// Find returns the line for productID.
func (s State) Find(productID int64) (Line, bool) {
	for _, line := range s.Lines {
		if line.Product != nil && line.Product.ID == productID {
			return line, true
		}
	}
	return Line{}, false
}

func (s State) clone() State {
	if s.Lines == nil {
		return State{}
	}
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines}
}

func (l Line) valid() bool {
	return l.Product != nil && l.Quantity > 0
}
