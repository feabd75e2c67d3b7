package cart

import "github.com/smarttech/storefront/internal/storefront"

// AddItem increments the line for product or appends a new one. A non-positive
// quantity or nil product returns s unchanged. s itself is never mutated.
func AddItem(s State, product *storefront.Product, quantity int) State {
	if product == nil || quantity <= 0 {
		return s
	}
	next := s.clone()
	for i, line := range next.Lines {
		if line.Product != nil && line.Product.ID == product.ID {
			next.Lines[i].Quantity += quantity
			return next
		}
	}
	next.Lines = append(next.Lines, Line{Product: product, Quantity: quantity})
	return next
}

// UpdateQuantity sets the quantity of productID. quantity <= 0 removes the line.
func UpdateQuantity(s State, productID int64, quantity int) State {
	if quantity <= 0 {
		return RemoveItem(s, productID)
	}
	next := s.clone()
	for i, line := range next.Lines {
		if line.Product != nil && line.Product.ID == productID {
			next.Lines[i].Quantity = quantity
		}
	}
	return next
}

func RemoveItem(s State, productID int64) State {
	next := State{}
	for _, line := range s.Lines {
		if line.Product != nil && line.Product.ID == productID {
			continue
		}
		next.Lines = append(next.Lines, line)
	}
	return next
}

// TotalPrice is the plain float sum of price*quantity. Rounding is left to
// FormatPrice.
func TotalPrice(s State) float64 {
	var total float64
	for _, line := range s.Lines {
		if !line.valid() {
			continue
		}
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

func TotalItems(s State) int {
	var total int
	for _, line := range s.Lines {
		if !line.valid() {
			continue
		}
		total += line.Quantity
	}
	return total
}

// LineTotal is price*quantity for a single line.
func LineTotal(l Line) float64 {
	if !l.valid() {
		return 0
	}
	return l.Product.Price * float64(l.Quantity)
}

// Sanitize drops lines without a product or with a non-positive quantity and
// merges duplicate product lines into the first occurrence. It returns the
// cleaned state and how many stored lines were dropped or merged.
func Sanitize(s State) (State, int) {
	clean := State{}
	index := map[int64]int{}
	dropped := 0
	for _, line := range s.Lines {
		if !line.valid() {
			dropped++
			continue
		}
		if i, ok := index[line.Product.ID]; ok {
			clean.Lines[i].Quantity += line.Quantity
			dropped++
			continue
		}
		index[line.Product.ID] = len(clean.Lines)
		clean.Lines = append(clean.Lines, line)
	}
	return clean, dropped
}
