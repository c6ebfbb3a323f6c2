package settlement

// Line is one product in a visit working set.
type Line struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Lines is an ordered working set of products, at most one line per product.
// The zero value is empty and ready to use.
type Lines struct {
	items []Line
}

// NewLines builds a working set through Add and SetQuantity, so duplicate
// products collapse onto their first position (last quantity wins) and
// non-positive quantities drop the line.
func NewLines(seed ...Line) *Lines {
	l := &Lines{}
	for _, s := range seed {
		l.Add(s.ProductID)
		l.SetQuantity(s.ProductID, s.Quantity)
	}
	return l
}

func (l *Lines) index(productID uint) int {
	for i, it := range l.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add appends the product with quantity 1. Adding a product already in the
// set is a no-op and reports false.
func (l *Lines) Add(productID uint) bool {
	if l.index(productID) >= 0 {
		return false
	}
	l.items = append(l.items, Line{ProductID: productID, Quantity: 1})
	return true
}

// SetQuantity updates a line. A quantity of zero or less removes it.
// Unknown products are ignored.
func (l *Lines) SetQuantity(productID uint, qty int) {
	i := l.index(productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
		return
	}
	l.items[i].Quantity = qty
}

// Quantity returns the product's quantity, 0 when absent.
func (l *Lines) Quantity(productID uint) int {
	if i := l.index(productID); i >= 0 {
		return l.items[i].Quantity
	}
	return 0
}

// Len is the number of lines.
func (l *Lines) Len() int { return len(l.items) }

// Units is the total quantity across lines.
func (l *Lines) Units() int {
	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the lines in insertion order.
func (l *Lines) Items() []Line {
	out := make([]Line, len(l.items))
	copy(out, l.items)
	return out
}
