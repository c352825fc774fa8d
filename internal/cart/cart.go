package cart

import (
	"time"

	"github.com/anushka-j18/XURVA/internal/catalog"
)

// Line is one cart entry: a product snapshot plus quantity and the chosen
// variant. Two lines are the same entry only when product id, size and
// color all match.
type Line struct {
	catalog.Product `bson:",inline"`

	Quantity      int       `json:"quantity" bson:"quantity"`
	SelectedSize  string    `json:"selectedSize,omitempty" bson:"selected_size,omitempty"`
	SelectedColor string    `json:"selectedColor,omitempty" bson:"selected_color,omitempty"`
	AddedAt       time.Time `json:"addedAt" bson:"added_at"`
}

// matches reports whether the line has the given identity key.
func (l Line) matches(productID, size, color string) bool {
	return l.ID == productID && l.SelectedSize == size && l.SelectedColor == color
}

// Cart holds the in-progress cart for one storefront session. All mutation
// goes through the methods below; callers never touch Lines directly.
// Methods are not safe for concurrent use; the owning service serializes
// access per session.
type Cart struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	SessionID string    `json:"sessionId" bson:"session_id"`
	Lines     []Line    `json:"lines" bson:"lines"`
	Open      bool      `json:"open" bson:"open"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// AddItem merges into an existing line with the same (product, size, color)
// key by bumping its quantity, or appends a new line with quantity 1.
// It also opens the cart panel so the UI surfaces the change.
func (c *Cart) AddItem(p catalog.Product, size, color string) {
	for i := range c.Lines {
		if c.Lines[i].matches(p.ID, size, color) {
			c.Lines[i].Quantity++
			c.Open = true
			return
		}
	}

	c.Lines = append(c.Lines, Line{
		Product:       p,
		Quantity:      1,
		SelectedSize:  size,
		SelectedColor: color,
		AddedAt:       time.Now(),
	})
	c.Open = true
}

// RemoveItem drops every line for productID regardless of variant, matching
// the storefront UI where the cart row is keyed by product alone. Removing
// an absent id is a no-op.
func (c *Cart) RemoveItem(productID string) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

// UpdateQuantity sets the quantity on every line for productID. A quantity
// of zero or less removes the line(s) entirely, keeping the invariant that
// a stored line always has quantity >= 1.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines[i].Quantity = quantity
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the cart subtotal. Shipping and tax are checkout concerns,
// not the cart's.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) OpenCart()  { c.Open = true }
func (c *Cart) CloseCart() { c.Open = false }

func (c *Cart) ToggleCart() { c.Open = !c.Open }
