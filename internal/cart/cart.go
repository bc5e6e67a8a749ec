package cart

import (
	"fmt"
	"log"
	"strings"
)

// Delivery pricing. Subtotals at or above the threshold ship free.
const (
	FreeShippingThreshold int64 = 2000
	ShippingFee           int64 = 300
)

type Line struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	Shipping     int64 `json:"shipping"`
	Total        int64 `json:"total"`
	Remaining    int64 `json:"remaining"`
	FreeShipping bool  `json:"free_shipping"`
}

// Store is the persistence collaborator: load once at construction, save
// after every mutation. Implementations live outside this package.
type Store interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

type Cart struct {
	lines []Line
	store Store
}

// New builds a cart, loading previously saved lines when a store is given.
// A store load failure is not fatal: the cart starts empty.
func New(store Store) *Cart {
	c := &Cart{store: store}
	if store != nil {
		lines, err := store.Load()
		if err != nil {
			log.Printf("cart: load failed, starting empty: %v", err)
		} else {
			c.lines = lines
		}
	}
	return c
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Add appends a line, or bumps quantity if the product is already present.
func (c *Cart) Add(line Line) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity += line.Quantity
			c.persist()
			return
		}
	}
	c.lines = append(c.lines, line)
	c.persist()
}

func (c *Cart) Increment(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity++
			c.persist()
			return
		}
	}
}

// Decrement lowers a line's quantity. Decrementing below 1 is a no-op, not
// an error and not a removal.
func (c *Cart) Decrement(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if c.lines[i].Quantity > 1 {
				c.lines[i].Quantity--
				c.persist()
			}
			return
		}
	}
}

func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist()
			return
		}
	}
}

// Totals derives the order totals. An empty cart is all zeros: no shipping
// fee applies when there is nothing to ship.
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, l := range c.lines {
		subtotal += l.Price * int64(l.Quantity)
	}

	t := Totals{Subtotal: subtotal}
	t.FreeShipping = subtotal >= FreeShippingThreshold
	if !t.FreeShipping {
		t.Remaining = FreeShippingThreshold - subtotal
	}
	if subtotal > 0 && !t.FreeShipping {
		t.Shipping = ShippingFee
	}
	t.Total = subtotal + t.Shipping
	return t
}

// Sample returns one representative product title, used by the order
// completion callback. Empty string for an empty cart.
func (c *Cart) Sample() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[0].Title
}

// Describe renders a human-readable line-item summary for the payment
// gateway's order description field.
func (c *Cart) Describe() string {
	parts := make([]string, len(c.lines))
	for i, l := range c.lines {
		parts[i] = fmt.Sprintf("%s x%d", l.Title, l.Quantity)
	}
	return strings.Join(parts, ", ")
}

// persist saves after a mutation. A save failure only loses durability, so
// it is logged and the in-memory cart stays authoritative.
func (c *Cart) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.Lines()); err != nil {
		log.Printf("cart: save failed: %v", err)
	}
}
