// Package cart holds the in-session service cart and its derived totals.
package cart

import (
	"regexp"
	"strconv"
)

// TaxRate is the flat tax applied to the cart subtotal
const TaxRate = 0.08

var priceToken = regexp.MustCompile(`\$(\d+)`)

// Item is a cart-eligible service, validated when first added
type Item struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

// Totals are the derived monetary amounts for a cart
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"` // always free
	Total    float64 `json:"total"`
}

// Cart is the session-scoped list of chosen services
type Cart struct {
	Items []Item `json:"items"`
}

// ParsePrice extracts a leading "$<integer>" token from a price label.
// Labels without a numeric token price at 0.
func ParsePrice(label string) float64 {
	m := priceToken.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(n)
}

// Add puts a service into the cart. Adding an id already present
// increments its quantity instead of creating a second entry.
func (c *Cart) Add(id, title, description, category, priceLabel string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, Item{
		ID:          id,
		Title:       title,
		Description: description,
		Price:       ParsePrice(priceLabel),
		Quantity:    1,
		Category:    category,
	})
}

// UpdateQuantity adds delta to an item's quantity. A result of zero or
// below removes the item; quantity never lingers at zero.
func (c *Cart) UpdateQuantity(id string, delta int) {
	for i := range c.Items {
		if c.Items[i].ID != id {
			continue
		}
		newQuantity := c.Items[i].Quantity + delta
		if newQuantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = newQuantity
		}
		return
	}
}

// Remove deletes an item regardless of quantity
func (c *Cart) Remove(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
}

// Count returns the total quantity across all items
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Totals derives subtotal, tax and total. Shipping is always free.
func (c *Cart) Totals() Totals {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: 0,
		Total:    subtotal + tax,
	}
}
