package session

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrExceedsStock = errors.New("cannot add more than available quantity")
	ErrNotInCart    = errors.New("item not in cart")
	ErrOutOfStock   = errors.New("item is out of stock")
)

// CartItem keeps the price seen when the item was added along with the stock
// available at that moment, which caps later increments.
type CartItem struct {
	ItemID    uint            `json:"item_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Available int             `json:"available"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart maps item id to cart entry.
type Cart map[uint]*CartItem

// Add puts one unit of an item in the cart, or one more if it is already there.
// An entry keeps the price it was first added at.
func (c Cart) Add(itemID uint, name string, price decimal.Decimal, available int) error {
	if available <= 0 {
		return ErrOutOfStock
	}
	if it, ok := c[itemID]; ok {
		it.Available = available
		return c.Increment(itemID)
	}
	c[itemID] = &CartItem{ItemID: itemID, Name: name, Price: price, Quantity: 1, Available: available}
	return nil
}

func (c Cart) Increment(itemID uint) error {
	it, ok := c[itemID]
	if !ok {
		return ErrNotInCart
	}
	if it.Quantity >= it.Available {
		return ErrExceedsStock
	}
	it.Quantity++
	return nil
}

// Decrement removes one unit; the entry disappears at zero.
func (c Cart) Decrement(itemID uint) error {
	it, ok := c[itemID]
	if !ok {
		return ErrNotInCart
	}
	it.Quantity--
	if it.Quantity <= 0 {
		delete(c, itemID)
	}
	return nil
}

func (c Cart) Remove(itemID uint) error {
	if _, ok := c[itemID]; !ok {
		return ErrNotInCart
	}
	delete(c, itemID)
	return nil
}

// Items returns the entries ordered by item id.
func (c Cart) Items() []CartItem {
	out := make([]CartItem, 0, len(c))
	for _, it := range c {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Count is the total number of units.
func (c Cart) Count() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (c Cart) Clear() {
	for k := range c {
		delete(c, k)
	}
}

func (c Cart) clone() Cart {
	cp := make(Cart, len(c))
	for k, v := range c {
		it := *v
		cp[k] = &it
	}
	return cp
}
