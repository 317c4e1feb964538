package cart

import (
	"encoding/json"
	"fmt"
)

// Line is one entry in a cart: a (product, ram, ssd) combination with a price
// snapshotted at the moment it was added.
type Line struct {
	ProductID   string  `json:"product_id"`
	VariantID   string  `json:"variant_id,omitempty"`
	ProductName string  `json:"product_name"`
	RAM         string  `json:"ram"`
	SSD         string  `json:"ssd"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Key returns the logical identity of the line. At most one line per key exists
// in a cart.
func (l Line) Key() string {
	return LineKey(l.ProductID, l.RAM, l.SSD)
}

// LineKey builds the logical identity for a (productID, ram, ssd) combination.
func LineKey(productID, ram, ssd string) string {
	return productID + "|" + ram + "|" + ssd
}

// Storage is the durable home of a cart's serialized state. The cart writes its
// whole state on every mutation and reads it back once at construction.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// state is the persisted form of a cart.
type state struct {
	Lines   []Line          `json:"lines"`
	Checked map[string]bool `json:"checked"`
}

// Cart holds a visitor's selected lines and the checked subset that will go
// through checkout. Not safe for concurrent use; each request works on its own
// rehydrated copy and the storage is last-write-wins.
type Cart struct {
	storage Storage
	lines   []Line
	checked map[string]bool
}

// New rehydrates a cart from storage. A missing or corrupt payload yields an
// empty cart rather than an error.
func New(storage Storage) *Cart {
	c := &Cart{
		storage: storage,
		checked: make(map[string]bool),
	}
	data, err := storage.Load()
	if err != nil || len(data) == 0 {
		return c
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		// Corrupt payload: discard silently, start fresh.
		return c
	}
	c.lines = s.Lines
	if s.Checked != nil {
		c.checked = s.Checked
	}
	return c
}

// AddItem adds a line to the cart. If a line with the same (productID, ram, ssd)
// already exists its quantity is incremented by one instead; repeated adds never
// fail, they just increment.
func (c *Cart) AddItem(line Line) error {
	key := line.Key()
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity++
			return c.persist()
		}
	}
	line.Quantity = 1
	c.lines = append(c.lines, line)
	return c.persist()
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(productID, ram, ssd string) error {
	key := LineKey(productID, ram, ssd)
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// UpdateQuantity overwrites the matching line's quantity. A quantity of zero or
// less removes the line. Quantity is not bounded by available stock here.
func (c *Cart) UpdateQuantity(productID, ram, ssd string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(productID, ram, ssd)
	}
	key := LineKey(productID, ram, ssd)
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity = quantity
			return c.persist()
		}
	}
	return nil
}

// SetChecked marks or unmarks a line for checkout.
func (c *Cart) SetChecked(productID, ram, ssd string, checked bool) error {
	key := LineKey(productID, ram, ssd)
	if checked {
		c.checked[key] = true
	} else {
		delete(c.checked, key)
	}
	return c.persist()
}

// Lines returns a copy of all cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// CheckedLines returns the checkout subset: the lines whose key is in the checked
// set. Checked keys that no longer match a line are ignored, so stale entries
// left behind by removals never leak into checkout.
func (c *Cart) CheckedLines() []Line {
	var out []Line
	for _, l := range c.lines {
		if c.checked[l.Key()] {
			out = append(out, l)
		}
	}
	return out
}

// TotalPrice sums price * quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// TotalItems sums the quantities of all lines.
func (c *Cart) TotalItems() int {
	var total int
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// RemoveChecked deletes every checked line together with its checked-set entry.
// Unchecked lines stay untouched; after checkout the purchased lines leave the
// cart while the visitor's remaining selections survive.
func (c *Cart) RemoveChecked() error {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if c.checked[l.Key()] {
			delete(c.checked, l.Key())
			continue
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return c.persist()
}

// Clear empties the cart and the checked set.
func (c *Cart) Clear() error {
	c.lines = nil
	c.checked = make(map[string]bool)
	return c.persist()
}

// persist serializes the whole cart state to storage.
func (c *Cart) persist() error {
	data, err := json.Marshal(state{Lines: c.lines, Checked: c.checked})
	if err != nil {
		return fmt.Errorf("failed to marshal cart state: %w", err)
	}
	if err := c.storage.Save(data); err != nil {
		return fmt.Errorf("failed to save cart state: %w", err)
	}
	return nil
}

// MemoryStorage is an in-memory Storage, used in tests and as a fallback when no
// durable store is wired.
type MemoryStorage struct {
	data []byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the stored payload.
func (s *MemoryStorage) Load() ([]byte, error) {
	return s.data, nil
}

// Save overwrites the stored payload.
func (s *MemoryStorage) Save(data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}
