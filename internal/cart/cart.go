package cart

import (
	"math"
	"sort"

	"github.com/promonitor/storefront/pkg/money"
)

// MaxLineQty caps the units of a single product in one cart.
const MaxLineQty = 999

// clampQty bounds qty to 0..MaxLineQty.
func clampQty(qty int) int {
	switch {
	case qty < 0:
		return 0
	case qty > MaxLineQty:
		return MaxLineQty
	}
	return qty
}

// Item snapshots a product at the time it was added.
type Item struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	ImagePath  string `json:"image_path"`
	Qty        int    `json:"qty"`
}

// LineTotalCents is price times quantity.
func (i Item) LineTotalCents() int64 {
	return i.PriceCents * int64(i.Qty)
}

// TotalCents sums the line totals of items, reporting false when the sum
// does not fit in int64.
func TotalCents(items []Item) (int64, bool) {
	var total int64
	for _, item := range items {
		if item.PriceCents < 0 || item.Qty < 0 {
			return 0, false
		}
		if item.Qty > 0 && item.PriceCents > math.MaxInt64/int64(item.Qty) {
			return 0, false
		}
		line := item.LineTotalCents()
		if total > math.MaxInt64-line {
			return 0, false
		}
		total += line
	}
	return total, true
}

// Cart is the per-session basket keyed by product id.
type Cart struct {
	Items map[uint]Item `json:"items"`
}

func newCart() *Cart {
	return &Cart{Items: map[uint]Item{}}
}

// List returns the items ordered by product id.
func (c *Cart) List() []Item {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Count is the total quantity across all lines.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Qty
	}
	return count
}

// SubtotalCents sums the line totals. There are no fees or discounts, so it is also the total.
func (c *Cart) SubtotalCents() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.LineTotalCents()
	}
	return subtotal
}

// ItemView is a cart line as rendered to clients.
type ItemView struct {
	Item
	LineTotalCents     int64  `json:"line_total_cents"`
	PriceFormatted     string `json:"price_formatted"`
	LineTotalFormatted string `json:"line_total_formatted"`
}

// View is the cart payload returned by the API.
type View struct {
	Items             []ItemView `json:"items"`
	Count             int        `json:"count"`
	SubtotalCents     int64      `json:"subtotal_cents"`
	TotalCents        int64      `json:"total_cents"`
	SubtotalFormatted string     `json:"subtotal_formatted"`
	TotalFormatted    string     `json:"total_formatted"`
}

// NewView renders c with per-line and overall totals.
func NewView(c *Cart) *View {
	items := c.List()
	lines := make([]ItemView, 0, len(items))
	for _, item := range items {
		lines = append(lines, ItemView{
			Item:               item,
			LineTotalCents:     item.LineTotalCents(),
			PriceFormatted:     money.Format(item.PriceCents),
			LineTotalFormatted: money.Format(item.LineTotalCents()),
		})
	}
	subtotal := c.SubtotalCents()
	return &View{
		Items:             lines,
		Count:             c.Count(),
		SubtotalCents:     subtotal,
		TotalCents:        subtotal,
		SubtotalFormatted: money.Format(subtotal),
		TotalFormatted:    money.Format(subtotal),
	}
}
