package cart

// Item is one cart line. At most one entry exists per product id; Quantity is
// never persisted at zero or below.
type Item struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Snapshot is an immutable view of the cart handed to subscribers and
// checkout. Totals are derived from the items, never stored.
type Snapshot struct {
	Items      []Item
	TotalPrice float64
	TotalItems int
}

func snapshotOf(items []Item) Snapshot {
	cp := make([]Item, len(items))
	copy(cp, items)

	var price float64
	var count int
	for _, it := range cp {
		price += it.Price * float64(it.Quantity)
		count += it.Quantity
	}
	return Snapshot{Items: cp, TotalPrice: price, TotalItems: count}
}
