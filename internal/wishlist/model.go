package wishlist

import "marketgo/internal/catalog"

// Item is a saved product. Membership only; there is no quantity.
type Item struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    float64         `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Rating   *catalog.Rating `json:"rating,omitempty"`
}

func itemFrom(p catalog.Product) Item {
	it := Item{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
	}
	if p.Rating != (catalog.Rating{}) {
		r := p.Rating
		it.Rating = &r
	}
	return it
}
