package review

import "time"

// Review is one customer review. OrderID links a review to the purchase it
// came from; product-page reviews have none.
type Review struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"productId"`
	OrderID   *int64    `json:"orderId,omitempty"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Images    []string  `json:"images,omitempty"`
	Date      time.Time `json:"date"`
}

// Input is what callers submit. The store stamps id and date. Rating range
// and comment checks are the caller's job; forms validate before submitting.
type Input struct {
	ProductID int64    `json:"productId"`
	OrderID   *int64   `json:"orderId,omitempty"`
	UserName  string   `json:"userName" validate:"required"`
	Rating    int      `json:"rating" validate:"min=1,max=5"`
	Comment   string   `json:"comment" validate:"required"`
	Images    []string `json:"images,omitempty"`
}
