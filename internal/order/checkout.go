package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketgo/internal/cart"
	"marketgo/internal/logger"
	"marketgo/internal/notify"
	"marketgo/internal/validate"

	"go.uber.org/zap"
)

// Checkout turns the current cart into an order: validates the shipping form,
// applies tax, appends the order, and clears the cart. Checkout is the only
// producer of orders in the normal flow.
type Checkout struct {
	orders   Store
	cart     cart.Store
	notifier notify.Notifier
	taxRate  float64

	mu     sync.Mutex
	lastID int64
	now    func() time.Time
}

func NewCheckout(orders Store, c cart.Store, n notify.Notifier, taxRate float64) *Checkout {
	return &Checkout{
		orders:   orders,
		cart:     c,
		notifier: n,
		taxRate:  taxRate,
		now:      time.Now,
	}
}

// PlaceOrder completes checkout. Validation failures and an empty cart come
// back as recoverable errors; nothing here is fatal.
func (c *Checkout) PlaceOrder(ctx context.Context, details ShippingDetails) (Order, error) {
	log := logger.FromCtx(ctx)

	if err := validate.Struct(details); err != nil {
		return Order{}, err
	}

	snap := c.cart.Snapshot()
	if len(snap.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	o := Order{
		ID:       c.nextID(),
		Items:    snap.Items,
		Total:    snap.TotalPrice * (1 + c.taxRate),
		Date:     c.now(),
		Shipping: &details,
	}

	c.orders.Add(ctx, o)
	c.cart.Clear(ctx)

	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.Total),
	)

	c.notifier.Notify(ctx, notify.Event{
		Kind:    notify.KindOrderPlaced,
		Title:   "Order Placed!",
		Body:    fmt.Sprintf("Thanks %s, your order for $%.2f is being processed.", details.Name, o.Total),
		Route:   "Orders",
		RouteID: fmt.Sprint(o.ID),
	})
	c.notifier.Notify(ctx, notify.Event{
		Kind:    notify.KindReviewPrompt,
		Title:   "How was your experience?",
		Body:    "Tell us what you think of your purchase.",
		Route:   "OrderDetail",
		RouteID: fmt.Sprint(o.ID),
	})

	return o, nil
}

// nextID hands out millisecond timestamps, bumped past the previous id when
// two checkouts land in the same millisecond.
func (c *Checkout) nextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}
