package order

import (
	"context"
	"testing"
	"time"

	"marketgo/internal/cart"
	"marketgo/internal/catalog"
	"marketgo/internal/notify"
	"marketgo/internal/storage"
	"marketgo/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev notify.Event) {
	r.events = append(r.events, ev)
}

var shipping = ShippingDetails{Name: "Asha", Phone: "5551234567", Address: "12 Hill Rd"}

func newCheckoutFixture(t *testing.T, taxRate float64) (*Checkout, cart.Store, Store, *recordingNotifier) {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemStore()

	cartStore := cart.NewStore(ctx, kv)
	orderStore := NewStore(ctx, kv)
	notifier := &recordingNotifier{}
	return NewCheckout(orderStore, cartStore, notifier, taxRate), cartStore, orderStore, notifier
}

func TestCheckout_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("ScenarioFromCart", func(t *testing.T) {
		co, cartStore, orderStore, notifier := newCheckoutFixture(t, 0.08)

		// cart: [{id:1, price:10, qty:2}, {id:2, price:5, qty:1}]
		p1 := catalog.Product{ID: 1, Title: "Backpack", Price: 10}
		p2 := catalog.Product{ID: 2, Title: "T-Shirt", Price: 5}
		cartStore.Add(ctx, p1)
		cartStore.Add(ctx, p1)
		cartStore.Add(ctx, p2)
		require.Equal(t, 25.0, cartStore.TotalPrice())

		o, err := co.PlaceOrder(ctx, shipping)
		require.NoError(t, err)

		// Checkout cleared the cart and appended exactly one order whose
		// total derives from the pre-clear subtotal.
		assert.Empty(t, cartStore.Items())
		require.Len(t, orderStore.Orders(), 1)
		assert.InDelta(t, 25.0*1.08, o.Total, 1e-9)
		assert.Len(t, o.Items, 2)
		require.NotNil(t, o.Shipping)
		assert.Equal(t, shipping, *o.Shipping)

		// Order placed + review prompt notifications.
		require.Len(t, notifier.events, 2)
		assert.Equal(t, notify.KindOrderPlaced, notifier.events[0].Kind)
		assert.Equal(t, notify.KindReviewPrompt, notifier.events[1].Kind)
	})

	t.Run("ZeroTaxTotalMatchesSubtotal", func(t *testing.T) {
		co, cartStore, _, _ := newCheckoutFixture(t, 0)

		cartStore.Add(ctx, catalog.Product{ID: 1, Price: 12.5})

		o, err := co.PlaceOrder(ctx, shipping)
		require.NoError(t, err)
		assert.Equal(t, 12.5, o.Total)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		co, _, orderStore, notifier := newCheckoutFixture(t, 0.08)

		_, err := co.PlaceOrder(ctx, shipping)

		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Empty(t, orderStore.Orders())
		assert.Empty(t, notifier.events)
	})

	t.Run("InvalidShipping", func(t *testing.T) {
		co, cartStore, orderStore, _ := newCheckoutFixture(t, 0.08)
		cartStore.Add(ctx, catalog.Product{ID: 1, Price: 10})

		_, err := co.PlaceOrder(ctx, ShippingDetails{Name: "Asha", Phone: "123", Address: ""})

		require.Error(t, err)
		var fe *validate.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Fields(), "Phone")
		assert.Contains(t, fe.Fields(), "Address")

		// A rejected checkout mutates nothing.
		assert.Len(t, cartStore.Items(), 1)
		assert.Empty(t, orderStore.Orders())
	})
}

func TestCheckout_IDsAreUniqueAndIncreasing(t *testing.T) {
	ctx := context.Background()
	co, cartStore, orderStore, _ := newCheckoutFixture(t, 0)

	// Freeze the clock so every checkout lands in the same millisecond.
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	co.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		cartStore.Add(ctx, catalog.Product{ID: int64(i + 1), Price: 1})
		_, err := co.PlaceOrder(ctx, shipping)
		require.NoError(t, err)
	}

	orders := orderStore.Orders()
	require.Len(t, orders, 3)
	assert.Greater(t, orders[0].ID, orders[1].ID)
	assert.Greater(t, orders[1].ID, orders[2].ID)
	assert.Equal(t, fixed.UnixMilli(), orders[2].ID)
}
