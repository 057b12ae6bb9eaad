package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"marketgo/internal/account"
	"marketgo/internal/cart"
	"marketgo/internal/catalog"
	"marketgo/internal/config"
	"marketgo/internal/logger"
	"marketgo/internal/notify"
	"marketgo/internal/order"
	"marketgo/internal/review"
	"marketgo/internal/storage"
	"marketgo/internal/validate"
	"marketgo/internal/wishlist"
)

const usage = `usage: shop <command> [args]

commands:
  products                          list the product catalog
  cart list                         show the cart with totals
  cart add <product-id>             add a catalog product to the cart
  cart qty <product-id> <delta>     change quantity (floors at 1)
  cart remove <product-id>          remove a line
  cart clear                        empty the cart
  wishlist list                     show saved products
  wishlist toggle <product-id>      add/remove a catalog product
  checkout -name -phone -address    place an order from the cart
  orders [order-id]                 list orders, or show one by id
  review -product -rating -comment  leave a review (optional -order, -image)
  signup -name -email -password     register an account and log in
  login -email -password            log in
  logout                            log out (cart and orders stay)
  whoami                            show the session user
`

// app bundles the wired stores so command handlers stay short.
type app struct {
	cfg      *config.Config
	catalog  *catalog.Client
	cart     cart.Store
	wishlist wishlist.Store
	orders   order.Store
	checkout *order.Checkout
	reviews  review.Store
	dir      account.Directory
	session  account.Session
}

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx := logger.NewOp(context.Background())

	kv, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "storage:", err)
		os.Exit(1)
	}

	a := &app{
		cfg:     cfg,
		catalog: catalog.NewClient(cfg.CatalogBaseURL),
	}
	a.cart = cart.NewStore(ctx, kv)
	a.wishlist = wishlist.NewStore(ctx, kv)
	a.orders = order.NewStore(ctx, kv)
	a.reviews = review.NewStore(ctx, kv)
	a.dir = account.NewDirectory(ctx, kv, account.BcryptCredentials{})
	a.session = account.NewSession(ctx, kv, a.dir, cfg.SessionSecret)
	a.checkout = order.NewCheckout(a.orders, a.cart, notify.LogNotifier{}, cfg.TaxRate)

	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemStore(), nil
	case "postgres":
		db, err := storage.OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		s := storage.NewSQLStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return storage.NewFileStore(cfg.DataDir)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "products":
		return a.cmdProducts(ctx)
	case "cart":
		return a.cmdCart(ctx, args[1:])
	case "wishlist":
		return a.cmdWishlist(ctx, args[1:])
	case "checkout":
		return a.cmdCheckout(ctx, args[1:])
	case "orders":
		return a.cmdOrders(args[1:])
	case "review":
		return a.cmdReview(ctx, args[1:])
	case "signup":
		return a.cmdSignup(ctx, args[1:])
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.cmdWhoami()
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) cmdProducts(ctx context.Context) error {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		marker := " "
		if a.wishlist.Contains(p.ID) {
			marker = "*"
		}
		fmt.Printf("%s %4d  $%8.2f  %s (%.1f, %d reviews)\n",
			marker, p.ID, p.Price, p.Title, p.Rating.Rate, p.Rating.Count)
	}
	return nil
}

func (a *app) findProduct(ctx context.Context, rawID string) (catalog.Product, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("bad product id %q", rawID)
	}
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, fmt.Errorf("product %d not in catalog", id)
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		snap := a.cart.Snapshot()
		for _, it := range snap.Items {
			fmt.Printf("%4d  x%-3d $%8.2f  %s\n", it.ID, it.Quantity, it.Price, it.Title)
		}
		fmt.Printf("total: $%.2f (%d items)\n", snap.TotalPrice, snap.TotalItems)
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("cart add needs a product id")
		}
		p, err := a.findProduct(ctx, args[1])
		if err != nil {
			return err
		}
		item := a.cart.Add(ctx, p)
		notify.LogNotifier{}.Notify(ctx, notify.Event{
			Kind:  notify.KindCartAdd,
			Title: "Added to cart!",
			Body:  fmt.Sprintf("%s (x%d)", item.Title, item.Quantity),
		})
		fmt.Printf("added %s, quantity %d\n", item.Title, item.Quantity)
		return nil
	case "qty":
		if len(args) < 3 {
			return fmt.Errorf("cart qty needs a product id and a delta")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad product id %q", args[1])
		}
		delta, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad delta %q", args[2])
		}
		a.cart.UpdateQuantity(ctx, id, delta)
		return nil
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("cart remove needs a product id")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad product id %q", args[1])
		}
		a.cart.Remove(ctx, id)
		return nil
	case "clear":
		a.cart.Clear(ctx)
		return nil
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) cmdWishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		for _, it := range a.wishlist.Items() {
			fmt.Printf("%4d  $%8.2f  %s [%s]\n", it.ID, it.Price, it.Title, it.Category)
		}
		return nil
	case "toggle":
		if len(args) < 2 {
			return fmt.Errorf("wishlist toggle needs a product id")
		}
		p, err := a.findProduct(ctx, args[1])
		if err != nil {
			return err
		}
		if a.wishlist.Toggle(ctx, p) {
			fmt.Printf("added %s to wishlist\n", p.Title)
		} else {
			fmt.Printf("removed %s from wishlist\n", p.Title)
		}
		return nil
	default:
		return fmt.Errorf("unknown wishlist subcommand %q", args[0])
	}
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	name := fs.String("name", "", "recipient name")
	phone := fs.String("phone", "", "10 digit phone number")
	address := fs.String("address", "", "shipping address")
	fs.Parse(args)

	o, err := a.checkout.PlaceOrder(ctx, order.ShippingDetails{
		Name:    *name,
		Phone:   *phone,
		Address: *address,
	})
	if err != nil {
		return err
	}
	fmt.Printf("order #%d placed, total $%.2f\n", o.ID, o.Total)
	return nil
}

func (a *app) cmdOrders(args []string) error {
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad order id %q", args[0])
		}
		o, err := a.orders.Get(id)
		if err != nil {
			return err
		}
		fmt.Printf("order #%d  %s  $%.2f\n", o.ID, o.Date.Format("2006-01-02 15:04"), o.Total)
		for _, it := range o.Items {
			fmt.Printf("  %4d  x%-3d $%8.2f  %s\n", it.ID, it.Quantity, it.Price, it.Title)
		}
		if o.Shipping != nil {
			fmt.Printf("  ship to: %s, %s, %s\n", o.Shipping.Name, o.Shipping.Phone, o.Shipping.Address)
		}
		return nil
	}

	for _, o := range a.orders.Orders() {
		fmt.Printf("#%d  %s  %d items  $%.2f\n",
			o.ID, o.Date.Format("2006-01-02 15:04"), len(o.Items), o.Total)
	}
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	productID := fs.Int64("product", 0, "product id")
	orderID := fs.Int64("order", 0, "order id the purchase came from")
	rating := fs.Int("rating", 0, "rating 1-5")
	comment := fs.String("comment", "", "review text")
	image := fs.String("image", "", "optional image uri")
	fs.Parse(args)

	u, ok := a.session.Current()
	if !ok {
		return account.ErrNotLoggedIn
	}

	in := review.Input{
		ProductID: *productID,
		UserName:  u.Name,
		Rating:    *rating,
		Comment:   *comment,
	}
	if *orderID != 0 {
		if _, err := a.orders.Get(*orderID); err != nil {
			return err
		}
		if a.reviews.Reviewed(*productID, *orderID) {
			return fmt.Errorf("order item already reviewed")
		}
		in.OrderID = orderID
	}
	if *image != "" {
		in.Images = []string{*image}
	}
	if err := validate.Struct(in); err != nil {
		return err
	}

	r := a.reviews.Add(ctx, in)
	fmt.Printf("review %s saved\n", r.ID)
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	u, err := a.dir.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	a.session.SetUser(ctx, u)
	fmt.Printf("welcome, %s\n", u.Name)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	u, err := a.dir.Authenticate(ctx, *email, *password)
	if err != nil {
		return err
	}
	a.session.SetUser(ctx, u)
	fmt.Printf("welcome back, %s\n", u.Name)
	return nil
}

func (a *app) cmdWhoami() error {
	u, ok := a.session.Current()
	if !ok {
		fmt.Println("guest")
		return nil
	}
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	return nil
}
