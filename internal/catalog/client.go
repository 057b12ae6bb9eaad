package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketgo/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrUnavailable = errors.New("catalog unavailable")
	ErrBadResponse = errors.New("catalog returned bad response")
)

// The catalog is a shared public API; keep our traffic polite.
const (
	requestLimit = rate.Limit(5)
	requestBurst = 10
)

// Client fetches the product catalog. The single GET is wrapped in a rate
// limiter and a circuit breaker so a flapping upstream fails fast instead of
// stalling every screen that asks for products.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]Product]
}

func NewClient(baseURL string) *Client {
	settings := gobreaker.Settings{
		Name:     "catalog",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(requestLimit, requestBurst),
		breaker: gobreaker.NewCircuitBreaker[[]Product](settings),
	}
}

// Products performs the catalog fetch.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	log := logger.FromCtx(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	products, err := c.breaker.Execute(func() ([]Product, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		log.Error("catalog fetch failed", zap.Error(err))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Join(ErrUnavailable, err)
		}
		return nil, err
	}

	log.Info("catalog fetched",
		zap.Int("products", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

func (c *Client) fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return products, nil
}
