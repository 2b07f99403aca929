// Package orders talks to the order service: placing an order from the cart
// and listing a user's order history.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

// ErrInvalidOrder is returned before any request when an order cannot be placed.
var ErrInvalidOrder = errors.New("orders: invalid order")

// Item is one ordered product.
type Item struct {
	ProductID string
	Name      string
	Quantity  int
	Price     float64
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	UserID string
	Items  []Item
}

// Order mirrors the order service representation.
type Order struct {
	ID        string
	UserID    string
	Status    string
	Total     float64
	CreatedAt time.Time
	Items     []Item
}

// ItemCount is the number of units in the order.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Client issues order calls. When baseURL is empty it keeps orders in memory.
type Client struct {
	baseURL string
	http    *http.Client
	book    *memoryBook
}

// NewClient constructs an order client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		book:    newMemoryBook(),
	}
}

// CreateOrder places an order and returns it as recorded by the service.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	if err := validate(req); err != nil {
		return Order{}, err
	}
	if c.baseURL == "" {
		return c.book.create(req, time.Now().UTC()), nil
	}

	body := createOrderPayload{UserID: strings.TrimSpace(req.UserID)}
	for _, it := range req.Items {
		body.Items = append(body.Items, itemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Order{}, err
	}
	endpoint, err := url.JoinPath(c.baseURL, "orders")
	if err != nil {
		return Order{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Order{}, fmt.Errorf("orders: create: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Order{}, fmt.Errorf("orders: failed to create order: status %d: %s", resp.StatusCode, drainError(resp.Body))
	}

	var out orderPayload
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Order{}, fmt.Errorf("orders: decode order: %w", err)
	}
	return out.toOrder(), nil
}

// ListByUser returns the user's orders, newest first.
func (c *Client) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidOrder)
	}
	if c.baseURL == "" {
		return c.book.list(userID), nil
	}

	endpoint, err := url.JoinPath(c.baseURL, "orders", "user", userID)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("orders: failed to fetch orders: status %d: %s", resp.StatusCode, drainError(resp.Body))
	}

	var raw []orderPayload
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("orders: decode orders: %w", err)
	}
	out := make([]Order, 0, len(raw))
	for _, o := range raw {
		out = append(out, o.toOrder())
	}
	sortNewestFirst(out)
	return out, nil
}

func validate(req CreateOrderRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity < 1 || it.Price < 0 {
			return fmt.Errorf("%w: bad item %q", ErrInvalidOrder, it.ProductID)
		}
	}
	return nil
}

type createOrderPayload struct {
	UserID string        `json:"user_id"`
	Items  []itemPayload `json:"items"`
}

type itemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderPayload struct {
	OrderID     string        `json:"order_id"`
	UserID      string        `json:"user_id"`
	Status      string        `json:"status"`
	TotalAmount float64       `json:"total_amount"`
	CreatedAt   string        `json:"created_at"`
	Items       []itemPayload `json:"items"`
}

func (p orderPayload) toOrder() Order {
	o := Order{
		ID:        strings.TrimSpace(p.OrderID),
		UserID:    strings.TrimSpace(p.UserID),
		Status:    defaultString(p.Status, "pending"),
		Total:     p.TotalAmount,
		CreatedAt: parseTime(p.CreatedAt),
	}
	for _, it := range p.Items {
		o.Items = append(o.Items, Item{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return o
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

func parseTime(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
