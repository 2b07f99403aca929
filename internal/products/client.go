package products

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wasifsarwar/gocart/internal/catalog"
)

const defaultTimeout = 5 * time.Second

// ErrNotFound indicates the product service has no product with the requested id.
var ErrNotFound = errors.New("products: not found")

//go:embed fixtures/products.yaml
var fixtureYAML []byte

// Client fetches products from the product service. When no base URL is
// configured it serves the embedded fixture catalog instead.
type Client struct {
	baseURL string
	http    *http.Client

	fixturesOnce sync.Once
	fixtures     []catalog.Product
	fixturesErr  error
}

// NewClient builds a product client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Offline reports whether the client serves fixtures.
func (c *Client) Offline() bool { return c == nil || c.baseURL == "" }

// BaseURL returns the configured product service URL.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// ListProducts returns the full catalog in service order.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if c.Offline() {
		return c.fixtureProducts()
	}
	endpoint, err := url.JoinPath(c.baseURL, "products")
	if err != nil {
		return nil, err
	}
	var payload []productPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toProduct())
	}
	return out, nil
}

// GetProduct returns one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Product{}, ErrNotFound
	}
	if c.Offline() {
		all, err := c.fixtureProducts()
		if err != nil {
			return catalog.Product{}, err
		}
		if p, ok := catalog.Find(all, id); ok {
			return p, nil
		}
		return catalog.Product{}, ErrNotFound
	}
	endpoint, err := url.JoinPath(c.baseURL, "products", id)
	if err != nil {
		return catalog.Product{}, err
	}
	var payload productPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return catalog.Product{}, err
	}
	return payload.toProduct(), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("products: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("products: HTTP error: status %d: %s", resp.StatusCode, drainError(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("products: decode response: %w", err)
	}
	return nil
}

func (c *Client) fixtureProducts() ([]catalog.Product, error) {
	if c == nil {
		return parseFixtures(fixtureYAML)
	}
	c.fixturesOnce.Do(func() {
		c.fixtures, c.fixturesErr = parseFixtures(fixtureYAML)
	})
	if c.fixturesErr != nil {
		return nil, c.fixturesErr
	}
	out := make([]catalog.Product, len(c.fixtures))
	copy(out, c.fixtures)
	return out, nil
}

type fixtureFile struct {
	Products []catalog.Product `yaml:"products"`
}

func parseFixtures(raw []byte) ([]catalog.Product, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("products: parse fixtures: %w", err)
	}
	out := make([]catalog.Product, 0, len(f.Products))
	for _, p := range f.Products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type productPayload struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

func (p productPayload) toProduct() catalog.Product {
	price := p.Price
	if price < 0 {
		price = 0
	}
	return catalog.Product{
		ID:          strings.TrimSpace(p.ProductID),
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Category:    strings.TrimSpace(p.Category),
		Price:       price,
		ImageURL:    strings.TrimSpace(p.ImageURL),
	}
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
