package catalog

// Product is a single catalog entry. The engine never mutates a product.
type Product struct {
	ID          string  `json:"product_id" yaml:"product_id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	ImageURL    string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Snapshot is the ordered product list currently known to the storefront.
// It is replaced wholesale on refetch; Version increases with every replacement.
type Snapshot struct {
	Products []Product
	Version  uint64
}

// IDs returns product identifiers in order.
func IDs(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

// Find returns the first product with the given id.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
