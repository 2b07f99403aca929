package seo

import (
	"encoding/json"
	"testing"
)

func TestProductSchema(t *testing.T) {
	js := JSON(Product(ProductInfo{SKU: "p-1", Name: "Lamp", Price: 19.5, URL: "https://shop.test/products/p-1"}))
	var got map[string]any
	if err := json.Unmarshal([]byte(js), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["@type"] != "Product" || got["sku"] != "p-1" {
		t.Fatalf("unexpected product schema %v", got)
	}
	offer := got["offers"].(map[string]any)
	if offer["price"] != "19.50" || offer["priceCurrency"] != "USD" {
		t.Fatalf("unexpected offer %v", offer)
	}
	if _, ok := got["image"]; ok {
		t.Fatalf("empty image should be omitted")
	}
}

func TestListsArePositioned(t *testing.T) {
	bl := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "/"}, {Name: "Products", Item: "/products"}})
	items := bl["itemListElement"].([]map[string]any)
	if len(items) != 2 || items[1]["position"] != 2 {
		t.Fatalf("unexpected breadcrumb items %v", items)
	}
	il := ItemList([]string{"a", "b", "c"})
	if il["numberOfItems"] != 3 {
		t.Fatalf("unexpected item list %v", il)
	}
	ws := WebSite("gocart", "https://shop.test", "https://shop.test/products?q=")
	action := ws["potentialAction"].(map[string]any)
	if action["target"] != "https://shop.test/products?q={search_term_string}" {
		t.Fatalf("unexpected search action %v", action)
	}
}
