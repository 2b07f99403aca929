package nav

import "testing"

func TestBuildMarksActive(t *testing.T) {
	items := Build("/products/p-1001", map[string]int{"/cart": 3})
	if len(items) != len(Main) {
		t.Fatalf("expected %d items, got %d", len(Main), len(items))
	}
	for _, it := range items {
		switch it.Href {
		case "/products":
			if !it.Active {
				t.Errorf("products should be active")
			}
		case "/cart":
			if it.Active || it.Badge != 3 {
				t.Errorf("unexpected cart item %+v", it)
			}
		default:
			if it.Active {
				t.Errorf("%s should not be active", it.Href)
			}
		}
	}
	if Build("/productsx", nil)[0].Active {
		t.Errorf("prefix without boundary must not match")
	}
}

func TestBreadcrumbs(t *testing.T) {
	crumbs := Breadcrumbs("/products/p-1001", "Mechanical Keyboard")
	if len(crumbs) != 3 {
		t.Fatalf("expected 3 crumbs, got %+v", crumbs)
	}
	if crumbs[0].LabelKey != "nav.home" || crumbs[0].Active {
		t.Errorf("unexpected home crumb %+v", crumbs[0])
	}
	if crumbs[1].LabelKey != "nav.products" || crumbs[1].Href != "/products" {
		t.Errorf("unexpected section crumb %+v", crumbs[1])
	}
	if !crumbs[2].Active || crumbs[2].Label != "Mechanical Keyboard" || crumbs[2].LabelKey != "" {
		t.Errorf("unexpected leaf crumb %+v", crumbs[2])
	}

	home := Breadcrumbs("/", "")
	if len(home) != 1 || !home[0].Active {
		t.Errorf("unexpected home crumbs %+v", home)
	}

	register := Breadcrumbs("/users/register", "")
	if register[1].LabelKey != "nav.users" || register[2].Label != "Register" || !register[2].Active {
		t.Errorf("unexpected register crumbs %+v", register)
	}

	other := Breadcrumbs("/gift-cards", "")
	if other[1].Label != "Gift cards" || other[1].LabelKey != "" {
		t.Errorf("unexpected unknown section crumb %+v", other[1])
	}
}
