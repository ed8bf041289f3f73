package registry

import "testing"

type testItem struct {
	ID   string
	Name string
}

func TestBaseRegistry_Register(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	tests := []struct {
		name    string
		item    testItem
		wantErr bool
	}{
		{
			name:    "register valid item",
			item:    testItem{ID: "a", Name: "Item A"},
			wantErr: false,
		},
		{
			name:    "register item with empty name",
			item:    testItem{ID: "", Name: "Item B"},
			wantErr: true,
		},
		{
			name:    "register duplicate item",
			item:    testItem{ID: "a", Name: "Item A again"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.item.ID, tt.item)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBaseRegistry_ListPreservesInsertionOrder(t *testing.T) {
	reg := NewBaseRegistry[testItem]()
	for _, id := range []string{"c", "a", "b"} {
		if err := reg.Register(id, testItem{ID: id}); err != nil {
			t.Fatalf("Register(%q): %v", id, err)
		}
	}

	got := reg.List()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("List() returned %d items, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("List()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestBaseRegistry_RemoveAndCount(t *testing.T) {
	reg := NewBaseRegistry[testItem]()
	_ = reg.Register("a", testItem{ID: "a"})
	_ = reg.Register("b", testItem{ID: "b"})

	if err := reg.Remove("a"); err != nil {
		t.Fatalf("Remove(a): %v", err)
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
	if err := reg.Remove("a"); err == nil {
		t.Fatalf("Remove(a) second time: expected error, got nil")
	}
}

func TestBaseRegistry_Set(t *testing.T) {
	reg := NewBaseRegistry[testItem]()
	_ = reg.Register("a", testItem{ID: "a", Name: "first"})
	reg.Set("a", testItem{ID: "a", Name: "second"})

	item, ok := reg.Get("a")
	if !ok || item.Name != "second" {
		t.Fatalf("Get(a) = %+v, %v; want Name=second", item, ok)
	}
	if reg.Count() != 1 {
		t.Fatalf("Set() on existing key changed Count to %d", reg.Count())
	}
}
