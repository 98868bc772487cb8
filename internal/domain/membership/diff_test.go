package membership

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		current     []string
		requested   []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:      "no change",
			current:   []string{"a", "b"},
			requested: []string{"a", "b"},
		},
		{
			name:        "add and remove",
			current:     []string{"a", "b", "c"},
			requested:   []string{"b", "d"},
			wantAdded:   []string{"d"},
			wantRemoved: []string{"a", "c"},
		},
		{
			name:      "duplicates collapse",
			current:   []string{"a"},
			requested: []string{"b", "b", "a"},
			wantAdded: []string{"b"},
		},
		{
			name:        "empty requested removes all",
			current:     []string{"a", "b"},
			requested:   nil,
			wantRemoved: []string{"a", "b"},
		},
		{
			name:      "blank ids ignored",
			current:   []string{""},
			requested: []string{"", "a"},
			wantAdded: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.current, tt.requested)
			if !reflect.DeepEqual(got.Added, tt.wantAdded) {
				t.Fatalf("added: expected %v, got %v", tt.wantAdded, got.Added)
			}
			if !reflect.DeepEqual(got.Removed, tt.wantRemoved) {
				t.Fatalf("removed: expected %v, got %v", tt.wantRemoved, got.Removed)
			}
		})
	}
}

func TestAddRemoveRef(t *testing.T) {
	refs := []string{"a", "b"}

	refs = AddRef(refs, "b")
	if len(refs) != 2 {
		t.Fatalf("duplicate add changed refs: %v", refs)
	}

	refs = AddRef(refs, "c")
	if !reflect.DeepEqual(refs, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected refs after add: %v", refs)
	}

	refs = RemoveRef(refs, "b")
	if !reflect.DeepEqual(refs, []string{"a", "c"}) {
		t.Fatalf("unexpected refs after remove: %v", refs)
	}
}
