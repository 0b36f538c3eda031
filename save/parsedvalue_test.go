package save

import "testing"

func TestParsedValueSetMergeMapMap(t *testing.T) {
	inner1 := NewMap()
	inner1.Set("a", NewScalar(int64(1)))
	inner2 := NewMap()
	inner2.Set("b", NewScalar(int64(2)))
	inner2.Set("a", NewScalar(int64(99))) // existing ("a" from inner1) must win

	root := NewMap()
	root.Set("x", inner1)
	root.Set("x", inner2)

	merged := root.Get("x")
	if merged.Kind != KindMap {
		t.Fatalf("expected merged map, got kind %v", merged.Kind)
	}
	if n, _ := merged.Get("a").Int(); n != 1 {
		t.Errorf("existing key should win on collision: expected 1, got %v", n)
	}
	if n, _ := merged.Get("b").Int(); n != 2 {
		t.Errorf("non-colliding key from incoming map should be preserved: expected 2, got %v", n)
	}
}

func TestParsedValueSetMergeListList(t *testing.T) {
	root := NewMap()
	root.Set("x", NewList([]*ParsedValue{NewScalar(int64(1))}))
	root.Set("x", NewList([]*ParsedValue{NewScalar(int64(2)), NewScalar(int64(3))}))

	got := root.Get("x").List()
	if len(got) != 3 {
		t.Fatalf("expected 3 elements after list+list concat, got %d", len(got))
	}
}

func TestParsedValueSetAppendToList(t *testing.T) {
	root := NewMap()
	root.Set("x", NewList([]*ParsedValue{NewScalar(int64(1))}))
	root.Set("x", NewScalar(int64(2)))

	got := root.Get("x").List()
	if len(got) != 2 {
		t.Fatalf("expected list+scalar to append, got %d elements", len(got))
	}
}

func TestParsedValueSetReplaceWithPair(t *testing.T) {
	root := NewMap()
	root.Set("x", NewScalar(int64(1)))
	root.Set("x", NewScalar(int64(2)))

	got := root.Get("x")
	if got.Kind != KindList || len(got.List()) != 2 {
		t.Fatalf("expected scalar+scalar to become a 2-element list, got %v", got)
	}
}

func TestParsedValueGetAbsentIsNone(t *testing.T) {
	root := NewMap()
	if !root.Get("missing").IsNone() {
		t.Error("Get of an absent key should return None")
	}
	if root.Has("missing") {
		t.Error("Has of an absent key should be false")
	}
}

func TestParsedValueKeysPreservesInsertionOrder(t *testing.T) {
	root := NewMap()
	root.Set("c", NewScalar(int64(1)))
	root.Set("a", NewScalar(int64(2)))
	root.Set("b", NewScalar(int64(3)))

	want := []string{"c", "a", "b"}
	got := root.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}
