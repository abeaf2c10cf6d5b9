package attrs

import (
	"testing"
)

func TestNewOrdersKnownKeysFirst(t *testing.T) {
	m := New(map[string]any{"zeta": 1, "alpha": 2, "type": "x"}, "type")

	keys := m.Keys()
	want := []string{"type", "alpha", "zeta"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSetNotifiesOnChange(t *testing.T) {
	m := New(nil)
	var got []Change
	sub := m.OnChange("type", func(c Change) { got = append(got, c) })
	defer sub.Close()

	m.Set("type", "simple")
	m.Set("type", "simple") // no change
	m.Set("other", 1)       // other key
	m.Set("type", "heatmap")

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].Old != nil || got[0].New != "simple" {
		t.Errorf("first change = %+v", got[0])
	}
	if got[1].Old != "simple" || got[1].New != "heatmap" {
		t.Errorf("second change = %+v", got[1])
	}
}

func TestSetAllAppliesInSortedOrder(t *testing.T) {
	m := New(map[string]any{"b": 1})
	var keys []string
	sub := m.OnAnyChange(func(c Change) { keys = append(keys, c.Key) })
	defer sub.Close()

	m.SetAll(map[string]any{"c": 3, "a": 1, "b": 1})

	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Errorf("changed keys = %v, want [a c]", keys)
	}
	if got := m.Keys(); len(got) != 3 || got[1] != "a" || got[2] != "c" {
		t.Errorf("Keys() = %v, want [b a c]", got)
	}
}

func TestSubscriptionClose(t *testing.T) {
	m := New(nil)
	calls := 0
	sub := m.OnChange("k", func(Change) { calls++ })

	m.Set("k", 1)
	if err := sub.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	_ = sub.Close()
	m.Set("k", 2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestOnAnyChange(t *testing.T) {
	m := New(map[string]any{"a": 1, "b": 2})
	var keys []string
	m.OnAnyChange(func(c Change) { keys = append(keys, c.Key) })

	m.Clear()

	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("cleared keys = %v, want [a b]", keys)
	}
	if !m.IsEmpty() {
		t.Error("model should be empty after Clear")
	}
}

func TestUnsetAbsentKeyIsSilent(t *testing.T) {
	m := New(nil)
	calls := 0
	m.OnAnyChange(func(Change) { calls++ })
	m.Unset("missing")
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{"", false},
		{0, false},
		{0.0, false},
		{true, true},
		{"8888-7777", true},
		{map[string]any{}, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestMarshalJSONKeepsInsertionOrder(t *testing.T) {
	m := New(nil)
	m.Set("b", 1)
	m.Set("a", "x")

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	if string(data) != `{"b":1,"a":"x"}` {
		t.Errorf("MarshalJSON() = %s", data)
	}
}
