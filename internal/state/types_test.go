package state

import (
	"errors"
	"testing"
)

func TestParseSwitch(t *testing.T) {
	for _, raw := range []string{"A", "b", " c ", "D"} {
		if _, err := ParseSwitch(raw); err != nil {
			t.Errorf("ParseSwitch(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"", "E", "AB", "1"} {
		if _, err := ParseSwitch(raw); !errors.Is(err, ErrInvalidSwitch) {
			t.Errorf("ParseSwitch(%q): expected ErrInvalidSwitch, got %v", raw, err)
		}
	}
}

func TestKeyEqualityAndString(t *testing.T) {
	a := Key{MapID: 2, EventID: 3, Switch: SwitchA}
	b := Key{MapID: 2, EventID: 3, Switch: SwitchA}
	if a != b {
		t.Fatal("expected structurally equal keys to compare equal")
	}
	if a.String() != "2:3:A" {
		t.Fatalf("unexpected key string %q", a.String())
	}
	if a.Compare(b) != 0 {
		t.Fatal("expected Compare 0 for equal keys")
	}
	if a.Compare(Key{MapID: 2, EventID: 3, Switch: SwitchB}) >= 0 {
		t.Fatal("expected A before B")
	}
	if (Key{MapID: 1, EventID: 99}).Compare(a) >= 0 {
		t.Fatal("expected lower map first")
	}
}

func TestMemStore(t *testing.T) {
	m := NewMemStore()
	k := Key{MapID: 1, EventID: 4, Switch: SwitchB}

	if v, _ := m.Value(k); v {
		t.Fatal("expected absent key to read false")
	}
	m.SetValue(k, true)
	m.SetValue(Key{MapID: 1, EventID: 2, Switch: SwitchA}, false)

	if m.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", m.Len())
	}
	entries := m.Entries()
	if entries[0].Key.EventID != 2 || entries[1].Key != k || !entries[1].Value {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestMemStoreZeroValue(t *testing.T) {
	var m MemStore
	k := Key{MapID: 1, EventID: 1, Switch: SwitchA}
	if err := m.SetValue(k, true); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if v, _ := m.Value(k); !v {
		t.Fatal("expected true")
	}
}

func TestMemStoreAtomicallyRollsBack(t *testing.T) {
	m := NewMemStore()
	k := Key{MapID: 1, EventID: 1, Switch: SwitchA}
	m.SetValue(k, true)

	boom := errors.New("boom")
	err := m.Atomically(func(rw ReadWriter) error {
		rw.SetValue(k, false)
		rw.SetValue(Key{MapID: 1, EventID: 2, Switch: SwitchA}, true)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if v, _ := m.Value(k); !v {
		t.Fatal("expected original value restored")
	}
	if m.Len() != 1 {
		t.Fatalf("expected rolled-back key removed, got %d keys", m.Len())
	}
}
