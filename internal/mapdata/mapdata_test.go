package mapdata

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const sampleMap = `{
	"displayName": "Harbor",
	"width": 17,
	"height": 13,
	"events": [
		null,
		{"id": 1, "name": "EV001", "x": 3, "y": 4, "pages": []},
		{"id": 2, "name": "Chest", "x": 8, "y": 2, "pages": []},
		null,
		{"id": 4, "name": "Door", "x": 1, "y": 1, "pages": []}
	]
}`

func writeMap(t *testing.T, dir string, mapID int, body string) {
	t.Helper()
	d := NewDir(dir)
	if err := os.WriteFile(d.Path(mapID), []byte(body), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
}

func TestParseEventIDsSkipsPlaceholders(t *testing.T) {
	ids, err := ParseEventIDs([]byte(sampleMap))
	if err != nil {
		t.Fatalf("ParseEventIDs: %v", err)
	}
	if !slices.Equal(ids, []int{1, 2, 4}) {
		t.Fatalf("expected [1 2 4], got %v", ids)
	}
}

func TestParseEventIDsNoEvents(t *testing.T) {
	for _, body := range []string{`{}`, `{"events": null}`, `{"events": [null]}`} {
		ids, err := ParseEventIDs([]byte(body))
		if err != nil {
			t.Fatalf("ParseEventIDs(%s): %v", body, err)
		}
		if len(ids) != 0 {
			t.Fatalf("expected no ids for %s, got %v", body, ids)
		}
	}
}

func TestParseEventIDsMalformed(t *testing.T) {
	bad := []string{
		`not json`,
		`{"events": {"1": {}}}`,
		`{"events": [null, {"name": "no id"}]}`,
		`{"events": [null, {"id": "3"}]}`,
	}
	for _, body := range bad {
		if _, err := ParseEventIDs([]byte(body)); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseEventIDs(%s): expected ErrMalformed, got %v", body, err)
		}
	}
}

func TestDirEventIDs(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, 2, sampleMap)

	d := NewDir(dir)
	if got := filepath.Base(d.Path(2)); got != "Map002.json" {
		t.Fatalf("unexpected map file name %q", got)
	}

	ids, err := d.EventIDs(2)
	if err != nil {
		t.Fatalf("EventIDs: %v", err)
	}
	if !slices.Equal(ids, []int{1, 2, 4}) {
		t.Fatalf("expected [1 2 4], got %v", ids)
	}

	if _, err := d.EventIDs(3); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound, got %v", err)
	}
	if _, err := d.EventIDs(0); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound for map 0, got %v", err)
	}
}

func TestStatic(t *testing.T) {
	s := Static{5: {3, 1, 2}}

	ids, err := s.EventIDs(5)
	if err != nil {
		t.Fatalf("EventIDs: %v", err)
	}
	ids[0] = 99
	again, _ := s.EventIDs(5)
	if !slices.Equal(again, []int{3, 1, 2}) {
		t.Fatalf("expected registered ids unchanged, got %v", again)
	}

	if _, err := s.EventIDs(6); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound, got %v", err)
	}
}
