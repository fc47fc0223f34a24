package mapdata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/tidwall/gjson"
)

// #region errors
var (
	ErrMapNotFound = errors.New("mapdata: map not found")
	ErrMalformed   = errors.New("mapdata: malformed map data")
)

// #endregion errors

// Catalog enumerates the events defined on a map.
type Catalog interface {
	EventIDs(mapID int) ([]int, error)
}

// #region dir

// Dir reads host map files named MapNNN.json from a data directory.
type Dir struct {
	root string
}

// NewDir returns a catalog rooted at a host data directory.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Path is the file that holds a map's data.
func (d *Dir) Path(mapID int) string {
	return filepath.Join(d.root, fmt.Sprintf("Map%03d.json", mapID))
}

// EventIDs returns the ids of every event defined on the map, in slot order.
func (d *Dir) EventIDs(mapID int) ([]int, error) {
	if mapID <= 0 {
		return nil, fmt.Errorf("%w: map %d", ErrMapNotFound, mapID)
	}
	data, err := os.ReadFile(d.Path(mapID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: map %d", ErrMapNotFound, mapID)
	}
	if err != nil {
		return nil, fmt.Errorf("read map %d: %w", mapID, err)
	}
	ids, err := ParseEventIDs(data)
	if err != nil {
		return nil, fmt.Errorf("map %d: %w", mapID, err)
	}
	return ids, nil
}

// #endregion dir

// #region parse

// ParseEventIDs extracts event ids from a map document. The events array
// carries null placeholder slots (slot 0 is always null); those are skipped.
func ParseEventIDs(data []byte) ([]int, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	events := gjson.GetBytes(data, "events")
	if !events.Exists() || events.Type == gjson.Null {
		return []int{}, nil
	}
	if !events.IsArray() {
		return nil, fmt.Errorf("%w: events is not an array", ErrMalformed)
	}

	ids := []int{}
	var bad error
	events.ForEach(func(_, ev gjson.Result) bool {
		if !ev.IsObject() {
			return true
		}
		id := ev.Get("id")
		if id.Type != gjson.Number || id.Int() <= 0 {
			bad = fmt.Errorf("%w: event without a positive id: %s", ErrMalformed, ev.Raw)
			return false
		}
		ids = append(ids, int(id.Int()))
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return ids, nil
}

// #endregion parse

// #region static

// Static is an in-memory catalog for hosts that push their map data directly.
type Static map[int][]int

// EventIDs returns a copy of the ids registered for the map.
func (s Static) EventIDs(mapID int) ([]int, error) {
	ids, ok := s[mapID]
	if !ok {
		return nil, fmt.Errorf("%w: map %d", ErrMapNotFound, mapID)
	}
	return slices.Clone(ids), nil
}

// #endregion static
