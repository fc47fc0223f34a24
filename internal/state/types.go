package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// #region switch

// ErrInvalidSwitch is returned for a self switch name outside A-D.
var ErrInvalidSwitch = errors.New("state: invalid self switch")

// Switch names one of the per-event self switches.
type Switch string

const (
	SwitchA Switch = "A"
	SwitchB Switch = "B"
	SwitchC Switch = "C"
	SwitchD Switch = "D"
)

// Switches lists every self switch in display order.
var Switches = []Switch{SwitchA, SwitchB, SwitchC, SwitchD}

// Valid reports whether s is one of A, B, C or D.
func (s Switch) Valid() bool {
	switch s {
	case SwitchA, SwitchB, SwitchC, SwitchD:
		return true
	}
	return false
}

// ParseSwitch accepts a switch name in either case.
func ParseSwitch(raw string) (Switch, error) {
	s := Switch(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSwitch, raw)
	}
	return s, nil
}

// #endregion switch

// #region key

// Key addresses one self switch of one event on one map.
type Key struct {
	MapID   int
	EventID int
	Switch  Switch
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d:%s", k.MapID, k.EventID, k.Switch)
}

// Compare orders keys by map, event, then switch.
func (k Key) Compare(o Key) int {
	switch {
	case k.MapID != o.MapID:
		return cmpInt(k.MapID, o.MapID)
	case k.EventID != o.EventID:
		return cmpInt(k.EventID, o.EventID)
	default:
		return strings.Compare(string(k.Switch), string(o.Switch))
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

// Entry is a stored switch value.
type Entry struct {
	Key       Key
	Value     bool
	UpdatedAt time.Time
}

// #endregion key

// #region interfaces

// ReadWriter is the host boolean store. Absent keys read as false.
type ReadWriter interface {
	Value(key Key) (bool, error)
	SetValue(key Key, value bool) error
}

// Atomic stores can apply a batch of writes all-or-nothing.
type Atomic interface {
	ReadWriter
	Atomically(fn func(rw ReadWriter) error) error
}

// #endregion interfaces
