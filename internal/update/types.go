package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// #region mode

// ErrInvalidMode is returned for a state mode outside On, Off and Toggle.
var ErrInvalidMode = errors.New("update: invalid state mode")

// Mode is the requested new state of a switch. The zero value is invalid.
type Mode int

const (
	ModeOn Mode = iota + 1
	ModeOff
	ModeToggle
)

// Valid reports whether m is On, Off or Toggle.
func (m Mode) Valid() bool {
	return m >= ModeOn && m <= ModeToggle
}

func (m Mode) String() string {
	switch m {
	case ModeOn:
		return "On"
	case ModeOff:
		return "Off"
	case ModeToggle:
		return "Toggle"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "On", "Off" or "Toggle" in any case.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on":
		return ModeOn, nil
	case "off":
		return ModeOff, nil
	case "toggle":
		return ModeToggle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

// #endregion mode

// #region result

// Result records one switch write.
type Result struct {
	Key   state.Key
	Mode  Mode
	Read  bool // the previous value was read (Toggle only)
	Prev  bool
	Value bool
}

// Changed reports whether the write flipped a value that was read.
func (r Result) Changed() bool {
	return r.Read && r.Prev != r.Value
}

// #endregion result
