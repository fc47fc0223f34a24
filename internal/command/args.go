package command

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/selfswitch/internal/selector"
	"github.com/danielpatrickdp/selfswitch/internal/state"
	"github.com/danielpatrickdp/selfswitch/internal/update"
)

// #region errors
var (
	ErrInvalidArgs    = errors.New("command: invalid arguments")
	ErrUnknownCommand = errors.New("command: unknown command")
)

// #endregion errors

// #region schema

// Argument names accepted by the selfswitch command.
const (
	ArgState  = "state"
	ArgMap    = "map"
	ArgEvent  = "event"
	ArgSwitch = "switch"
)

// CurrentMap is the map argument value that means the invoking map.
const CurrentMap = 0

// Args is a validated selfswitch invocation.
type Args struct {
	State  update.Mode
	MapID  int
	Event  string
	Switch state.Switch
}

// DefaultArgs is state=On map=0 event=all switch=A.
func DefaultArgs() Args {
	return Args{
		State:  update.ModeOn,
		MapID:  CurrentMap,
		Event:  selector.All,
		Switch: state.SwitchA,
	}
}

// ParseArgs applies defaults and validates raw string arguments. Keys are
// case-insensitive; unknown keys and keys repeated under different case are
// rejected. Defaults fill only keys that are absent: a key present with an
// empty value is invalid. The event selector grammar is validated when the
// command runs.
func ParseArgs(raw map[string]string) (Args, error) {
	args := DefaultArgs()
	seen := make(map[string]string, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		name := strings.ToLower(strings.TrimSpace(key))
		if prev, dup := seen[name]; dup {
			return Args{}, fmt.Errorf("%w: argument %q given as both %q and %q", ErrInvalidArgs, name, prev, key)
		}
		seen[name] = key

		val := strings.TrimSpace(raw[key])
		switch name {
		case ArgState:
			m, err := update.ParseMode(val)
			if err != nil {
				return Args{}, err
			}
			args.State = m
		case ArgMap:
			id, err := strconv.Atoi(val)
			if err != nil || id < 0 {
				return Args{}, fmt.Errorf("%w: map %q is not a non-negative integer", ErrInvalidArgs, val)
			}
			args.MapID = id
		case ArgEvent:
			args.Event = val
		case ArgSwitch:
			sw, err := state.ParseSwitch(val)
			if err != nil {
				return Args{}, err
			}
			args.Switch = sw
		default:
			return Args{}, fmt.Errorf("%w: unknown argument %q", ErrInvalidArgs, key)
		}
	}
	return args, nil
}

// Map renders args back into raw string form.
func (a Args) Map() map[string]string {
	return map[string]string{
		ArgState:  a.State.String(),
		ArgMap:    strconv.Itoa(a.MapID),
		ArgEvent:  a.Event,
		ArgSwitch: string(a.Switch),
	}
}

// #endregion schema

// IsInvalid reports whether err comes from a malformed invocation rather than
// from the store or the host.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, selector.ErrInvalidSelector) ||
		errors.Is(err, update.ErrInvalidMode) ||
		errors.Is(err, state.ErrInvalidSwitch)
}
