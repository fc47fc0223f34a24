package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/mapdata"
	"github.com/danielpatrickdp/selfswitch/internal/selector"
	"github.com/danielpatrickdp/selfswitch/internal/state"
	"github.com/danielpatrickdp/selfswitch/internal/update"
)

// #region types

// Host exposes the invoking runtime's context.
type Host interface {
	CurrentMapID() int
}

// HostFunc adapts a function to Host.
type HostFunc func() int

func (f HostFunc) CurrentMapID() int { return f() }

// Result describes one command invocation.
type Result struct {
	InvocationID string
	Command      string
	MapID        int
	Decision     string // logging.Decision*
	Reason       string
	Updates      []update.Result
}

// Applied reports whether the invocation wrote at least one switch.
func (r Result) Applied() bool {
	return r.Decision == logging.DecisionApplied
}

// Writes is the number of switch writes the invocation made.
func (r Result) Writes() int {
	return len(r.Updates)
}

// Command is a named host command taking string arguments.
type Command interface {
	Name() string
	Run(ctx context.Context, args map[string]string) (Result, error)
}

// #endregion types

// #region selfswitch

// SelfSwitchName is the command name registered with the host.
const SelfSwitchName = "selfswitch"

// SelfSwitch sets, clears or toggles one self switch on a set of events.
type SelfSwitch struct {
	store  state.ReadWriter
	maps   mapdata.Catalog
	host   Host
	logger zerolog.Logger
}

// NewSelfSwitch wires the command to its host collaborators. maps is only
// consulted for the "all" selector and host only for map 0.
func NewSelfSwitch(store state.ReadWriter, maps mapdata.Catalog, host Host, logger zerolog.Logger) *SelfSwitch {
	return &SelfSwitch{store: store, maps: maps, host: host, logger: logger}
}

func (c *SelfSwitch) Name() string { return SelfSwitchName }

// Run parses raw arguments and applies them.
func (c *SelfSwitch) Run(ctx context.Context, raw map[string]string) (Result, error) {
	args, err := ParseArgs(raw)
	if err != nil {
		return Result{Command: SelfSwitchName}, err
	}
	return c.Apply(ctx, args)
}

// Apply validates the whole invocation, then writes every target switch.
// Any failure leaves the store as it was when the store supports atomic
// batches, and validation failures never reach the store at all.
func (c *SelfSwitch) Apply(ctx context.Context, args Args) (Result, error) {
	res := Result{Command: SelfSwitchName}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !args.State.Valid() {
		return res, fmt.Errorf("%w: %s", update.ErrInvalidMode, args.State)
	}
	if !args.Switch.Valid() {
		return res, fmt.Errorf("%w: %q", state.ErrInvalidSwitch, args.Switch)
	}

	mapID, err := c.resolveMap(args.MapID)
	if err != nil {
		return res, err
	}
	res.MapID = mapID

	sel, err := selector.Parse(args.Event)
	if err != nil {
		return res, err
	}
	ids, err := sel.IDs(func() ([]int, error) {
		if c.maps == nil {
			return nil, errors.New("command: no map catalog configured")
		}
		return c.maps.EventIDs(mapID)
	})
	if err != nil {
		return res, err
	}

	var updates []update.Result
	apply := func(rw state.ReadWriter) error {
		updates = updates[:0]
		for id := range ids {
			key := state.Key{MapID: mapID, EventID: id, Switch: args.Switch}
			u, err := update.Update(rw, key, args.State)
			if err != nil {
				return err
			}
			updates = append(updates, u)
		}
		return nil
	}
	if atomic, ok := c.store.(state.Atomic); ok {
		err = atomic.Atomically(apply)
	} else {
		err = apply(c.store)
	}
	if err != nil {
		return res, err
	}

	res.Updates = updates
	if len(updates) == 0 {
		res.Decision = logging.DecisionNoOp
		res.Reason = fmt.Sprintf("selector %q matched no events", sel.String())
	} else {
		res.Decision = logging.DecisionApplied
		res.Reason = fmt.Sprintf("%s switch %s on %d events", args.State, args.Switch, len(updates))
	}

	c.logger.Debug().
		Int("map", mapID).
		Str("selector", sel.String()).
		Str("switch", string(args.Switch)).
		Stringer("state", args.State).
		Int("writes", len(updates)).
		Msg("selfswitch applied")
	return res, nil
}

func (c *SelfSwitch) resolveMap(mapID int) (int, error) {
	if mapID < 0 {
		return 0, fmt.Errorf("%w: map %d", ErrInvalidArgs, mapID)
	}
	if mapID != CurrentMap {
		return mapID, nil
	}
	if c.host == nil {
		return 0, errors.New("command: no host to resolve the current map")
	}
	current := c.host.CurrentMapID()
	if current <= 0 {
		return 0, fmt.Errorf("command: host reports no current map (%d)", current)
	}
	return current, nil
}

// #endregion selfswitch
