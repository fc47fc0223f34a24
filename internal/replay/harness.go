package replay

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/mapdata"
	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// #region types

// Step is one recorded command invocation.
type Step struct {
	StepID  string
	Command string
	Args    map[string]string
}

// Env is the host context the steps run against.
type Env struct {
	CurrentMap int
	Maps       mapdata.Catalog
}

// StepResult captures the outcome of replaying one step.
type StepResult struct {
	StepID   string
	Decision string // logging.Decision* or command.DecisionFailed
	Reason   string
	MapID    int
	Writes   int
	Err      error // set only for failures the registry returns
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSteps int
	Applied    int
	Rejected   int
	NoOps      int
	Failed     int
}

// Mismatch is a switch whose final value differs from the expectation.
type Mismatch struct {
	Key        state.Key
	Want       bool
	Got        bool
	Unexpected bool // the key was written but not listed in the expectation
}

func (m Mismatch) String() string {
	if m.Unexpected {
		return fmt.Sprintf("%s: unexpected write (value %v)", m.Key, m.Got)
	}
	return fmt.Sprintf("%s: want %v, got %v", m.Key, m.Want, m.Got)
}

// #endregion types

// #region replay

// Replay dispatches every step in order against store through a fresh
// registry. Steps never abort the run; each outcome is reported.
func Replay(ctx context.Context, store *state.MemStore, steps []Step, env Env, logger zerolog.Logger) ([]StepResult, error) {
	reg := command.NewRegistry(nil, logger)
	host := command.HostFunc(func() int { return env.CurrentMap })
	if err := reg.Register(command.NewSelfSwitch(store, env.Maps, host, logger)); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		res, err := reg.Dispatch(ctx, step.Command, step.Args)
		r := StepResult{
			StepID:   step.StepID,
			Decision: res.Decision,
			Reason:   res.Reason,
			MapID:    res.MapID,
			Writes:   res.Writes(),
			Err:      err,
		}
		if err != nil {
			r.Decision = command.DecisionFailed
			r.Reason = err.Error()
		}
		results = append(results, r)
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []StepResult) Summary {
	s := Summary{TotalSteps: len(results)}
	for _, r := range results {
		switch r.Decision {
		case logging.DecisionApplied:
			s.Applied++
		case logging.DecisionRejected:
			s.Rejected++
		case logging.DecisionNoOp:
			s.NoOps++
		default:
			s.Failed++
		}
	}
	return s
}

// Verify compares the store with the expected switch values. Every written
// key must be listed, so stray writes are reported too.
func Verify(store *state.MemStore, want []state.Entry) []Mismatch {
	listed := make(map[state.Key]bool, len(want))
	var out []Mismatch
	for _, w := range want {
		listed[w.Key] = true
		got, _ := store.Value(w.Key)
		if got != w.Value {
			out = append(out, Mismatch{Key: w.Key, Want: w.Value, Got: got})
		}
	}
	for _, e := range store.Entries() {
		if !listed[e.Key] {
			out = append(out, Mismatch{Key: e.Key, Got: e.Value, Unexpected: true})
		}
	}
	return out
}

// #endregion replay
