package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/mapdata"
	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description      string                  `json:"description"`
	CurrentMap       int                     `json:"current_map"`
	Maps             map[int][]int           `json:"maps"`
	Initial          []FixtureSwitch         `json:"initial"`
	Steps            []FixtureStep           `json:"steps"`
	ExpectedResults  []FixtureExpectedResult `json:"expected_results"`
	ExpectedSwitches []FixtureSwitch         `json:"expected_switches"`
}

// FixtureStep is either a plugin-command line or a command name with args.
type FixtureStep struct {
	StepID  string            `json:"step_id"`
	Line    string            `json:"line,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    map[string]string `json:"args,omitempty"`
}

// FixtureSwitch is one stored switch value.
type FixtureSwitch struct {
	Map    int    `json:"map"`
	Event  int    `json:"event"`
	Switch string `json:"switch"`
	Value  bool   `json:"value"`
}

// FixtureExpectedResult captures the expected decision per step.
type FixtureExpectedResult struct {
	StepID   string `json:"step_id"`
	Decision string `json:"decision"`
	Writes   *int   `json:"writes,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the fixture as indented JSON.
func (f *Fixture) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToStep converts a FixtureStep to a domain Step, parsing Line when set.
func (fs *FixtureStep) ToStep() (Step, error) {
	if fs.Line == "" {
		return Step{StepID: fs.StepID, Command: fs.Command, Args: fs.Args}, nil
	}
	name, args, err := command.ParseLine(fs.Line)
	if err != nil {
		return Step{}, fmt.Errorf("step %s: %w", fs.StepID, err)
	}
	return Step{StepID: fs.StepID, Command: name, Args: args}, nil
}

// ToEntry converts a FixtureSwitch to a state entry.
func (fs FixtureSwitch) ToEntry() (state.Entry, error) {
	sw, err := state.ParseSwitch(fs.Switch)
	if err != nil {
		return state.Entry{}, err
	}
	return state.Entry{Key: state.Key{MapID: fs.Map, EventID: fs.Event, Switch: sw}, Value: fs.Value}, nil
}

// FromEntry converts a state entry to its fixture form.
func FromEntry(e state.Entry) FixtureSwitch {
	return FixtureSwitch{Map: e.Key.MapID, Event: e.Key.EventID, Switch: string(e.Key.Switch), Value: e.Value}
}

// Env returns the host context the fixture describes.
func (f *Fixture) Env() Env {
	return Env{CurrentMap: f.CurrentMap, Maps: mapdata.Static(f.Maps)}
}

// DomainSteps converts every fixture step.
func (f *Fixture) DomainSteps() ([]Step, error) {
	steps := make([]Step, len(f.Steps))
	for i := range f.Steps {
		s, err := f.Steps[i].ToStep()
		if err != nil {
			return nil, err
		}
		steps[i] = s
	}
	return steps, nil
}

// InitialStore returns a store seeded with the fixture's initial switches.
func (f *Fixture) InitialStore() (*state.MemStore, error) {
	store := state.NewMemStore()
	for _, fs := range f.Initial {
		e, err := fs.ToEntry()
		if err != nil {
			return nil, fmt.Errorf("initial switch: %w", err)
		}
		store.SetValue(e.Key, e.Value)
	}
	return store, nil
}

// Expected converts the expected switch list.
func (f *Fixture) Expected() ([]state.Entry, error) {
	out := make([]state.Entry, len(f.ExpectedSwitches))
	for i, fs := range f.ExpectedSwitches {
		e, err := fs.ToEntry()
		if err != nil {
			return nil, fmt.Errorf("expected switch: %w", err)
		}
		out[i] = e
	}
	return out, nil
}

// #endregion fixture-loader

// #region run-fixture

// Report is the outcome of running a fixture.
type Report struct {
	Results        []StepResult
	Summary        Summary
	StepMismatches []string
	Mismatches     []Mismatch
	Final          []state.Entry
}

// Passed reports whether every expectation held.
func (r Report) Passed() bool {
	return len(r.StepMismatches) == 0 && len(r.Mismatches) == 0
}

// RunFixture replays a fixture and checks its expectations. Expected results
// are matched by step id; steps without one are not checked.
func RunFixture(ctx context.Context, f *Fixture, logger zerolog.Logger) (Report, error) {
	store, err := f.InitialStore()
	if err != nil {
		return Report{}, err
	}
	steps, err := f.DomainSteps()
	if err != nil {
		return Report{}, err
	}
	want, err := f.Expected()
	if err != nil {
		return Report{}, err
	}

	results, err := Replay(ctx, store, steps, f.Env(), logger)
	if err != nil {
		return Report{}, err
	}
	rep := Report{
		Results:    results,
		Summary:    Summarize(results),
		Mismatches: Verify(store, want),
		Final:      store.Entries(),
	}

	byID := make(map[string]StepResult, len(results))
	for _, r := range results {
		byID[r.StepID] = r
	}
	for _, exp := range f.ExpectedResults {
		r, ok := byID[exp.StepID]
		if !ok {
			rep.StepMismatches = append(rep.StepMismatches, fmt.Sprintf("step %s: no such step", exp.StepID))
			continue
		}
		if r.Decision != exp.Decision {
			rep.StepMismatches = append(rep.StepMismatches,
				fmt.Sprintf("step %s: expected decision=%s, got %s (reason: %s)", exp.StepID, exp.Decision, r.Decision, r.Reason))
		}
		if exp.Writes != nil && r.Writes != *exp.Writes {
			rep.StepMismatches = append(rep.StepMismatches,
				fmt.Sprintf("step %s: expected %d writes, got %d", exp.StepID, *exp.Writes, r.Writes))
		}
	}
	return rep, nil
}

// #endregion run-fixture
