package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/mapdata"
	"github.com/danielpatrickdp/selfswitch/internal/replay"
	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to selfswitch.db")
	mapDir := flag.String("maps", "", "host map data directory, needed when the log uses event=all")
	outPath := flag.String("out", "", "output fixture path (default stdout)")
	last := flag.Int("last", 0, "export only the N most recent invocations (0 = all)")
	desc := flag.String("description", "exported from command_log", "fixture description")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/selfswitch.db [--maps dir] [--out fixture.json] [--last N]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var catalog mapdata.Catalog
	if *mapDir != "" {
		catalog = mapdata.NewDir(*mapDir)
	}

	f, err := export(store, catalog, *last, *desc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}

	if *outPath == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := f.Save(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %d steps to %s\n", len(f.Steps), *outPath)
}

// #endregion main

// #region export

// export turns logged invocations into replay steps. The map argument is
// pinned to the map that was resolved at the time, so the fixture does not
// depend on the host's current map. Expected switches are the store's
// current contents, which match only when the log starts from an empty store.
func export(store *state.Store, catalog mapdata.Catalog, last int, desc string) (*replay.Fixture, error) {
	recorder, err := logging.NewRecorder(store.DB())
	if err != nil {
		return nil, err
	}
	entries, err := recorder.List(last)
	if err != nil {
		return nil, err
	}

	f := &replay.Fixture{Description: desc, Maps: map[int][]int{}}
	var mapIDs []int
	for i, e := range entries {
		args := map[string]string{}
		if e.ArgsJSON != "" {
			if err := json.Unmarshal([]byte(e.ArgsJSON), &args); err != nil {
				return nil, fmt.Errorf("invocation %s: parse args: %w", e.InvocationID, err)
			}
		}
		if e.MapID > 0 {
			args[command.ArgMap] = strconv.Itoa(e.MapID)
			if !slices.Contains(mapIDs, e.MapID) {
				mapIDs = append(mapIDs, e.MapID)
			}
		}
		stepID := fmt.Sprintf("s%d", i+1)
		f.Steps = append(f.Steps, replay.FixtureStep{StepID: stepID, Command: e.Command, Args: args})
		writes := e.Writes
		f.ExpectedResults = append(f.ExpectedResults, replay.FixtureExpectedResult{
			StepID:   stepID,
			Decision: e.Decision,
			Writes:   &writes,
		})
	}

	if catalog != nil {
		for _, id := range mapIDs {
			ids, err := catalog.EventIDs(id)
			if err != nil {
				return nil, err
			}
			f.Maps[id] = ids
		}
	}

	current, err := store.ListAll()
	if err != nil {
		return nil, err
	}
	for _, e := range current {
		f.ExpectedSwitches = append(f.ExpectedSwitches, replay.FromEntry(e))
	}
	return f, nil
}

// #endregion export
