package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to selfswitch.db")
	mapID := flag.Int("map", 0, "show switches for one map (0 = all maps)")
	history := flag.Int("history", 0, "show the N most recent command invocations instead")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/selfswitch.db [--map N] [--history N] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *history > 0 {
		err = runHistoryMode(store, *history, *jsonOut)
	} else {
		err = runSwitchMode(store, *mapID, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region switch-mode

type switchRow struct {
	Map       int    `json:"map"`
	Event     int    `json:"event"`
	Switch    string `json:"switch"`
	Value     bool   `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

func runSwitchMode(store *state.Store, mapID int, jsonOut bool) error {
	var entries []state.Entry
	var err error
	if mapID > 0 {
		entries, err = store.List(mapID)
	} else {
		entries, err = store.ListAll()
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no switches found")
		return nil
	}

	rows := make([]switchRow, len(entries))
	for i, e := range entries {
		rows[i] = switchRow{
			Map:       e.Key.MapID,
			Event:     e.Key.EventID,
			Switch:    string(e.Key.Switch),
			Value:     e.Value,
			UpdatedAt: e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%5s  %5s  %-6s  %-5s  %s\n", "Map", "Event", "Switch", "Value", "Updated")
	fmt.Printf("%5s+-%5s+-%-6s+-%-5s+-%s\n", "-----", "-----", "------", "-----", "--------------------")
	for _, r := range rows {
		val := "OFF"
		if r.Value {
			val = "ON"
		}
		fmt.Printf("%5d  %5d  %-6s  %-5s  %s\n", r.Map, r.Event, r.Switch, val, r.UpdatedAt)
	}
	return nil
}

// #endregion switch-mode

// #region history-mode

type historyRow struct {
	InvocationID string `json:"invocation_id"`
	Command      string `json:"command"`
	Args         string `json:"args"`
	Map          int    `json:"map"`
	Decision     string `json:"decision"`
	Writes       int    `json:"writes"`
	Reason       string `json:"reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func runHistoryMode(store *state.Store, last int, jsonOut bool) error {
	recorder, err := logging.NewRecorder(store.DB())
	if err != nil {
		return err
	}
	entries, err := recorder.List(last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no invocations found")
		return nil
	}

	rows := make([]historyRow, len(entries))
	for i, e := range entries {
		rows[i] = historyRow{
			InvocationID: e.InvocationID,
			Command:      e.Command,
			Args:         e.ArgsJSON,
			Map:          e.MapID,
			Decision:     e.Decision,
			Writes:       e.Writes,
			Reason:       e.Reason,
			CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-8s  %-10s  %4s  %-8s  %6s  %-20s  %s\n", "ID", "Command", "Map", "Decision", "Writes", "Time", "Args")
	for _, r := range rows {
		fmt.Printf("%-8s  %-10s  %4d  %-8s  %6d  %-20s  %s\n",
			r.InvocationID[:min(8, len(r.InvocationID))], r.Command, r.Map, r.Decision, r.Writes, r.CreatedAt, r.Args)
	}
	return nil
}

// #endregion history-mode

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
