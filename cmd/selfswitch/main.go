package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/selfswitch/internal/app"
	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/config"
	"github.com/danielpatrickdp/selfswitch/internal/hostrpc"
	"github.com/danielpatrickdp/selfswitch/internal/logging"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to selfswitch.toml")
	remote := flag.String("remote", "", "dispatch to a controller at this address instead of the local db")
	stateArg := flag.String("state", "On", "On, Off or Toggle")
	mapArg := flag.String("map", "0", "map id, 0 for the current map")
	eventArg := flag.String("event", "all", `event selector, e.g. "3", "2,4", "5-12", "all"`)
	switchArg := flag.String("switch", "A", "self switch A-D")
	jsonOut := flag.Bool("json", false, "output as JSON")
	flag.Parse()

	args := map[string]string{
		command.ArgState:  *stateArg,
		command.ArgMap:    *mapArg,
		command.ArgEvent:  *eventArg,
		command.ArgSwitch: *switchArg,
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if *remote != "" {
		os.Exit(runRemote(*remote, args, *jsonOut))
	}
	os.Exit(runLocal(cfg, args, *jsonOut))
}

// #endregion main

// #region local
func runLocal(cfg config.Config, args map[string]string, jsonOut bool) int {
	logger := logging.NewLogger("selfswitch", cfg.LogLevel, os.Stderr)
	a, err := app.Open(cfg, command.HostFunc(func() int { return cfg.CurrentMap }), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		return 1
	}
	defer a.Close()

	res, err := a.Registry.Dispatch(context.Background(), command.SelfSwitchName, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		return printJSON(res)
	}
	fmt.Printf("%s: map %d, %d writes (%s)\n", res.Decision, res.MapID, res.Writes(), res.Reason)
	for _, u := range res.Updates {
		fmt.Printf("  %-10s %v\n", u.Key, u.Value)
	}
	return 0
}

// #endregion local

// #region remote
func runRemote(addr string, args map[string]string, jsonOut bool) int {
	client, err := hostrpc.NewClient(addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		return 1
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	reply, err := client.Dispatch(ctx, command.SelfSwitchName, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		return printJSON(reply)
	}
	fmt.Printf("%s: map %d, %d writes (%s)\n", reply.Decision, reply.MapID, reply.Writes, reply.Reason)
	for _, u := range reply.Updates {
		fmt.Printf("  %d:%d:%s %v\n", reply.MapID, u.EventID, u.Switch, u.Value)
	}
	return 0
}

// #endregion remote

// #region helpers
func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}

// #endregion helpers
