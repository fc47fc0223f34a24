package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"google.golang.org/grpc"

	"github.com/danielpatrickdp/selfswitch/internal/app"
	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/config"
	"github.com/danielpatrickdp/selfswitch/internal/hostrpc"
	"github.com/danielpatrickdp/selfswitch/internal/logging"
)

// #region main
func main() {
	configPath := flag.String("config", "", "path to selfswitch.toml")
	serve := flag.Bool("serve", false, "serve the gRPC host API instead of reading stdin")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := logging.NewLogger("controller", cfg.LogLevel, os.Stderr)

	var currentMap atomic.Int64
	currentMap.Store(int64(cfg.CurrentMap))
	host := command.HostFunc(func() int { return int(currentMap.Load()) })

	a, err := app.Open(cfg, host, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer a.Close()

	if *serve {
		if err := runServer(a, cfg.ListenAddr); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
		return
	}
	runConsole(a, &currentMap, cfg)
}

// #endregion main

// #region server
func runServer(a *app.App, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	gs := grpc.NewServer()
	hostrpc.NewServer(a.Registry, a.Logger).Register(gs)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		a.Logger.Info().Msg("shutting down")
		gs.GracefulStop()
	}()

	a.Logger.Info().Str("addr", lis.Addr().String()).Msg("serving host API")
	if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// #endregion server

// #region console
func runConsole(a *app.App, currentMap *atomic.Int64, cfg config.Config) {
	fmt.Println("selfswitch controller ready.")
	fmt.Printf("  DB: %s | Maps: %s | Current map: %d\n", cfg.DBPath, cfg.MapDir, currentMap.Load())
	fmt.Println("Enter plugin commands, 'goto <map>' to change map, or 'quit' to exit:")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if rest, ok := strings.CutPrefix(line, "goto "); ok {
			id, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil || id <= 0 {
				fmt.Println("usage: goto <positive map id>")
				continue
			}
			currentMap.Store(int64(id))
			fmt.Printf("current map is now %d\n", id)
			continue
		}

		res, err := a.Registry.DispatchLine(context.Background(), line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("[%s] decision=%s map=%d writes=%d %s\n",
			res.InvocationID[:8], res.Decision, res.MapID, res.Writes(), res.Reason)
	}
}

// #endregion console
