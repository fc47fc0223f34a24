package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/config"
	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/state"
)

func TestOpenDispatchPersistsAndAudits(t *testing.T) {
	dir := t.TempDir()
	mapDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(mapDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	mapJSON := `{"events": [null, {"id": 1}, null, {"id": 3}]}`
	if err := os.WriteFile(filepath.Join(mapDir, "Map005.json"), []byte(mapJSON), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}

	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "switches.db")
	cfg.MapDir = mapDir

	a, err := Open(cfg, command.HostFunc(func() int { return 5 }), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	res, err := a.Registry.DispatchLine(context.Background(), "selfswitch switch=B")
	if err != nil {
		t.Fatalf("DispatchLine: %v", err)
	}
	if res.Writes() != 2 || res.MapID != 5 {
		t.Fatalf("unexpected result %+v", res)
	}

	entries, err := a.Store.List(5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[1].Key != (state.Key{MapID: 5, EventID: 3, Switch: state.SwitchB}) || !entries[1].Value {
		t.Fatalf("unexpected stored entries %+v", entries)
	}

	a.Registry.DispatchLine(context.Background(), "selfswitch event=1-")
	log, err := a.Audit.List(0)
	if err != nil {
		t.Fatalf("Audit.List: %v", err)
	}
	if len(log) != 2 || log[0].Decision != logging.DecisionApplied || log[1].Decision != logging.DecisionRejected {
		t.Fatalf("unexpected audit log %+v", log)
	}
	if log[0].MapID != 5 || log[0].Writes != 2 {
		t.Fatalf("unexpected audit entry %+v", log[0])
	}
}
