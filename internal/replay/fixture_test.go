package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// #region fixture-tests

// TestFixture_HarborSession is the regression baseline for command semantics:
// ranges, toggles, defaults, rejected typos, empty ranges and unknown commands.
func TestFixture_HarborSession(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "harbor_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	rep, err := RunFixture(context.Background(), f, zerolog.Nop())
	if err != nil {
		t.Fatalf("RunFixture: %v", err)
	}
	for _, m := range rep.StepMismatches {
		t.Error(m)
	}
	for _, m := range rep.Mismatches {
		t.Error(m.String())
	}
	if !rep.Passed() {
		t.FailNow()
	}

	want := Summary{TotalSteps: 7, Applied: 4, Rejected: 1, NoOps: 1, Failed: 1}
	if rep.Summary != want {
		t.Fatalf("expected summary %+v, got %+v", want, rep.Summary)
	}
	if len(rep.Final) != 8 {
		t.Fatalf("expected 8 final switches, got %d", len(rep.Final))
	}
}

// TestFixture_SaveRoundTrip verifies Save writes something LoadFixture reads back.
func TestFixture_SaveRoundTrip(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "harbor_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "copy.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture copy: %v", err)
	}
	if len(again.Steps) != len(f.Steps) || len(again.Maps[2]) != 5 {
		t.Fatalf("round trip lost data: %+v", again)
	}
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// TestRunFixture_BadLine verifies an unparseable step line fails the run up front.
func TestRunFixture_BadLine(t *testing.T) {
	f := &Fixture{Steps: []FixtureStep{{StepID: "s1", Line: `selfswitch event="1`}}}
	if _, err := RunFixture(context.Background(), f, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

// TestRunFixture_BadInitialSwitch verifies invalid seed data is reported.
func TestRunFixture_BadInitialSwitch(t *testing.T) {
	f := &Fixture{Initial: []FixtureSwitch{{Map: 1, Event: 1, Switch: "Z"}}}
	if _, err := RunFixture(context.Background(), f, zerolog.Nop()); err == nil {
		t.Fatal("expected error for invalid switch")
	}
}

// #endregion fixture-tests
