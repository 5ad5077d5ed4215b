package loom_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/loomlang/loom/pkg/loom"
)

func TestMain(m *testing.M) {
	code := m.Run()
	snaps.Clean(m)
	os.Exit(code)
}

// TestFixtures lowers and runs every loom program under testdata/fixtures,
// snapshotting the result value plus the full contract trace. New fixtures
// only need a .loom file with an fn main; the snapshot records everything.
func TestFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "fixtures", "*.loom"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found under testdata/fixtures")
	}

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".loom")
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			registry, err := loom.LowerModule(string(source))
			if err != nil {
				t.Fatalf("lowering: %v", err)
			}
			builder, ok := registry.Lookup("main")
			if !ok {
				t.Fatal("fixture has no fn main")
			}

			interpreter := loom.NewInterpreter()
			result, err := interpreter.ExecuteFunction(builder())

			var report strings.Builder
			if err != nil {
				fmt.Fprintf(&report, "error: %v\n", err)
			} else {
				fmt.Fprintf(&report, "result: %s\n", result.String())
			}
			for _, check := range interpreter.ContractTrace() {
				status := "ok"
				if !check.Passed {
					status = "failed"
				}
				fmt.Fprintf(&report, "contract %s/%s %s: %s\n", check.Tag, check.Condition, check.Phase, status)
			}

			snaps.MatchSnapshot(t, report.String())
		})
	}
}

// TestFixturesRunClean asserts no fixture errors and no fixture contract
// fails, independently of the snapshot contents.
func TestFixturesRunClean(t *testing.T) {
	paths, _ := filepath.Glob(filepath.Join("testdata", "fixtures", "*.loom"))
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		registry, err := loom.LowerModule(string(source))
		if err != nil {
			t.Fatalf("%s: lowering: %v", path, err)
		}
		builder, _ := registry.Lookup("main")

		interpreter := loom.NewInterpreter()
		if _, err := interpreter.ExecuteFunction(builder()); err != nil {
			t.Errorf("%s: %v", path, err)
		}
		for _, check := range interpreter.ContractTrace() {
			if !check.Passed {
				t.Errorf("%s: contract %s/%s (%s) failed", path, check.Tag, check.Condition, check.Phase)
			}
		}
	}
}
