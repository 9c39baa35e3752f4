package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestParseFlagsOnlySetFlagsOverride(t *testing.T) {
	opts, err := parseFlags([]string{"-machine", "guren", "-balls", "500", "-power", "0.5"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	o := opts.overrides
	if opts.machine != "guren" || o.InitialBalls == nil || *o.InitialBalls != 500 || *o.ShotPower != 0.5 {
		t.Fatalf("opts=%+v", opts)
	}
	if o.Duration != nil || o.BoardSeed != nil || o.LogLevel != nil {
		t.Fatalf("unset flags leaked into overrides: %+v", o)
	}
}

func TestRunSeededSessionJSON(t *testing.T) {
	configDir, err := filepath.Abs(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(configDir, "default.yaml")); err != nil {
		t.Skipf("configs not found: %v", err)
	}

	var out bytes.Buffer
	args := []string{"-config", configDir, "-machine", "guren", "-seed", "9", "-duration", "2m", "-log-level", "error", "-json"}
	if err := run(context.Background(), args, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var rep report
	if err := jsoniter.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	if rep.Machine != "guren" || rep.Settlement.StartBalls != 1000+500 {
		t.Fatalf("machine=%q start=%d", rep.Machine, rep.Settlement.StartBalls)
	}
	if rep.Shots == 0 {
		t.Fatalf("no shots fired")
	}
	if want := rep.Settlement.StartBalls - rep.Shots + rep.Paid; rep.Snapshot.Balls != want {
		t.Fatalf("balls=%d want %d", rep.Snapshot.Balls, want)
	}
}

func TestRunCalibrate(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration draws 319000 per trial")
	}
	configDir := filepath.Join("..", "..", "configs")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-config", configDir, "-calibrate", "-trials", "200", "-seed", "3"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"rush continuation", "normal draws to jackpot", "rush jackpot probability"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("%q missing from\n%s", want, out.String())
		}
	}
}

func TestRunRejectsUnknownMachine(t *testing.T) {
	err := run(context.Background(), []string{"-config", filepath.Join("..", "..", "configs"), "-machine", "missing"}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected error")
	}
}
