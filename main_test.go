package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	env "github.com/rlworld/classic/environment"
	"github.com/rlworld/classic/experiment/trackers"
)

func TestDescribe(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"describe", "--env", "mountaincar"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var specs []env.EnvSpec
	if err := json.Unmarshal(buf.Bytes(), &specs); err != nil {
		t.Fatalf("describe output is not JSON: %v\n%v", err, buf.String())
	}
	if len(specs) != 1 || specs[0].Name != "MountainCar" {
		t.Fatalf("describe: \n\twant(MountainCar)\n\thave(%+v)", specs)
	}
	if specs[0].Action.Cardinality != env.Discrete {
		t.Errorf("action cardinality: \n\twant(%v)\n\thave(%v)", env.Discrete,
			specs[0].Action.Cardinality)
	}
}

func TestDescribeAll(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"describe"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var specs []env.EnvSpec
	if err := json.Unmarshal(buf.Bytes(), &specs); err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Errorf("environments described: \n\twant(%v)\n\thave(%v)", 2,
			len(specs))
	}
}

func TestDescribeUnknown(t *testing.T) {
	cmd := rootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"describe", "--env", "acrobot"})
	if err := cmd.Execute(); err == nil {
		t.Error("describe unknown environment: expected error")
	}
}

func TestRun(t *testing.T) {
	out := t.TempDir()
	f := runFlags{
		env:    "mountaincar",
		steps:  300,
		runs:   2,
		seed:   5,
		cutoff: 100,
		render: "none",
		out:    out,
		record: true,
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), f, &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}

	for _, file := range []string{
		"config.json",
		"return_0.bin", "return_1.bin",
		"length_0.bin", "length_1.bin",
		"episodes_0.jsonl", "episodes_1.jsonl",
		"returns.png", "returns.html",
		"lengths.png", "lengths.html",
	} {
		if _, err := os.Stat(filepath.Join(out, file)); err != nil {
			t.Errorf("missing output %v: %v", file, err)
		}
	}

	// A random agent cannot reach the goal within 100 steps, so every
	// episode is cut off and returns -100
	ret, err := trackers.LoadData(filepath.Join(out, "return_1.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ret) != 3 {
		t.Fatalf("episodes: \n\twant(%v)\n\thave(%v)", 3, len(ret))
	}
	for _, r := range ret {
		if r != -100 {
			t.Errorf("return: \n\twant(%v)\n\thave(%v)", -100, r)
		}
	}

	records, err := os.ReadFile(filepath.Join(out, "episodes_0.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if have := strings.Count(string(records), "\n"); have != 3 {
		t.Errorf("recorded episodes: \n\twant(%v)\n\thave(%v)", 3, have)
	}

	if !strings.Contains(stdout.String(), "run 1: 3 episodes") {
		t.Errorf("summary: %v", stdout.String())
	}
}

func TestRunASCII(t *testing.T) {
	f := runFlags{
		env:    "cartpole",
		steps:  20,
		runs:   1,
		render: "ascii",
		out:    t.TempDir(),
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), f, &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}
	// One frame after each reset and one per step
	if have := strings.Count(stdout.String(), "x: "); have < 21 || have > 40 {
		t.Errorf("frames rendered: \n\twant([21, 40])\n\thave(%v)", have)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.json")
	conf := `{"environment": "Cartpole", "episode_cutoff": 10, "seed": 1}`
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	f := runFlags{config: path, steps: 50, runs: 1, out: dir}
	if err := run(context.Background(), f, io.Discard, io.Discard); err != nil {
		t.Fatal(err)
	}

	lengths, err := trackers.LoadData(filepath.Join(dir, "length_0.bin"))
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range lengths {
		if l > 10 {
			t.Errorf("episode longer than cutoff: %v", l)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []runFlags{
		{env: "pendulum", steps: 10, runs: 1, render: "none"},
		{env: "cartpole", steps: 10, runs: 0, render: "none"},
		{env: "cartpole", steps: 10, runs: 1, render: "opengl"},
	}

	for _, f := range tests {
		f.out = t.TempDir()
		if err := run(context.Background(), f, io.Discard, io.Discard); err == nil {
			t.Errorf("run %+v: expected error", f)
		}
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv(seedEnv, "17")
	t.Setenv(outEnv, "elsewhere")
	if have := defaultSeed(); have != 17 {
		t.Errorf("seed: \n\twant(%v)\n\thave(%v)", 17, have)
	}
	if have := defaultOut(); have != "elsewhere" {
		t.Errorf("out: \n\twant(%v)\n\thave(%v)", "elsewhere", have)
	}

	t.Setenv(seedEnv, "")
	t.Setenv(outEnv, "")
	if defaultSeed() != 0 || defaultOut() != "results" {
		t.Errorf("defaults: have(%v, %v)", defaultSeed(), defaultOut())
	}
}
