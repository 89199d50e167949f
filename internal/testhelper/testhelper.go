// Package testhelper loads the YAML scenario fixtures
// (testdata/scenarios.yaml) used to drive a constructed Memory through a
// sequence of operations and assert on the resulting state.
package testhelper

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// Op is one journal operation applied while running a scenario.
type Op struct {
	Add *struct {
		Addr         int    `yaml:"addr"`
		Data         []int  `yaml:"data"`
		CodeLocation string `yaml:"code_location"`
		WantError    bool   `yaml:"want_error"`
	} `yaml:"add,omitempty"`
	Previous bool `yaml:"previous,omitempty"`
	Next     bool `yaml:"next,omitempty"`
	MoveTo   *int `yaml:"move_to,omitempty"`
}

// Check is one post-condition asserted after a scenario's ops have run.
type Check struct {
	Read *struct {
		Addr int `yaml:"addr"`
		Size int `yaml:"size"`
	} `yaml:"read,omitempty"`
	ReadIDs *struct {
		Addr int `yaml:"addr"`
		Size int `yaml:"size"`
	} `yaml:"read_ids,omitempty"`
	Want []int `yaml:"want"`
}

// Scenario is one named example: a sequence of operations plus the
// read/read_ids assertions that must hold once they've run.
type Scenario struct {
	Name   string  `yaml:"name"`
	Ops    []Op    `yaml:"ops"`
	Checks []Check `yaml:"checks"`
}

// Fixture is the top-level shape of testdata/scenarios.yaml: the memory
// dimensions shared by every scenario, plus the scenarios themselves.
type Fixture struct {
	NumPages     int        `yaml:"num_pages"`
	PageSize     int        `yaml:"page_size"`
	DefaultValue int        `yaml:"default_value"`
	Scenarios    []Scenario `yaml:"scenarios"`
}

// Load finds and parses testdata/scenarios.yaml, trying a few relative
// paths since `go test` runs with the package directory as the working
// directory.
func Load(t *testing.T) Fixture {
	t.Helper()

	candidates := []string{
		filepath.Join("testdata", "scenarios.yaml"),
		filepath.Join("..", "testdata", "scenarios.yaml"),
		filepath.Join("..", "..", "testdata", "scenarios.yaml"),
	}
	var b []byte
	var found string
	for _, p := range candidates {
		if bb, err := os.ReadFile(p); err == nil {
			b = bb
			found = p
			break
		}
	}
	if found == "" {
		t.Fatalf("failed to find testdata/scenarios.yaml (tried: %v)", candidates)
	}

	var fx Fixture
	if err := yaml.Unmarshal(b, &fx); err != nil {
		t.Fatalf("failed to parse %s: %v", found, err)
	}
	return fx
}

// ByteSlice converts a YAML int list to a []byte, the form memtx.AddTransaction
// and its checks expect.
func ByteSlice(ints []int) []byte {
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	return out
}

// IDSlice converts a YAML int list to a []uint32.
func IDSlice(ints []int) []uint32 {
	out := make([]uint32, len(ints))
	for i, v := range ints {
		out[i] = uint32(v)
	}
	return out
}
