// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scenario

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/rcglab/errs"
)

const validYAML = `
scenarios:
  - name: hyper
    size: 1000
    theta: 4.0
    seed: 42
  - name: hypo
    size: 500
    theta: 0.25
    alpha: 3.5
    rho: 0.0
    scale: 2.0
    strategy: sru
`

func TestParseFillsDefaults(t *testing.T) {
	set, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(set.Scenarios))
	}

	hyper := set.Scenarios[0]
	if hyper.Alpha != DefaultAlpha || *hyper.Rho != DefaultRho || hyper.Scale != DefaultScale {
		t.Fatalf("defaults not applied: %+v", hyper)
	}
	if hyper.Seed == nil || *hyper.Seed != 42 {
		t.Fatalf("seed not parsed: %+v", hyper.Seed)
	}
	if hyper.Strategy != "" {
		t.Fatalf("expected empty strategy (auto), got %q", hyper.Strategy)
	}

	hypo := set.Scenarios[1]
	if hypo.Alpha != 3.5 || *hypo.Rho != 0 || hypo.Scale != 2 || hypo.Strategy != "sru" {
		t.Fatalf("explicit values overridden: %+v", hypo)
	}
}

// TestParseZeroRho 驗證「明確指定 rho: 0」不會被預設值蓋掉
func TestParseZeroRho(t *testing.T) {
	set, err := Parse([]byte("scenarios:\n  - {name: a, size: 10, theta: 1, rho: 0}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if *set.Scenarios[0].Rho != 0 {
		t.Fatalf("explicit rho 0 replaced by default: %v", *set.Scenarios[0].Rho)
	}
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty set", "scenarios: []\n"},
		{"missing name", "scenarios:\n  - {size: 10, theta: 1}\n"},
		{"bad size", "scenarios:\n  - {name: a, size: 0, theta: 1}\n"},
		{"bad theta", "scenarios:\n  - {name: a, size: 10, theta: -2}\n"},
		{"bad alpha", "scenarios:\n  - {name: a, size: 10, theta: 1, alpha: 1.0}\n"},
		{"bad rho", "scenarios:\n  - {name: a, size: 10, theta: 1, rho: 1.5}\n"},
		{"bad scale", "scenarios:\n  - {name: a, size: 10, theta: 1, scale: -1}\n"},
		{"bad strategy", "scenarios:\n  - {name: a, size: 10, theta: 1, strategy: magic}\n"},
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c.yaml)); err == nil {
			t.Errorf("[%s] expected error, got nil", c.name)
		}
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("scenarios: [\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid yaml") {
		t.Fatalf("expected yaml error, got %v", err)
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"configs/set.yaml": {Data: []byte(validYAML)},
	}
	set, err := Load(fsys, "configs/set.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(set.Scenarios))
	}

	if _, err := Load(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	} else if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Fatal {
		t.Fatalf("expected wrapped Fatal, got %v", err)
	}
}
