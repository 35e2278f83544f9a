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

package rcglab

import (
	"log/slog"
	"testing"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/scenario"
	"github.com/zintix-labs/rcglab/sdk/core"
	"github.com/zintix-labs/rcglab/sdk/dist"
	"github.com/zintix-labs/rcglab/sdk/sampler"
	"github.com/zintix-labs/rcglab/stats"
)

// simOpts 組出固定 seed 的模擬參數
func simOpts(theta float64, seed int64, st Strategy) Options {
	opt := DefaultOptions()
	opt.Theta = theta
	opt.Seed = &seed
	opt.Strategy = st
	return opt
}

// checkUnitRange 驗證 beta value 全部落在 [0,1]
func checkUnitRange(t *testing.T, batch []float64) {
	t.Helper()
	for i, v := range batch {
		if v < 0 || v > 1 {
			t.Fatalf("sample %d out of [0,1]: %v", i, v)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want Strategy
	}{
		{"", StrategyAuto},
		{"auto", StrategyAuto},
		{"custom-rejection", StrategyRejection},
		{"rej", StrategyRejection},
		{"tdr", StrategyTDR},
		{"sru", StrategySRU},
	}
	for _, c := range cases {
		got, err := ParseStrategy(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseStrategy(%q) = %v, %v", c.in, got, err)
		}
	}

	if _, err := ParseStrategy("magic"); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for unknown strategy, got %v", err)
	}
	if StrategyTDR.String() != "tdr" || Strategy(99).String() != "unknown" {
		t.Fatalf("String() mismatch")
	}
}

func TestSimulateValidation(t *testing.T) {
	opt := DefaultOptions()
	if _, err := Simulate(100, opt); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation when theta is missing, got %v", err)
	}

	opt.Theta = -1
	if _, err := Simulate(100, opt); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for negative theta, got %v", err)
	}

	opt.Theta = 4
	opt.Alpha = 0.5
	if _, err := Simulate(100, opt); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for alpha <= 1, got %v", err)
	}

	opt = simOpts(4, 1, Strategy(99))
	if _, err := Simulate(100, opt); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for unknown strategy, got %v", err)
	}
}

func TestSimulateDeterminism(t *testing.T) {
	opt := simOpts(4, 42, StrategyTDR)
	a, err := Simulate(500, opt)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Simulate(500, opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 500 || len(b) != 500 {
		t.Fatalf("unexpected batch lengths: %d %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("equal seeds diverged at %d", i)
		}
	}
}

// TestSimulateStrategies 驗證每種策略都能產出滿額且落在值域內的批次
func TestSimulateStrategies(t *testing.T) {
	for _, st := range []Strategy{StrategyAuto, StrategyRejection, StrategyTDR, StrategySRU} {
		batch, err := Simulate(1000, simOpts(0.25, 7, st))
		if err != nil {
			t.Fatalf("[%s] %v", st, err)
		}
		if len(batch) != 1000 {
			t.Fatalf("[%s] expected 1000 samples, got %d", st, len(batch))
		}
		checkUnitRange(t, batch)
	}
}

// TestSimulateThetaContract 驗證 theta 轉 rate 的對外合約：
// lambda_m = scale·max(theta,1)、lambda_u = scale/min(theta,1)。
// 模擬輸出應與依該公式直接建構的分布同分布。
func TestSimulateThetaContract(t *testing.T) {
	// theta = 0.25, scale = 1 -> lambda_m = 1, lambda_u = 4
	want, err := dist.New(2.0, 1, 4, 0.45)
	if err != nil {
		t.Fatal(err)
	}

	batch, err := Simulate(3000, simOpts(0.25, 42, StrategyTDR))
	if err != nil {
		t.Fatal(err)
	}
	d, p := stats.KolmogorovSmirnov(batch, want.CDF)
	if p < 0.01 {
		t.Fatalf("KS rejected the theta contract distribution: D=%v p=%v", d, p)
	}
}

// TestSimulateWithDist 驗證已建好的模型直接注入時不再走 theta 建構
func TestSimulateWithDist(t *testing.T) {
	d, err := dist.New(3, 2, 1, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	seed := int64(5)
	opt := Options{Dist: d, Seed: &seed, Strategy: StrategySRU}
	batch, err := Simulate(800, opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 800 {
		t.Fatalf("expected 800 samples, got %d", len(batch))
	}
	checkUnitRange(t, batch)
}

// failSampler 的抽樣階段永遠失敗，用來驅動備援路徑。
type failSampler struct{}

func (failSampler) Sample(size int, seed int64) (sampler.Batch, error) {
	return nil, errs.NewKind(errs.Numerical, "generation diverged")
}

func (failSampler) SampleWithRNG(size int, rng core.PRNG) (sampler.Batch, error) {
	return nil, errs.NewKind(errs.Numerical, "generation diverged")
}

// TestFallbackRecoversSamplingFailure 驗證主策略抽樣途中失敗時，
// 備援（M=1000 的拒絕抽樣）能補上滿額且落在值域內的批次。
func TestFallbackRecoversSamplingFailure(t *testing.T) {
	d, err := dist.New(2, 1, 4, 0.45)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.DiscardHandler)

	batch, err := sampleWithFallback(d, failSampler{}, 500, 42, log)
	if err != nil {
		t.Fatalf("fallback should recover a sampling failure, got %v", err)
	}
	if len(batch) != 500 {
		t.Fatalf("expected 500 samples from the fallback, got %d", len(batch))
	}
	checkUnitRange(t, batch)
}

// TestFallbackFailureIsFatal 驗證備援自身再失敗時只回錯誤、不再重試。
func TestFallbackFailureIsFatal(t *testing.T) {
	d, err := dist.New(2, 1, 4, 0.45)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.DiscardHandler)

	// size=0 讓備援的拒絕抽樣也失敗（Validation）
	if _, err := sampleWithFallback(d, failSampler{}, 0, 42, log); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected the fallback failure to surface, got %v", err)
	}
}

// -----------------------------------------------------------------------------
// Tests for Simulator
// -----------------------------------------------------------------------------

func TestSimulatorRun(t *testing.T) {
	set, err := scenario.Parse([]byte(`
scenarios:
  - {name: hyper, size: 300, theta: 4.0, seed: 1}
  - {name: hypo, size: 200, theta: 0.25, seed: 2, strategy: sru}
`))
	if err != nil {
		t.Fatal(err)
	}

	sim, err := NewSimulator(set, nil)
	if err != nil {
		t.Fatal(err)
	}
	reports, used, err := sim.Run(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Name != "hyper" || reports[0].N != 300 || reports[0].Short {
		t.Fatalf("unexpected first report: %+v", reports[0])
	}
	if reports[1].Name != "hypo" || reports[1].N != 200 {
		t.Fatalf("unexpected second report: %+v", reports[1])
	}
	if used <= 0 {
		t.Fatalf("expected positive duration, got %v", used)
	}
}

func TestSimulatorValidation(t *testing.T) {
	if _, err := NewSimulator(nil, nil); err == nil {
		t.Fatalf("expected error for nil scenario set")
	}
	if _, err := NewSimulator(&scenario.Set{}, nil); err == nil {
		t.Fatalf("expected error for empty scenario set")
	}
}
