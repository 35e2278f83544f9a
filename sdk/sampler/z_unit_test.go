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

package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/stats"
)

// -----------------------------------------------------------------------------
// Test densities
// -----------------------------------------------------------------------------

// quadDens 是 Beta(2,2)：pdf = 6x(1-x)，log-concave、對稱、
// CDF 有閉式 x²(3-2x)，適合驗證三種策略的分布正確性。
type quadDens struct{}

func (quadDens) PDF(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return 6 * x * (1 - x)
}
func (quadDens) DPDF(x float64) float64   { return 6 - 12*x }
func (quadDens) Domain() (lo, hi float64) { return 0, 1 }
func quadCDF(x float64) float64           { return x * x * (3 - 2*x) }

// steepDens 是 Beta(151,1)：pdf = 151·x^150，最大值 151，
// 拒絕抽樣效率 1/151 < 1%，用於觸發 EfficiencyTooLow。
type steepDens struct{}

func (steepDens) PDF(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return 151 * math.Pow(x, 150)
}
func (steepDens) DPDF(x float64) float64 { return 151 * 150 * math.Pow(x, 149) }
func (steepDens) Domain() (lo, hi float64) { return 0, 1 }

// sliverDens 的機率質量全部集中在 (0, 0.001)：
// 以 M=1 的包絡抽樣時接受率約 0.1%，必然抽不滿。
type sliverDens struct{}

func (sliverDens) PDF(x float64) float64 {
	if x <= 0 || x >= 0.001 {
		return 0
	}
	return 1000
}
func (sliverDens) DPDF(x float64) float64 { return 0 }
func (sliverDens) Domain() (lo, hi float64) { return 0, 1 }

// bimodalDens 是兩座分離高斯峰的混合——不是 log-concave，
// TDR 的切線外殼蓋不住第二座峰。
type bimodalDens struct{}

func (bimodalDens) gauss(x, mu float64) float64 {
	d := x - mu
	return math.Exp(-d * d / (2 * 0.05 * 0.05))
}
func (b bimodalDens) PDF(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return b.gauss(x, 0.25) + b.gauss(x, 0.75)
}
func (b bimodalDens) DPDF(x float64) float64 {
	s2 := 0.05 * 0.05
	return -(x-0.25)/s2*b.gauss(x, 0.25) - (x-0.75)/s2*b.gauss(x, 0.75)
}
func (bimodalDens) Domain() (lo, hi float64) { return 0, 1 }

// checkInUnit 驗證樣本全部落在 (0,1)
func checkInUnit(t *testing.T, name string, batch Batch) {
	t.Helper()
	for i, v := range batch {
		if v <= 0 || v >= 1 {
			t.Fatalf("[%s] sample %d out of (0,1): %v", name, i, v)
		}
	}
}

// checkFit 以單樣本 KS 檢定驗證樣本服從目標分布。
// seed 固定，門檻取 0.01 保留檢定力同時避免臨界 p 值
func checkFit(t *testing.T, name string, batch Batch, cdf func(float64) float64) {
	t.Helper()
	d, p := stats.KolmogorovSmirnov(batch, cdf)
	if p < 0.01 {
		t.Fatalf("[%s] KS rejected the target distribution: D=%v p=%v", name, d, p)
	}
}

// -----------------------------------------------------------------------------
// Tests for Rejection
// -----------------------------------------------------------------------------

func TestRejectionBasic(t *testing.T) {
	s, err := NewRejection(quadDens{})
	if err != nil {
		t.Fatal(err)
	}

	// Beta(2,2) 的最大密度是 1.5
	if math.Abs(s.EnvelopeScale()-1.5) > 1e-6 {
		t.Fatalf("expected envelope scale ~1.5, got %v", s.EnvelopeScale())
	}
	if math.Abs(s.Efficiency()-1.0/1.5) > 1e-6 {
		t.Fatalf("unexpected efficiency: %v", s.Efficiency())
	}

	batch, err := s.Sample(3000, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 3000 {
		t.Fatalf("expected full batch, got %d", len(batch))
	}
	checkInUnit(t, "rejection", batch)
	checkFit(t, "rejection", batch, quadCDF)
}

func TestRejectionDeterminism(t *testing.T) {
	s, err := NewRejection(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.Sample(500, 7)
	b, _ := s.Sample(500, 7)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence diverged at %d", i)
		}
	}
}

func TestRejectionEfficiencyTooLow(t *testing.T) {
	_, err := NewRejection(steepDens{})
	if !errs.IsKind(err, errs.EfficiencyTooLow) {
		t.Fatalf("expected EfficiencyTooLow, got %v", err)
	}

	// 指定恢復路徑：明確給 M 之後可以建構並抽樣
	s, err := NewRejectionWithScale(steepDens{}, 200)
	if err != nil {
		t.Fatal(err)
	}
	batch, err := s.Sample(200, 3)
	if err != nil && !errors.Is(err, ErrShortSample) {
		t.Fatal(err)
	}
	checkInUnit(t, "rejection-forced", batch)
}

func TestRejectionWithEnvelopeScale(t *testing.T) {
	s, err := NewRejection(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	s2, err := s.WithEnvelopeScale(10)
	if err != nil {
		t.Fatal(err)
	}
	if s2 == s || s2.EnvelopeScale() != 10 || s2.Efficiency() != 0.1 {
		t.Fatalf("expected rebuilt sampler with M=10, got %+v", s2)
	}
	if s.EnvelopeScale() != 1.5 && math.Abs(s.EnvelopeScale()-1.5) > 1e-6 {
		t.Fatalf("original sampler mutated: M=%v", s.EnvelopeScale())
	}

	if _, err := s.WithEnvelopeScale(0); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for M=0, got %v", err)
	}
	if _, err := NewRejectionWithScale(quadDens{}, -1); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for M=-1, got %v", err)
	}
}

func TestRejectionShortSample(t *testing.T) {
	s, err := NewRejectionWithScale(sliverDens{}, 1)
	if err != nil {
		t.Fatal(err)
	}

	batch, err := s.Sample(1000, 11)
	if !errors.Is(err, ErrShortSample) {
		t.Fatalf("expected ErrShortSample, got %v", err)
	}
	if len(batch) >= 1000 {
		t.Fatalf("expected a short batch, got %d", len(batch))
	}
	// 警示不是致命錯誤
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
		t.Fatalf("short sample must be a Warn, got %v", err)
	}
}

func TestRejectionSizeTooLarge(t *testing.T) {
	s, err := NewRejectionWithScale(quadDens{}, 1e37)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sample(100, 1); !errs.IsKind(err, errs.SizeTooLarge) {
		t.Fatalf("expected SizeTooLarge, got %v", err)
	}
}

// TestRejectionIntCeiling 驗證候選批次數落在 int 上限與 float32 上限
// 之間時同樣回報 SizeTooLarge，而不是整數溢位後靜默回空批次。
func TestRejectionIntCeiling(t *testing.T) {
	s, err := NewRejectionWithScale(quadDens{}, 1e16)
	if err != nil {
		t.Fatal(err)
	}
	// 1000 · 1e16 · 10 = 1e20：小於 MaxFloat32、大於 MaxInt
	if _, err := s.Sample(1000, 1); !errs.IsKind(err, errs.SizeTooLarge) {
		t.Fatalf("expected SizeTooLarge, got %v", err)
	}
}

func TestRejectionSizeValidation(t *testing.T) {
	s, err := NewRejection(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sample(0, 1); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for size 0, got %v", err)
	}
}

// -----------------------------------------------------------------------------
// Tests for TDR
// -----------------------------------------------------------------------------

func TestTDRBasic(t *testing.T) {
	s, err := NewTDR(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	batch, err := s.Sample(3000, 42)
	if err != nil {
		t.Fatal(err)
	}
	// TDR 保證滿額
	if len(batch) != 3000 {
		t.Fatalf("expected exactly 3000 samples, got %d", len(batch))
	}
	checkInUnit(t, "tdr", batch)
	checkFit(t, "tdr", batch, quadCDF)
}

func TestTDRDeterminism(t *testing.T) {
	s, err := NewTDR(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.Sample(500, 7)
	b, _ := s.Sample(500, 7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence diverged at %d", i)
		}
	}
}

// TestTDRRejectsNonLogConcave 驗證非 log-concave 密度在建構期被攔下
func TestTDRRejectsNonLogConcave(t *testing.T) {
	if _, err := NewTDR(bimodalDens{}); !errs.IsKind(err, errs.Numerical) {
		t.Fatalf("expected Numerical error for bimodal density, got %v", err)
	}
}

func TestTDRValidation(t *testing.T) {
	if _, err := NewTDRDomain(quadDens{}, 1, 0); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for inverted domain, got %v", err)
	}
	s, err := NewTDR(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sample(0, 1); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for size 0, got %v", err)
	}
}

// -----------------------------------------------------------------------------
// Tests for SRU
// -----------------------------------------------------------------------------

func TestSRUBasic(t *testing.T) {
	s, err := NewSRU(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	batch, err := s.Sample(3000, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 3000 {
		t.Fatalf("expected exactly 3000 samples, got %d", len(batch))
	}
	checkInUnit(t, "sru", batch)
	checkFit(t, "sru", batch, quadCDF)
}

// TestSRUHandlesSteepDensity 驗證 SRU 作為低效率參數組的備援路徑
func TestSRUHandlesSteepDensity(t *testing.T) {
	s, err := NewSRU(steepDens{})
	if err != nil {
		t.Fatal(err)
	}
	batch, err := s.Sample(1000, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 1000 {
		t.Fatalf("expected exactly 1000 samples, got %d", len(batch))
	}
	checkInUnit(t, "sru-steep", batch)
	// Beta(151,1) 的 CDF 是 x^151
	checkFit(t, "sru-steep", batch, func(x float64) float64 { return math.Pow(x, 151) })
}

func TestSRUValidation(t *testing.T) {
	if _, err := NewSRUDomain(quadDens{}, 0.5, 0.5); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for empty domain, got %v", err)
	}
	s, err := NewSRU(quadDens{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sample(-1, 1); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for negative size, got %v", err)
	}
}
