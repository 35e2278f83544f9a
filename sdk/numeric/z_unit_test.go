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

package numeric

import (
	"math"
	"testing"

	"github.com/zintix-labs/rcglab/errs"
)

// assertClose 驗證兩個浮點值在容差內相等
func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("[%s] expected %v, got %v (tol %v)", name, want, got, tol)
	}
}

// -----------------------------------------------------------------------------
// Tests for MinimizeBounded / MaximizeBounded
// -----------------------------------------------------------------------------

func TestMinimizeBoundedQuadratic(t *testing.T) {
	x, fx, err := MinimizeBounded(func(x float64) float64 { return (x - 0.3) * (x - 0.3) }, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "xmin", x, 0.3, 1e-6)
	assertClose(t, "fmin", fx, 0, 1e-10)
}

func TestMinimizeBoundedOffCenter(t *testing.T) {
	// 最小值貼近邊界，逼黃金分割多走幾步
	x, _, err := MinimizeBounded(func(x float64) float64 { return math.Abs(x - 0.999) }, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "xmin", x, 0.999, 1e-4)
}

func TestMaximizeBoundedSine(t *testing.T) {
	x, fx, err := MaximizeBounded(math.Sin, 0, math.Pi)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "xmax", x, math.Pi/2, 1e-6)
	assertClose(t, "fmax", fx, 1, 1e-10)
}

func TestMinimizeBoundedInvalidInterval(t *testing.T) {
	if _, _, err := MinimizeBounded(math.Sin, 1, 1); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation error, got %v", err)
	}
	if _, _, err := MinimizeBounded(math.Sin, 0, math.Inf(1)); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation error for infinite bound, got %v", err)
	}
}

func TestMinimizeBoundedNonFinite(t *testing.T) {
	f := func(x float64) float64 { return math.Log(x - 0.5) } // NaN for x < 0.5
	if _, _, err := MinimizeBounded(f, 0, 1); !errs.IsKind(err, errs.Numerical) {
		t.Fatalf("expected Numerical error, got %v", err)
	}
}

// -----------------------------------------------------------------------------
// Tests for Hyp2F1
// -----------------------------------------------------------------------------

// TestHyp2F1KnownValues 以閉式已知值驗證級數求和
// 檢查項目: 2F1(1,1;2;x) = -ln(1-x)/x
func TestHyp2F1KnownValues(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 0.9} {
		got, err := Hyp2F1(1, 1, 2, x)
		if err != nil {
			t.Fatal(err)
		}
		want := -math.Log(1-x) / x
		assertClose(t, "2F1(1,1;2;x)", got, want, 1e-10)
	}
}

func TestHyp2F1AtZero(t *testing.T) {
	got, err := Hyp2F1(1, 1, 2.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "2F1 at x=0", got, 1, 0)
}

// TestHyp2F1GaussTheorem 驗證 x=1 的 Gauss 定理分支
// 檢查項目: 2F1(1,1;3;1) = Gamma(3)Gamma(1)/(Gamma(2)Gamma(2)) = 2
func TestHyp2F1GaussTheorem(t *testing.T) {
	got, err := Hyp2F1(1, 1, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "2F1(1,1;3;1)", got, 2, 1e-12)
}

func TestHyp2F1Divergent(t *testing.T) {
	// c - a - b = 0，級數在 x=1 發散
	if _, err := Hyp2F1(1, 1, 2, 1); !errs.IsKind(err, errs.Numerical) {
		t.Fatalf("expected Numerical error, got %v", err)
	}
}

func TestHyp2F1Validation(t *testing.T) {
	if _, err := Hyp2F1(1, 1, 2, -0.5); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for x < 0, got %v", err)
	}
	if _, err := Hyp2F1(1, 1, 2, 1.5); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for x > 1, got %v", err)
	}
	if _, err := Hyp2F1(1, 1, -2, 0.5); !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected Validation for non-positive integer c, got %v", err)
	}
}
