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

// 本檔案 (hyp2f1.go) 實作 Gauss 超幾何函數 ₂F₁(a,b;c;x) 的級數求值。
//
// 演算法原理：
//   - 定義級數 ₂F₁ = Σ_n (a)_n (b)_n / (c)_n · xⁿ / n!，逐項遞推累加。
//   - 收斂範圍：|x| < 1；x 越接近 1 收斂越慢，因此設有迭代上限。
//   - x = 1 時改用 Gauss 定理：₂F₁(a,b;c;1) = Γ(c)Γ(c−a−b)/(Γ(c−a)Γ(c−b))，
//     要求 c − a − b > 0。
//
// 適用場景：
//   - RCG 的 E[theta] 閉式常數 C = Γ(α+1)Γ(α−1)/Γ(α)² · ₂F₁(1,1;α;ρ)，
//     其中 ρ ∈ [0,1]，落在本實作支援的範圍內。
package numeric

import (
	"math"

	"github.com/zintix-labs/rcglab/errs"
)

const (
	hypMaxTerms = 200000
	hypRelTol   = 1e-13
)

// Hyp2F1 求 Gauss 超幾何函數 ₂F₁(a, b; c; x)，定義域限制 0 <= x <= 1。
//
// 合約：
//   - c 不可為非正整數（級數分母會出現零）。
//   - x == 1 時要求 c − a − b > 0（Gauss 定理的收斂條件）。
//   - 級數在迭代上限內未收斂時回報 Numerical 錯誤。
func Hyp2F1(a, b, c, x float64) (float64, error) {
	if x < 0 || x > 1 {
		return 0, errs.Kindf(errs.Validation, "hyp2f1: x=%v out of supported range [0,1]", x)
	}
	if c <= 0 && c == math.Trunc(c) {
		return 0, errs.Kindf(errs.Validation, "hyp2f1: c=%v is a non-positive integer", c)
	}

	if x == 1 {
		s := c - a - b
		if s <= 0 {
			return 0, errs.Kindf(errs.Numerical, "hyp2f1: series diverges at x=1 (c-a-b=%v <= 0)", s)
		}
		// Gauss 定理，以 log-gamma 計算避免溢位
		lg := func(v float64) (float64, float64) {
			l, sign := math.Lgamma(v)
			return l, float64(sign)
		}
		lc, sc := lg(c)
		ls, ss := lg(s)
		lca, sca := lg(c - a)
		lcb, scb := lg(c - b)
		sign := sc * ss * sca * scb
		return sign * math.Exp(lc+ls-lca-lcb), nil
	}

	sum := 1.0
	term := 1.0
	for n := 0; n < hypMaxTerms; n++ {
		fn := float64(n)
		term *= (a + fn) * (b + fn) / ((c + fn) * (1 + fn)) * x
		sum += term
		if math.Abs(term) <= hypRelTol*math.Abs(sum) {
			return sum, nil
		}
		if !isFinite(sum) {
			return 0, errs.Kindf(errs.Numerical, "hyp2f1: series overflow at term %d", n)
		}
	}
	return 0, errs.Kindf(errs.Numerical, "hyp2f1: series did not converge within %d terms (x=%v)", hypMaxTerms, x)
}
