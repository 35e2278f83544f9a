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

// 本檔案 (ks.go) 實作單樣本 Kolmogorov-Smirnov 適合度檢定。
//
// gonum 的 stat.KolmogorovSmirnov 是雙樣本統計量；抽樣器驗證需要的
// 是「樣本 vs 理論 CDF」的單樣本版本與對應 p-value，因此在此補齊：
//   - 統計量 D = sup |F_emp - F|，對排序後樣本逐點取上下偏差。
//   - p-value 採漸近 Kolmogorov 分布，搭配 Stephens 的小樣本修正
//     lambda = (sqrt(n) + 0.12 + 0.11/sqrt(n))·D。
package stats

import (
	"math"
	"sort"
)

// KolmogorovSmirnov 對樣本與理論 CDF 做單樣本 KS 檢定，
// 回傳統計量 D 與（漸近）p-value。
//
// 注意：p-value 是統計性質，不是精確保證。用於測試時應固定
// seed 並以 p > 0.05 為通過門檻。
func KolmogorovSmirnov(samples []float64, cdf func(float64) float64) (d, p float64) {
	n := len(samples)
	if n == 0 {
		return 0, 1
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	fn := float64(n)
	for i, x := range sorted {
		f := cdf(x)
		upper := float64(i+1)/fn - f
		lower := f - float64(i)/fn
		d = math.Max(d, math.Max(upper, lower))
	}

	sqrtN := math.Sqrt(fn)
	lambda := (sqrtN + 0.12 + 0.11/sqrtN) * d
	return d, kolmogorovQ(lambda)
}

// kolmogorovQ 求 Kolmogorov 分布的尾機率
// Q(λ) = 2 Σ_{k>=1} (-1)^{k-1} exp(-2 k² λ²)。
func kolmogorovQ(lambda float64) float64 {
	if lambda < 1e-8 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*float64(k)*float64(k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	q := 2 * sum
	return math.Min(1, math.Max(0, q))
}
