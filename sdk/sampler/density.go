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

// Package sampler 提供有界連續分布的拒絕抽樣策略。
//
// 三種策略共用同一個能力合約 Sampler {Sample(size, seed) -> Batch}，
// 並且只透過 Density 介面接觸目標分布——抽樣器不知道 RCG 的存在，
// 任何提供 PDF/DPDF/Domain 的密度都可以接上來。
//
// 策略對照：
//   - Rejection：基本包絡拒絕抽樣。只需要密度的最大值 M，
//     效率 = 1/M；密度尖峰越高效率越低。不保證回傳滿額樣本。
//   - TDR：transformed density rejection。對 log 密度建切線外殼，
//     包絡貼近目標，效率接近 1；要求密度 log-concave。
//   - SRU：simple ratio-of-uniforms。以眾數為中心的包圍框拒絕，
//     對低效率參數組是 Rejection 的備援。
package sampler

import (
	"github.com/zintix-labs/rcglab/sdk/core"
)

// Density 是抽樣器對目標分布的唯一要求。
//
// 合約：
//   - PDF 在 Domain 外回傳 0；在 Domain 內非負且有限。
//   - DPDF 為 PDF 的一階導數（TDR 用來取 log 密度切線斜率）。
//   - Domain 回傳有界閉區間 [lo, hi]，lo < hi。
type Density interface {
	PDF(x float64) float64
	DPDF(x float64) float64
	Domain() (lo, hi float64)
}

// Batch 是一批抽樣結果，依產生順序排列。
//
// 合約：長度 <= 要求的 size（Rejection 可能截短，呼叫端須檢查長度）。
type Batch []float64

// Sampler 是抽樣策略共同的能力集。
type Sampler interface {
	// Sample 以指定 seed 抽 size 個樣本。相同 seed 必產生相同輸出。
	Sample(size int, seed int64) (Batch, error)
	// SampleWithRNG 以呼叫端持有的 PRNG 抽樣（進階用法，
	// 例如多批抽樣共用同一條亂數流）。
	SampleWithRNG(size int, rng core.PRNG) (Batch, error)
}
