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

// 本檔案 (rejection.go) 實作基本包絡拒絕抽樣 (envelope rejection)。
//
// 演算法原理：
//   - 包絡取常數 M >= max(pdf)：候選點 u1 ~ Uniform(domain)，
//     門檻 u2 ~ Uniform(0,1)，接受條件 u2 <= pdf(u1)/M。
//   - 接受率期望值 = 1/M（定義域為單位區間時），記為 efficiency。
//   - M 以有界 Brent 搜尋（對 -pdf 求最小）在開區間內估計，
//     避開邊界奇異點。
//
// 特性：
//   - 不需要 CDF、反函數或 log-concavity，只要能算 pdf。
//   - 候選批次大小依 1/efficiency 放大再乘固定 oversample 倍數，
//     仍不保證滿額——回傳長度可能小於要求（軟性截短，非錯誤）。
package sampler

import (
	"fmt"
	"math"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/sdk/core"
	"github.com/zintix-labs/rcglab/sdk/numeric"
)

const (
	// minEfficiency 為可行效率門檻：接受率低於 1% 視為不可行，
	// 建構直接失敗，要求呼叫端明確覆寫 M。
	minEfficiency = 0.01

	// oversampleScale 為候選批次的固定放大倍數，降低抽不滿的機率。
	oversampleScale = 10
)

// ErrShortSample 表示接受的樣本數少於要求（非致命警示）。
//
// 呼叫端應檢查回傳 Batch 的長度；不足時可重抽、加大 size、
// 或改用 WithEnvelopeScale 調整 M。
var ErrShortSample = errs.NewWarn(
	"not enough accepted samples; check batch length and re-request, or adjust the envelope scale M")

// Rejection 是針對無閉式反 CDF 密度的包絡拒絕抽樣器。
//
// 狀態機：建構時估好包絡 M 之後即為 Ready，可重複呼叫 Sample；
// WithEnvelopeScale 回傳「重建」的新實例而不是就地改動。
type Rejection struct {
	dens       Density
	lo, hi     float64
	m          float64 // 包絡尺度，soft invariant: m >= max(pdf)
	efficiency float64 // = 1/m
}

// NewRejection 建立拒絕抽樣器，定義域取自密度本身。
//
// 建構流程：
//  1. 以有界 Brent 搜尋在開區間 (lo, hi) 內估計 M = max(pdf)。
//  2. efficiency = 1/M；低於 1% 回報 EfficiencyTooLow——
//     此時呼叫端必須改用 NewRejectionWithScale 明確給 M 才能繼續。
func NewRejection(dens Density) (*Rejection, error) {
	lo, hi := dens.Domain()
	return NewRejectionDomain(dens, lo, hi)
}

// NewRejectionDomain 與 NewRejection 相同，但允許呼叫端指定子定義域。
func NewRejectionDomain(dens Density, lo, hi float64) (*Rejection, error) {
	_, m, err := numeric.MaximizeBounded(dens.PDF, lo, hi)
	if err != nil {
		return nil, errs.Wrap(err, "rejection sampler: estimate envelope scale")
	}
	if m <= 0 {
		return nil, errs.Kindf(errs.Numerical, "rejection sampler: estimated max pdf is %v", m)
	}

	s := &Rejection{dens: dens, lo: lo, hi: hi, m: m, efficiency: 1 / m}
	if s.efficiency < minEfficiency {
		return nil, errs.Kindf(errs.EfficiencyTooLow,
			"estimated efficiency %.5f is below %.2f; supply an explicit envelope scale M to proceed",
			s.efficiency, minEfficiency)
	}
	return s, nil
}

// NewRejectionWithScale 以呼叫端明確給定的包絡尺度 M 建構，
// 跳過估計與效率門檻——這是效率過低或估計失敗後的指定恢復路徑。
func NewRejectionWithScale(dens Density, m float64) (*Rejection, error) {
	if m <= 0 {
		return nil, errs.Kindf(errs.Validation, "rejection sampler: envelope scale M must be positive, got %v", m)
	}
	lo, hi := dens.Domain()
	return &Rejection{dens: dens, lo: lo, hi: hi, m: m, efficiency: 1 / m}, nil
}

// WithEnvelopeScale 回傳一個以新 M 重建的抽樣器（efficiency 一併重算）。
//
// M 是可覆寫的：預設估計失敗或抽不滿時，呼叫端可用更大的 M
// 換取穩健性（效率隨之下降）。
func (s *Rejection) WithEnvelopeScale(m float64) (*Rejection, error) {
	if m <= 0 {
		return nil, errs.Kindf(errs.Validation, "rejection sampler: envelope scale M must be positive, got %v", m)
	}
	return &Rejection{dens: s.dens, lo: s.lo, hi: s.hi, m: m, efficiency: 1 / m}, nil
}

// EnvelopeScale 回傳目前的包絡尺度 M。
func (s *Rejection) EnvelopeScale() float64 { return s.m }

// Efficiency 回傳預期接受率 1/M。
func (s *Rejection) Efficiency() float64 { return s.efficiency }

// Sample 以指定 seed 抽 size 個樣本。
func (s *Rejection) Sample(size int, seed int64) (Batch, error) {
	return s.SampleWithRNG(size, core.NewPCG64WithSeed(seed))
}

// SampleWithRNG 執行拒絕抽樣。
//
// 候選批次大小 = int(size·M)·oversampleScale。
//
// 失敗情境：
//   - size < 1：Validation。
//   - 候選批次大小超過 float32 或 int 可表示上限：SizeTooLarge
//     （防止病態參數組造成巨量配置或整數溢位）。
//   - 接受數不足 size：「不是錯誤」——回傳較短的 Batch 與
//     ErrShortSample 警示，由呼叫端決定是否重抽。
func (s *Rejection) SampleWithRNG(size int, rng core.PRNG) (Batch, error) {
	if size < 1 {
		return nil, errs.Kindf(errs.Validation, "rejection sampler: size must be >= 1, got %d", size)
	}

	// 上限取 float32 可表示範圍與 int 範圍的交集，
	// 避免後續的 int 轉換溢位
	scaled := float64(size) * s.m * oversampleScale
	if scaled >= math.MaxFloat32 || scaled >= float64(math.MaxInt) {
		return nil, errs.Kindf(errs.SizeTooLarge,
			"rejection sampler: candidate batch of %.3g exceeds the safe ceiling (size=%d, M=%v)",
			scaled, size, s.m)
	}
	candidates := int(float64(size)*s.m) * oversampleScale

	out := make(Batch, 0, size)
	width := s.hi - s.lo
	for i := 0; i < candidates && len(out) < size; i++ {
		u1 := s.lo + width*rng.Float64()
		u2 := rng.Float64()
		if u2 <= s.dens.PDF(u1)/s.m {
			out = append(out, u1)
		}
	}

	if len(out) < size {
		return out, errs.Wrap(ErrShortSample,
			fmt.Sprintf("accepted %d of %d requested", len(out), size))
	}
	return out, nil
}
