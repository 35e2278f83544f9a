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

// 本檔案 (sru.go) 實作 simple ratio-of-uniforms (SRU) 抽樣。
//
// 演算法原理：
//   - 若 (u, v) 在區域 A = {(u, v) : 0 < u <= sqrt(pdf(mu + v/u))}
//     上均勻分布，則 x = mu + v/u 服從 pdf。
//   - 取 mu 為眾數，A 被矩形 [0, u⁺] × [v⁻, v⁺] 包住：
//     u⁺ = sqrt(max pdf)，v⁻/v⁺ 為 (x-mu)·sqrt(pdf(x)) 的極小/極大值。
//   - 在矩形上均勻撒點、落在 A 內才接受，即為拒絕抽樣。
//
// 特性：
//   - 只需要 pdf 與三次有界純量最佳化，不需要 log-concavity。
//   - 對單峰有界密度是 Rejection 效率過低時的備援策略。
//   - 回傳「剛好」size 個樣本；拒絕迴圈有迭代上限。
package sampler

import (
	"math"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/sdk/core"
	"github.com/zintix-labs/rcglab/sdk/numeric"
)

const sruMaxRejects = 10000 // 每個樣本允許的拒絕次數上限

// SRU 是以眾數為中心的 ratio-of-uniforms 抽樣器。
type SRU struct {
	dens       Density
	lo, hi     float64
	mode       float64
	umax       float64
	vmin, vmax float64
}

// NewSRU 建立 SRU 抽樣器，定義域取自密度本身。
func NewSRU(dens Density) (*SRU, error) {
	lo, hi := dens.Domain()
	return NewSRUDomain(dens, lo, hi)
}

// NewSRUDomain 與 NewSRU 相同，但允許呼叫端指定子定義域。
//
// 建構流程（三次有界 Brent 搜尋）：
//  1. 眾數 mode 與 u⁺ = sqrt(pdf(mode))。
//  2. v(x) = (x - mode)·sqrt(pdf(x))；v⁻ 在 (lo, mode) 取極小、
//     v⁺ 在 (mode, hi) 取極大（單峰密度下 v 的極值各落在眾數一側）。
func NewSRUDomain(dens Density, lo, hi float64) (*SRU, error) {
	if !(lo < hi) {
		return nil, errs.Kindf(errs.Validation, "sru: invalid domain [%v, %v]", lo, hi)
	}

	mode, fmax, err := numeric.MaximizeBounded(dens.PDF, lo, hi)
	if err != nil {
		return nil, errs.Wrap(err, "sru: locate mode")
	}
	if fmax <= 0 {
		return nil, errs.Kindf(errs.Numerical, "sru: max pdf is %v", fmax)
	}

	v := func(x float64) float64 {
		return (x - mode) * math.Sqrt(dens.PDF(x))
	}

	vmin := 0.0
	if mode-lo > 1e-12 {
		_, fv, err := numeric.MinimizeBounded(v, lo, mode)
		if err != nil {
			return nil, errs.Wrap(err, "sru: lower v bound")
		}
		vmin = math.Min(fv, 0)
	}
	vmax := 0.0
	if hi-mode > 1e-12 {
		_, fv, err := numeric.MaximizeBounded(v, mode, hi)
		if err != nil {
			return nil, errs.Wrap(err, "sru: upper v bound")
		}
		vmax = math.Max(fv, 0)
	}
	if vmin == 0 && vmax == 0 {
		return nil, errs.Kindf(errs.Numerical, "sru: degenerate bounding box")
	}

	return &SRU{
		dens: dens,
		lo:   lo, hi: hi,
		mode: mode,
		umax: math.Sqrt(fmax),
		vmin: vmin, vmax: vmax,
	}, nil
}

// Sample 以指定 seed 抽 size 個樣本。
func (s *SRU) Sample(size int, seed int64) (Batch, error) {
	return s.SampleWithRNG(size, core.NewPCG64WithSeed(seed))
}

// SampleWithRNG 抽出剛好 size 個樣本。
func (s *SRU) SampleWithRNG(size int, rng core.PRNG) (Batch, error) {
	if size < 1 {
		return nil, errs.Kindf(errs.Validation, "sru: size must be >= 1, got %d", size)
	}

	out := make(Batch, 0, size)
	for len(out) < size {
		x, ok := s.drawOne(rng)
		if !ok {
			return out, errs.Kindf(errs.Numerical,
				"sru: rejection loop exceeded %d iterations per sample", sruMaxRejects)
		}
		out = append(out, x)
	}
	return out, nil
}

// drawOne 在包圍框上撒點直到落入接受區域。
func (s *SRU) drawOne(rng core.PRNG) (float64, bool) {
	for i := 0; i < sruMaxRejects; i++ {
		u := s.umax * rng.Float64()
		if u == 0 {
			continue
		}
		v := s.vmin + (s.vmax-s.vmin)*rng.Float64()
		x := s.mode + v/u
		if x <= s.lo || x >= s.hi {
			continue
		}
		if u*u <= s.dens.PDF(x) {
			return x, true
		}
	}
	return 0, false
}
