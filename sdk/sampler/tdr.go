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

// 本檔案 (tdr.go) 實作 transformed density rejection (TDR)。
//
// 演算法原理：
//   - 對 log-concave 密度取 h = log(pdf)，h 是凹函數。
//   - 在一組設計點上取 h 的切線；切線的下包絡（取逐段最小）
//     必定位於 h 之上，exp(切線外殼) 即為 pdf 的包絡。
//   - 外殼逐段是指數函數，可閉式積分、閉式反轉——
//     先依面積比例選段，段內以反 CDF 抽出候選點，再做拒絕檢查。
//
// 特性：
//   - 建殼時間：O(k)，k 為設計點數。
//   - 外殼貼近目標密度，接受率接近 1（近最佳效率）。
//   - 回傳「剛好」size 個樣本（與 Rejection 的軟性截短不同）。
//
// 適用場景：
//   - log-concave 的單變量密度（RCG 在 alpha > 1 時）。
//   - 建構時會在網格上驗證外殼確實壓住密度；驗證不過（密度
//     非 log-concave）回報 Numerical 錯誤，由上層策略降級。
package sampler

import (
	"math"
	"sort"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/sdk/core"
)

const (
	tdrDesignPoints = 31
	tdrVerifyGrid   = 256
	tdrMaxRejects   = 1000 // 每個樣本允許的拒絕次數上限
	tdrSlopeFlat    = 1e-12
)

// tdrSeg 是外殼的一段：以設計點 (x, h) 與斜率 dh 定義的切線，
// 有效範圍 [zl, zr]，area 為 exp(切線) 在該範圍的積分。
type tdrSeg struct {
	x, h, dh float64
	zl, zr   float64
	area     float64
}

// TDR 是 transformed-density-rejection 抽樣器。
//
// 建構後不可變，可重複呼叫 Sample；多個 goroutine 只要各自持有
// PRNG 即可併用同一個 TDR。
type TDR struct {
	dens   Density
	lo, hi float64
	segs   []tdrSeg
	cum    []float64 // 各段面積的前綴和
	total  float64
}

// NewTDR 建立 TDR 抽樣器，定義域取自密度本身。
//
// 失敗情境（皆為 Numerical 分類，代表此密度不適用 TDR）：
//   - 可用設計點不足（密度幾乎處處為 0 或導數不可算）。
//   - 切線交點次序錯亂、或外殼驗證失敗（密度非 log-concave）。
func NewTDR(dens Density) (*TDR, error) {
	lo, hi := dens.Domain()
	return NewTDRDomain(dens, lo, hi)
}

// NewTDRDomain 與 NewTDR 相同，但允許呼叫端指定子定義域。
func NewTDRDomain(dens Density, lo, hi float64) (*TDR, error) {
	if !(lo < hi) {
		return nil, errs.Kindf(errs.Validation, "tdr: invalid domain [%v, %v]", lo, hi)
	}

	t := &TDR{dens: dens, lo: lo, hi: hi}
	if err := t.buildHull(); err != nil {
		return nil, err
	}
	if err := t.verifyHull(); err != nil {
		return nil, err
	}
	return t, nil
}

// Sample 以指定 seed 抽 size 個樣本。
func (t *TDR) Sample(size int, seed int64) (Batch, error) {
	return t.SampleWithRNG(size, core.NewPCG64WithSeed(seed))
}

// SampleWithRNG 抽出剛好 size 個樣本。
func (t *TDR) SampleWithRNG(size int, rng core.PRNG) (Batch, error) {
	if size < 1 {
		return nil, errs.Kindf(errs.Validation, "tdr: size must be >= 1, got %d", size)
	}

	out := make(Batch, 0, size)
	for len(out) < size {
		x, ok := t.drawOne(rng)
		if !ok {
			return out, errs.Kindf(errs.Numerical,
				"tdr: rejection loop exceeded %d iterations per sample", tdrMaxRejects)
		}
		out = append(out, x)
	}
	return out, nil
}

// drawOne 從外殼抽一個候選點並做拒絕檢查，直到接受或達到上限。
func (t *TDR) drawOne(rng core.PRNG) (float64, bool) {
	for i := 0; i < tdrMaxRejects; i++ {
		// 1) 依面積比例選段
		r := rng.Float64() * t.total
		j := sort.SearchFloat64s(t.cum, r)
		if j >= len(t.segs) {
			j = len(t.segs) - 1
		}
		seg := &t.segs[j]

		// 2) 段內以截斷指數的反 CDF 抽候選點
		u := rng.Float64()
		var x float64
		if math.Abs(seg.dh) < tdrSlopeFlat {
			x = seg.zl + u*(seg.zr-seg.zl)
		} else {
			a := math.Exp(seg.dh * (seg.zl - seg.x))
			b := math.Exp(seg.dh * (seg.zr - seg.x))
			x = seg.x + math.Log(a+u*(b-a))/seg.dh
		}

		// 3) 拒絕檢查：u2·hull(x) <= pdf(x)
		hull := math.Exp(seg.h + seg.dh*(x-seg.x))
		if rng.Float64()*hull <= t.dens.PDF(x) {
			return x, true
		}
	}
	return 0, false
}

// buildHull 在設計點上取 log 密度切線，組出逐段指數外殼。
func (t *TDR) buildHull() error {
	width := t.hi - t.lo

	// 設計點與各自的 (h, dh)，略過密度為 0 或數值不可用的位置
	pts := make([]tdrSeg, 0, tdrDesignPoints)
	for i := 1; i <= tdrDesignPoints; i++ {
		x := t.lo + width*float64(i)/float64(tdrDesignPoints+1)
		f := t.dens.PDF(x)
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		dh := t.dens.DPDF(x) / f
		if math.IsInf(dh, 0) || math.IsNaN(dh) {
			continue
		}
		pts = append(pts, tdrSeg{x: x, h: math.Log(f), dh: dh})
	}
	if len(pts) < 2 {
		return errs.Kindf(errs.Numerical, "tdr: only %d usable design points on [%v, %v]", len(pts), t.lo, t.hi)
	}

	// log-concave 時斜率沿 x 遞減；把數值噪音造成的逆序點剔掉
	kept := pts[:1]
	for _, p := range pts[1:] {
		if p.dh < kept[len(kept)-1].dh {
			kept = append(kept, p)
		}
	}
	if len(kept) < 2 {
		return errs.Kindf(errs.Numerical, "tdr: tangent slopes are not decreasing (density not log-concave?)")
	}

	// 相鄰切線交點切出每段的有效範圍
	for i := range kept {
		if i == 0 {
			kept[i].zl = t.lo
		}
		if i == len(kept)-1 {
			kept[i].zr = t.hi
			continue
		}
		a, b := &kept[i], &kept[i+1]
		var z float64
		if math.Abs(a.dh-b.dh) < tdrSlopeFlat {
			z = 0.5 * (a.x + b.x)
		} else {
			z = (b.h - a.h - b.x*b.dh + a.x*a.dh) / (a.dh - b.dh)
		}
		if z < a.x || z > b.x {
			return errs.Kindf(errs.Numerical,
				"tdr: tangent intersection %v outside [%v, %v] (density not log-concave?)", z, a.x, b.x)
		}
		a.zr = z
		b.zl = z
	}

	// 各段面積（exp 切線的閉式積分）
	total := 0.0
	cum := make([]float64, len(kept))
	for i := range kept {
		s := &kept[i]
		if math.Abs(s.dh) < tdrSlopeFlat {
			s.area = math.Exp(s.h) * (s.zr - s.zl)
		} else {
			s.area = (math.Exp(s.h+s.dh*(s.zr-s.x)) - math.Exp(s.h+s.dh*(s.zl-s.x))) / s.dh
		}
		if s.area < 0 || math.IsNaN(s.area) || math.IsInf(s.area, 0) {
			return errs.Kindf(errs.Numerical, "tdr: segment %d has invalid area %v", i, s.area)
		}
		total += s.area
		cum[i] = total
	}
	if total <= 0 {
		return errs.Kindf(errs.Numerical, "tdr: hull has zero total area")
	}

	t.segs = kept
	t.cum = cum
	t.total = total
	return nil
}

// verifyHull 在均勻網格上確認外殼壓住密度。
// 網格上任何一點 pdf > hull 都代表 log-concavity 假設不成立。
func (t *TDR) verifyHull() error {
	width := t.hi - t.lo
	for i := 1; i < tdrVerifyGrid; i++ {
		x := t.lo + width*float64(i)/float64(tdrVerifyGrid)
		f := t.dens.PDF(x)
		if f <= 0 {
			continue
		}
		if f > t.hullAt(x)*(1+1e-8) {
			return errs.Kindf(errs.Numerical,
				"tdr: hull does not dominate the density at x=%v (density not log-concave)", x)
		}
	}
	return nil
}

// hullAt 求外殼在 x 的值。
func (t *TDR) hullAt(x float64) float64 {
	j := sort.Search(len(t.segs), func(i int) bool { return t.segs[i].zr >= x })
	if j >= len(t.segs) {
		j = len(t.segs) - 1
	}
	s := &t.segs[j]
	return math.Exp(s.h + s.dh*(x-s.x))
}
