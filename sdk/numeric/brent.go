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

// Package numeric 提供 rcglab 需要、而 gonum 未涵蓋的純量數值原語。
//
// 本檔案 (brent.go) 實作了有界純量最小化 (bounded scalar minimization)。
//
// 演算法原理：
//   - Brent 方法：黃金分割 (golden section) 搭配拋物線內插 (parabolic
//     interpolation)，免導數 (derivative-free)。
//   - 收斂速度：平滑函數上超線性，最差情況退化為黃金分割的線性收斂。
//   - 搜尋點永遠落在「開區間」(lo, hi) 內部，不會觸碰邊界——
//     這對在邊界發散或恆為 0 的密度函數（如 RCG 在 x=0,1）是必要的。
//
// 適用場景：
//   - 估計密度函數在定義域上的最大值（對 -pdf 求最小）。
//   - 求 ratio-of-uniforms 的包絡框邊界。
package numeric

import (
	"math"

	"github.com/zintix-labs/rcglab/errs"
)

const (
	golden      = 0.3819660112501051 // (3 - sqrt(5)) / 2
	brentMaxIt  = 500
	brentXAtTol = 1e-8 // 絕對位置容差
)

var sqrtEps = math.Sqrt(2.220446049250313e-16)

// MinimizeBounded 在開區間 (lo, hi) 內尋找 f 的局部最小值。
//
// 回傳最小值位置 xmin 與函數值 fmin。
//
// 合約：
//   - f 在區間內必須是有限值；一旦取樣到 NaN/Inf 即回報 Numerical 錯誤。
//   - 只保證「局部」最小；對單峰函數即為全域最小。
//   - 達到迭代上限仍未滿足容差時回報 Numerical 錯誤（不默默回傳半成品）。
func MinimizeBounded(f func(float64) float64, lo, hi float64) (xmin, fmin float64, err error) {
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 0, errs.Kindf(errs.Validation, "minimize bounded: invalid interval [%v, %v]", lo, hi)
	}

	a, b := lo, hi
	x := a + golden*(b-a)
	w, v := x, x
	fx := f(x)
	if !isFinite(fx) {
		return 0, 0, errs.Kindf(errs.Numerical, "minimize bounded: f(%v) is not finite", x)
	}
	fw, fv := fx, fx

	var d, e float64
	for i := 0; i < brentMaxIt; i++ {
		xm := 0.5 * (a + b)
		tol1 := sqrtEps*math.Abs(x) + brentXAtTol/3
		tol2 := 2 * tol1
		if math.Abs(x-xm) <= tol2-0.5*(b-a) {
			return x, fx, nil
		}

		useGolden := true
		if math.Abs(e) > tol1 {
			// 嘗試以 (x,fx) (w,fw) (v,fv) 做拋物線內插
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etmp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*etmp) && p > q*(a-x) && p < q*(b-x) {
				// 拋物線步可接受
				d = p / q
				u := x + d
				if (u-a) < tol2 || (b-u) < tol2 {
					d = tol1
					if x >= xm {
						d = -tol1
					}
				}
				useGolden = false
			}
		}
		if useGolden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = golden * e
		}

		// 單步移動量不小於 tol1，避免在噪音尺度上打轉
		var u float64
		switch {
		case math.Abs(d) >= tol1:
			u = x + d
		case d > 0:
			u = x + tol1
		default:
			u = x - tol1
		}

		fu := f(u)
		if !isFinite(fu) {
			return 0, 0, errs.Kindf(errs.Numerical, "minimize bounded: f(%v) is not finite", u)
		}

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}

	return 0, 0, errs.Kindf(errs.Numerical, "minimize bounded: no convergence in %d iterations", brentMaxIt)
}

// MaximizeBounded 在開區間 (lo, hi) 內尋找 f 的局部最大值。
//
// 以 MinimizeBounded(-f) 實作，回傳最大值位置與「函數值本身」（非負值）。
func MaximizeBounded(f func(float64) float64, lo, hi float64) (xmax, fmax float64, err error) {
	x, fneg, err := MinimizeBounded(func(t float64) float64 { return -f(t) }, lo, hi)
	if err != nil {
		return 0, 0, err
	}
	return x, -fneg, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
