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

// Package dist 提供 Ratio of Correlated Gammas (RCG) 分布模型。
//
// RCG 描述兩個相關 gamma 變數的比值 M/(M+U)，用於模擬 DNA 甲基化
// beta value（值域 [0,1]）。密度有閉式（見 Weinhold L, et al. 2016），
// 但 CDF 與反函數沒有——因此抽樣交由 sdk/sampler 的拒絕抽樣策略。
//
// 數值設計：
//   - PDF 以 log 空間計算（math.Lgamma），大 alpha 下不會溢位。
//   - 導數沒有閉式，採中央差分（gonum diff/fd）；邊界 x ∈ {0,1}
//     因 (x(1-x))^(alpha-1) 因子的奇異性，依慣例定義為 0。
//   - 期望值與 CDF 以 Gauss-Legendre 積分（gonum integrate/quad）。
//   - 建構時做正規化自我檢查 ∫₀¹ pdf = 1（容差 1e-5），
//     及早攔截參數或公式錯誤。
package dist

import (
	"math"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/sdk/numeric"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/integrate/quad"
)

const (
	// quadNodes 為 Gauss-Legendre 節點數。alpha 稍大於 1 時密度在
	// 邊界導數發散，需要足夠節點才能壓到 1e-5 以下的正規化容差。
	quadNodes = 400

	// normTol 為正規化自我檢查的絕對容差。
	normTol = 1e-5
)

// RCG 是 Ratio of Correlated Gammas 分布模型。
//
// 建立一次、重複使用；建構後除快取的參數外無任何狀態，
// 多個 goroutine 可同時呼叫 PDF/DPDF/CDF/Expect。
type RCG struct {
	p Params

	// logNorm 快取與 x 無關的 log 正規化項：
	// lgamma(2a) - 2 lgamma(a) + a·log(λm·λu) + a·log(1-ρ)
	logNorm float64
}

// New 建立 RCG 模型。
//
// 失敗情境（皆為 Validation 分類）：
//   - alpha <= 1、rho 超出 [0,1]、rate 非正值。
//   - 正規化自我檢查不通過（∫₀¹ pdf 與 1 的差超過 1e-5），
//     這會攔截像 rho = 1 這種公式退化的參數組。
func New(alpha, lambdaM, lambdaU, rho float64) (*RCG, error) {
	return NewFromParams(Params{Alpha: alpha, LambdaM: lambdaM, LambdaU: lambdaU, Rho: rho})
}

// NewFromParams 與 New 相同，接受已組好的 Params。
func NewFromParams(p Params) (*RCG, error) {
	if err := p.valid(); err != nil {
		return nil, err
	}

	lg2a, _ := math.Lgamma(2 * p.Alpha)
	lga, _ := math.Lgamma(p.Alpha)
	m := &RCG{
		p:       p,
		logNorm: lg2a - 2*lga + p.Alpha*(math.Log(p.LambdaM)+math.Log(p.LambdaU)) + p.Alpha*math.Log1p(-p.Rho),
	}

	if err := m.checkPDF(); err != nil {
		return nil, err
	}
	return m, nil
}

// Params 回傳模型參數（值拷貝，外部無法改動內部狀態）。
func (m *RCG) Params() Params { return m.p }

// Domain 回傳分布的定義域 [0, 1]。
func (m *RCG) Domain() (lo, hi float64) { return 0, 1 }

// PDF 求機率密度函數值。
//
// 定義域外與邊界（x = 0、x = 1）回傳 0：alpha > 1 時
// (x(1-x))^(alpha-1) 因子在邊界收斂到 0。
func (m *RCG) PDF(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}

	oneMinus := 1 - x
	s := m.p.LambdaM*x + m.p.LambdaU*oneMinus
	d := s*s - 4*m.p.Rho*m.p.LambdaM*m.p.LambdaU*x*oneMinus
	if d <= 0 {
		// 只會發生在 rho = 1 的內部奇異點
		return math.Inf(1)
	}

	logDens := m.logNorm +
		(m.p.Alpha-1)*math.Log(x*oneMinus) +
		math.Log(s) -
		(m.p.Alpha+0.5)*math.Log(d)
	return math.Exp(logDens)
}

// DPDF 求密度函數的一階導數。
//
// 邊界 x ∈ {0, 1} 依慣例回傳 0（(x(1-x))^(alpha-1) 的導數在邊界
// 不適定）；其餘位置採中央差分數值微分。
func (m *RCG) DPDF(x float64) float64 {
	if x == 0 || x == 1 {
		return 0
	}
	return fd.Derivative(m.PDF, x, &fd.Settings{Formula: fd.Central})
}

// CDF 求累積分布函數值（數值積分，無閉式）。
func (m *RCG) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return quad.Fixed(m.PDF, 0, x, quadNodes, quad.Legendre{}, 0)
}

// Expect 求 E[fn(X)]，即 ∫ fn(x)·pdf(x) dx over [lb, ub]。
//
// fn 為 nil 時等同取恆等函數，即一階動差 E[X]。
func (m *RCG) Expect(fn func(float64) float64, lb, ub float64) float64 {
	integrand := func(x float64) float64 {
		if fn == nil {
			return x * m.PDF(x)
		}
		return fn(x) * m.PDF(x)
	}
	return quad.Fixed(integrand, lb, ub, quadNodes, quad.Legendre{}, 0)
}

// ExpectTheta 求 E[theta] = theta · C 的閉式值，
// C = Γ(α+1)Γ(α−1)/Γ(α)² · ₂F₁(1,1;α;ρ)。
//
// 見 Berger M, Wagner M & Schmid M, 2019。
// ₂F₁ 級數不收斂時回報 Numerical 錯誤（例如 alpha <= 2 且 rho = 1）。
func (m *RCG) ExpectTheta() (float64, error) {
	h, err := numeric.Hyp2F1(1, 1, m.p.Alpha, m.p.Rho)
	if err != nil {
		return 0, errs.Wrap(err, "expect theta")
	}
	lgp1, _ := math.Lgamma(m.p.Alpha + 1)
	lgm1, _ := math.Lgamma(m.p.Alpha - 1)
	lga, _ := math.Lgamma(m.p.Alpha)
	c := math.Exp(lgp1+lgm1-2*lga) * h
	return m.p.Theta() * c, nil
}

// ExpectMarginals 回傳兩個邊際 gamma 分布的期望值，
// X_* ~ Gamma(alpha, lambda_*)。
func (m *RCG) ExpectMarginals() (expM, expU float64) {
	return m.p.Alpha / m.p.LambdaM, m.p.Alpha / m.p.LambdaU
}

// ExpectBMarginal 回傳 beta 邊際的期望值 E[X_m] / (E[X_m] + E[X_u])。
func (m *RCG) ExpectBMarginal() float64 {
	em, eu := m.ExpectMarginals()
	return em / (em + eu)
}

// checkPDF 驗證密度在定義域上的積分是否為 1。
func (m *RCG) checkPDF() error {
	integral := quad.Fixed(m.PDF, 0, 1, quadNodes, quad.Legendre{}, 0)
	if math.IsNaN(integral) || math.Abs(integral-1) > normTol {
		return errs.Kindf(errs.Validation,
			"pdf normalization check failed: integral=%v (alpha=%v lambda_m=%v lambda_u=%v rho=%v)",
			integral, m.p.Alpha, m.p.LambdaM, m.p.LambdaU, m.p.Rho)
	}
	return nil
}
