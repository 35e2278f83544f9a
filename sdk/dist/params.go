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

package dist

import (
	"github.com/zintix-labs/rcglab/errs"
)

// Params 是 RCG 分布的參數組。
//
// beta value ~ RCG(alpha, lambda_m, lambda_u, rho)
//
// 欄位說明：
//   - Alpha：形狀參數，必須 > 1。
//   - LambdaM：第一個 gamma 分布（甲基化探針強度 M）的 rate。
//   - LambdaU：第二個 gamma 分布（未甲基化探針強度 U）的 rate。
//   - Rho：兩個 gamma 變數間的相關係數，必須落在 [0, 1]。
//
// Params 建構後不可變。注意 Rho = 1 雖然通過範圍檢查，但密度在
// 內部會出現奇異點，New 的正規化自我檢查會將其拒絕。
type Params struct {
	Alpha   float64
	LambdaM float64
	LambdaU float64
	Rho     float64
}

// DefaultRho 是 Rho 未指定時的預設值。
const DefaultRho = 0.5

// Theta 回傳兩個 gamma 期望值的比值 E_U/E_M = lambda_m/lambda_u。
func (p Params) Theta() float64 {
	return p.LambdaM / p.LambdaU
}

// valid 執行最基本的參數檢查。
func (p Params) valid() error {
	if p.Alpha <= 1 {
		return errs.Kindf(errs.Validation, "alpha must be greater than 1, got %v", p.Alpha)
	}
	if p.Rho < 0 || p.Rho > 1 {
		return errs.Kindf(errs.Validation, "rho must be between 0 and 1, got %v", p.Rho)
	}
	if p.LambdaM <= 0 {
		return errs.Kindf(errs.Validation, "lambda_m must be positive, got %v", p.LambdaM)
	}
	if p.LambdaU <= 0 {
		return errs.Kindf(errs.Validation, "lambda_u must be positive, got %v", p.LambdaU)
	}
	return nil
}
