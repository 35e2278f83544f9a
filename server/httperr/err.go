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

package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/zintix-labs/rcglab/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel      → 504/408（請求生命週期問題）
//   - errs.Validation         → 400（請求/參數問題）
//   - errs.EfficiencyTooLow   → 422（參數合法但要求不可行）
//   - errs.SizeTooLarge       → 422
//   - errs.Numerical          → 500（系統算不出來）
//   - 其餘依 ErrLevel：Warn → 400、Fatal → 500
//
// 注意：本函數屬於 HTTP 邊界層，因此放在 server/*（而不是 core errs）。
// 這樣可以避免讓核心錯誤包依賴 net/http 等傳輸層細節。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout // 504
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout // 408
	}

	var e *errs.E
	if errors.As(err, &e) {
		switch e.Kind {
		case errs.Validation:
			return http.StatusBadRequest // 400
		case errs.EfficiencyTooLow, errs.SizeTooLarge:
			return http.StatusUnprocessableEntity // 422
		case errs.Numerical:
			return http.StatusInternalServerError // 500
		}
		switch e.ErrLv {
		case errs.Warn:
			return http.StatusBadRequest // 400
		case errs.Fatal:
			return http.StatusInternalServerError // 500
		}
	}
	return http.StatusInternalServerError
}

// Errs 把錯誤以對應的 status code 寫回（最小可預期行為）。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	http.Error(w, err.Error(), StatusCode(err))
}
