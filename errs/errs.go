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

// Package errs 提供 rcglab 統一的錯誤型別。
//
// 除了嚴重度分級（ErrLevel），本包另外定義錯誤分類（Kind），
// 對應數值模擬常見的四種失敗情境：
//   - Validation：建構參數不合法（alpha<=1、rho 超界、theta<=0...）。
//   - EfficiencyTooLow：拒絕抽樣效率低於可行門檻（< 1%）。
//   - SizeTooLarge：候選批次大小超過安全上限。
//   - Numerical：積分/微分/最佳化不收斂。
//
// 分級（ErrLevel）與分類（Kind）是兩個正交的維度：
// 分級讓最上層（server/sim）決定要中止還是提示；
// 分類讓呼叫端用 errors.As + Kind 判斷「哪一種失敗」來走對應的恢復路徑。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Kind : 錯誤分類，對應可預期的失敗情境。
type Kind uint8

const (
	Unknown Kind = iota
	// Validation 建構參數不合法（fail fast、不重試）。
	Validation
	// EfficiencyTooLow 拒絕抽樣效率低於 1%，需要呼叫端明確覆寫 M。
	EfficiencyTooLow
	// SizeTooLarge 候選批次大小超過安全數值上限。
	SizeTooLarge
	// Numerical 數值程序（積分/微分/最佳化/級數）不收斂。
	Numerical
)

var kindMap = map[Kind]string{
	Unknown:          "unknown",
	Validation:       "validation",
	EfficiencyTooLow: "efficiency_too_low",
	SizeTooLarge:     "size_too_large",
	Numerical:        "numerical",
}

func KindName(k Kind) string {
	if str, ok := kindMap[k]; ok {
		return str
	}
	return "unknown"
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重度；Kind 表示分類。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Kind    Kind
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s kind=%s %s", ErrLv(e.ErrLv), KindName(e.Kind), e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// New 依嚴重度與訊息建立錯誤（分類為 Unknown）。
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

// NewKind 依分類建立錯誤。
//
// 嚴重度規則：Validation / EfficiencyTooLow / SizeTooLarge 屬於「呼叫端
// 給錯東西或要求不可行的事」，視為 Warn（可修正重來）；
// Numerical 屬於「系統算不出來」，視為 Fatal。
func NewKind(kind Kind, msg string) *E {
	lv := Warn
	if kind == Numerical || kind == Unknown {
		lv = Fatal
	}
	return &E{Message: msg, ErrLv: lv, Kind: kind}
}

// Kindf 與 NewKind 相同，但支援格式化訊息。
func Kindf(kind Kind, format string, a ...any) *E {
	return NewKind(kind, fmt.Sprintf(format, a...))
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Wrap 包裝底層錯誤，建立一個 *E。
//
// 規則：
//   - 若 cause 已經是 *E，沿用其 ErrLv 與 Kind（保持原本嚴重度與分類）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），
//     則 ErrLv 一律視為 Fatal、Kind 視為 Unknown。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	kind := Unknown
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		kind = e.Kind
	}
	r := &E{Message: msg, ErrLv: errLv, Kind: kind}
	r.Cause = cause
	return r
}

// IsKind 回報 err（或其任一層 cause）是否屬於指定分類。
func IsKind(err error, kind Kind) bool {
	var e *E
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}
