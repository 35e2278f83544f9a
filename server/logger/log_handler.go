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

// Package logger 組裝 server 與批次模擬使用的 slog logger。
//
// 核心套件（sdk/*、dist、sampler）一律不落 log；logger 只存在於
// 組裝層（server / sim），以 *slog.Logger 注入。
//
// 兩種注入方式：
//
// (A) 直接用 NewDefault(LogMode) 取得 *slog.Logger（最常用）。
//
// (B) 自行組裝 slog.Handler（JSON/Text/ReplaceAttr/LevelVar...），
//
//	再用 New(h) 包成 *slog.Logger，與外部 handler 無縫整合。
package logger

import (
	"log/slog"
	"os"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

// NewDefault 依 LogMode 預設組裝 *slog.Logger。
//   - ModeDev：Text handler、Debug 等級，給本機開發看。
//   - ModeProd：JSON handler、Info 等級，給收集器吃。
//   - ModeSilence：全部丟棄（測試用）。
func NewDefault(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// New 將呼叫端自行組裝的 Handler 包成 *slog.Logger。
// h 為 nil 時退回 ModeDev 預設。
func New(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev)
	}
	return slog.New(h)
}

func buildHandler(mode LogMode) slog.Handler {
	switch mode {
	case ModeProd:
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.DiscardHandler
	default:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
