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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/rcglab/server/logger"
)

const (
	// DefaultMaxSampleSize 是單一請求允許的最大樣本數。
	// 防止一個 HTTP 請求就把 server 拉去做百萬級抽樣。
	DefaultMaxSampleSize = 100_000
)

// SvrCfg 是 simulate 服務的組裝設定。
type SvrCfg struct {
	// Addr 監聽位址；空字串使用 netsvr 預設 port。
	Addr string
	// Log 注入的 logger；nil 時使用 ModeDev 預設。
	Log *slog.Logger
	// MaxSampleSize 單一請求樣本數上限；<= 0 時取預設值。
	MaxSampleSize int
}

// Valid 補上預設值並驗證設定。
func (sc *SvrCfg) Valid() error {
	if sc.Log == nil {
		sc.Log = logger.NewDefault(logger.ModeDev)
	}
	if sc.MaxSampleSize <= 0 {
		sc.MaxSampleSize = DefaultMaxSampleSize
	}
	return nil
}
