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

// Package rcglab 提供 RCG（Ratio of Correlated Gammas）beta value
// 模擬的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 它把三個地基組合起來：
//  1. dist.RCG：密度模型（閉式 PDF、數值導數、正規化檢查）。
//  2. sdk/sampler：三種抽樣策略（Rejection / TDR / SRU），
//     各自滿足相同的 Sampler 能力集。
//  3. sdk/core：可重現的亂數核心（明確 seed，不依賴全域狀態）。
//
// 策略選擇與備援：
//   - 未指定策略時，alpha > 1 優先走 TDR（近最佳效率）；
//     否則嘗試自製 Rejection，效率低於 1% 再降級 SRU。
//   - 主策略「抽樣途中」出任何錯，記錄後只重試一次：
//     改用 M 強制放大到 1000 的 Rejection（犧牲效率換穩健），
//     這是唯一保證可走通的備援路徑；備援再失敗即為致命錯誤。
//     建構期錯誤（參數驗證、包絡估計失敗）則直接回報，不走備援。
//
// 可重現性：seed 未指定時以加密隨機來源產生；相同 seed 與參數
// 必定產生相同的輸出序列。
package rcglab

import (
	"errors"
	"log/slog"
	"math"

	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/sdk/core"
	"github.com/zintix-labs/rcglab/sdk/dist"
	"github.com/zintix-labs/rcglab/sdk/sampler"
)

// fallbackEnvelopeScale 是備援路徑強制使用的包絡尺度。
// 夠大就壓得住任何通過正規化檢查的 RCG 密度，代價是效率 1/1000。
const fallbackEnvelopeScale = 1000

// Strategy 列舉可用的抽樣策略。
type Strategy uint8

const (
	// StrategyAuto 依分布形狀自動選擇。
	StrategyAuto Strategy = iota
	// StrategyRejection 使用自製包絡拒絕抽樣器。
	StrategyRejection
	// StrategyTDR 使用 transformed-density-rejection 抽樣器。
	StrategyTDR
	// StrategySRU 使用 simple ratio-of-uniforms 抽樣器。
	StrategySRU
)

var strategyNames = map[Strategy]string{
	StrategyAuto:      "auto",
	StrategyRejection: "custom-rejection",
	StrategyTDR:       "tdr",
	StrategySRU:       "sru",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseStrategy 解析策略名稱；空字串視為 auto，"rej" 是
// "custom-rejection" 的簡寫。
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "auto":
		return StrategyAuto, nil
	case "custom-rejection", "rej":
		return StrategyRejection, nil
	case "tdr":
		return StrategyTDR, nil
	case "sru":
		return StrategySRU, nil
	}
	return StrategyAuto, errs.Kindf(errs.Validation, "unknown strategy %q", name)
}

// Options 是 Simulate 的參數組。
//
// 請從 DefaultOptions() 出發再覆寫需要的欄位：零值 Options 的
// Alpha/Scale 不是合法參數。
//
// 欄位說明：
//   - Dist：已建好的 RCG 模型；為 nil 時由 Theta/Alpha/Rho/Scale 建構。
//   - Theta：未甲基化與甲基化探針強度的期望比 E_U/E_M；
//     Dist 為 nil 時必填且必須 > 0。
//   - Seed：nil 時以加密隨機來源產生（並非不可重現——
//     產生後整段模擬仍使用單一 seed）。
//   - Log：選填；nil 時靜默。
type Options struct {
	Dist     *dist.RCG
	Theta    float64
	Alpha    float64
	Rho      float64
	Scale    float64
	Seed     *int64
	Strategy Strategy
	Log      *slog.Logger
}

// DefaultOptions 回傳預設參數：alpha=2.0、rho=0.45（Weinhold L, 2016
// 發現的平均相關度）、scale=1.0。
func DefaultOptions() Options {
	return Options{Alpha: 2.0, Rho: 0.45, Scale: 1.0}
}

// Simulate 模擬 size 個 DNA 甲基化 beta value。
//
// Dist 未給時以 theta 建構分布，rate 取
// lambda_m = scale·max(theta, 1)、lambda_u = scale/min(theta, 1)——
// 同時保住比值與絕對尺度、並使兩個 rate 都不低於 scale。
// 此公式是對外合約的一部分，不做等價改寫。
//
// 回傳的 Batch 長度 <= size：接受樣本不足屬於軟性截短（記錄
// Warn、不回錯誤），呼叫端應檢查長度並視需要重抽。
func Simulate(size int, opt Options) (sampler.Batch, error) {
	log := opt.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	d := opt.Dist
	if d == nil {
		if opt.Theta == 0 {
			return nil, errs.NewKind(errs.Validation, "either Dist or Theta must be specified")
		}
		if opt.Theta <= 0 {
			return nil, errs.Kindf(errs.Validation, "theta must be positive, got %v", opt.Theta)
		}
		var err error
		d, err = dist.New(
			opt.Alpha,
			opt.Scale*math.Max(opt.Theta, 1),
			opt.Scale/math.Min(opt.Theta, 1),
			opt.Rho,
		)
		if err != nil {
			return nil, err
		}
	}

	seed := int64(0)
	if opt.Seed != nil {
		seed = *opt.Seed
	} else {
		seed = core.CryptoSeed()
		log.Debug("no seed supplied, generated one", "seed", seed)
	}

	// 建構期錯誤（參數驗證、包絡估計失敗）直接回報，不走備援
	s, err := buildSampler(d, opt.Strategy)
	if err != nil {
		return nil, err
	}
	return sampleWithFallback(d, s, size, seed, log)
}

// sampleWithFallback 執行主策略抽樣；抽樣途中（非建構期）失敗時
// 以 M 強制放大的拒絕抽樣重試一次，備援再失敗即為致命錯誤。
func sampleWithFallback(d *dist.RCG, s sampler.Sampler, size int, seed int64, log *slog.Logger) (sampler.Batch, error) {
	batch, err := s.Sample(size, seed)
	if err != nil && !errors.Is(err, sampler.ErrShortSample) {
		// 唯一的備援：強制放大 M 的拒絕抽樣，只重試一次
		log.Warn("sampling failed, retrying with widened envelope", "err", err)
		rej, ferr := sampler.NewRejectionWithScale(d, fallbackEnvelopeScale)
		if ferr != nil {
			return nil, errs.Wrap(ferr, "fallback sampler construction failed")
		}
		batch, err = rej.Sample(size, seed)
		if err != nil && !errors.Is(err, sampler.ErrShortSample) {
			return nil, errs.Wrap(err, "fallback sampling failed")
		}
	}

	if errors.Is(err, sampler.ErrShortSample) {
		// 軟性截短：只警示，不失敗（呼叫端檢查長度）
		log.Warn("short sample batch", "requested", size, "accepted", len(batch))
	}
	return batch, nil
}

// buildSampler 依策略建立抽樣器；StrategyAuto 依分布形狀選擇。
func buildSampler(d *dist.RCG, st Strategy) (sampler.Sampler, error) {
	switch st {
	case StrategyRejection:
		return sampler.NewRejection(d)
	case StrategyTDR:
		return sampler.NewTDR(d)
	case StrategySRU:
		return sampler.NewSRU(d)
	case StrategyAuto:
		if d.Params().Alpha > 1 {
			return sampler.NewTDR(d)
		}
		rej, err := sampler.NewRejection(d)
		if err != nil {
			if errs.IsKind(err, errs.EfficiencyTooLow) {
				return sampler.NewSRU(d)
			}
			return nil, err
		}
		return rej, nil
	}
	return nil, errs.Kindf(errs.Validation, "unknown strategy %d", st)
}
