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

package rcglab

import (
	"io"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/scenario"
	"github.com/zintix-labs/rcglab/stats"
)

// Simulator 依情境設定檔批次執行模擬，逐情境產出統計報告。
type Simulator struct {
	set *scenario.Set
	log *slog.Logger
}

// NewSimulator 建立批次模擬器。set 必填；log 為 nil 時靜默。
func NewSimulator(set *scenario.Set, log *slog.Logger) (*Simulator, error) {
	if set == nil || len(set.Scenarios) == 0 {
		return nil, errs.NewFatal("simulator: scenario set is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Simulator{set: set, log: log}, nil
}

// Run 依序執行所有情境並回傳各自的統計報告與總用時。
//
// showpb 控制是否顯示進度條（批次腳本建議開、測試請關）。
// 任一情境失敗即中止並回傳錯誤（情境設定在載入時已驗證過，
// 跑到一半才失敗代表數值問題，不該默默跳過）。
func (s *Simulator) Run(showpb bool) ([]*stats.SampleReport, time.Duration, error) {
	total := 0
	for _, sc := range s.set.Scenarios {
		total += sc.Size
	}

	bar := pb.StartNew(total)
	if !showpb {
		bar.SetWriter(io.Discard)
	}

	reports := make([]*stats.SampleReport, 0, len(s.set.Scenarios))
	for _, sc := range s.set.Scenarios {
		opt, err := s.options(sc)
		if err != nil {
			return nil, 0, err
		}
		batch, err := Simulate(sc.Size, opt)
		if err != nil {
			return nil, 0, errs.Wrap(err, "scenario "+sc.Name)
		}
		bar.Add(sc.Size)

		rep := stats.Describe(sc.Name, sc.Size, batch)
		if rep.Short {
			s.log.Warn("scenario returned a short batch",
				"scenario", sc.Name, "requested", sc.Size, "accepted", rep.N)
		}
		reports = append(reports, rep)
	}

	used := time.Since(bar.StartTime())
	bar.Finish()
	s.log.Info("simulation finished", "scenarios", len(reports), "used", used)
	return reports, used, nil
}

// options 把一筆情境設定轉成 Simulate 參數。
func (s *Simulator) options(sc scenario.Scenario) (Options, error) {
	st, err := ParseStrategy(sc.Strategy)
	if err != nil {
		return Options{}, err
	}
	opt := DefaultOptions()
	opt.Theta = sc.Theta
	opt.Alpha = sc.Alpha
	if sc.Rho != nil {
		opt.Rho = *sc.Rho
	}
	if sc.Scale != 0 {
		opt.Scale = sc.Scale
	}
	opt.Seed = sc.Seed
	opt.Strategy = st
	opt.Log = s.log
	return opt, nil
}
