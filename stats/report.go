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

// Package stats 提供抽樣批次的敘述統計與適合度檢定。
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// SampleReport 抽樣批次統計報告。
//
// Short 表示實際樣本數少於要求數（拒絕抽樣的軟性截短），
// 呼叫端看到 Short 應考慮重抽或調整包絡尺度。
type SampleReport struct {
	Name      string  `json:"Name"`
	Requested int     `json:"Requested"`
	N         int     `json:"N"`
	Short     bool    `json:"Short"`
	Mean      float64 `json:"Mean"`
	Std       float64 `json:"Std"`
	MeanCI    CI      `json:"MeanCI"`
	Min       float64 `json:"Min"`
	Max       float64 `json:"Max"`
}

// Describe 彙整一批樣本的敘述統計。
//
// 平均值信賴區間取 95%（常態近似，分位數由 gonum distuv 提供，
// 不寫死 1.96）。空批次回傳全零報告並標記 Short。
func Describe(name string, requested int, samples []float64) *SampleReport {
	r := &SampleReport{
		Name:      name,
		Requested: requested,
		N:         len(samples),
		Short:     len(samples) < requested,
	}
	if len(samples) == 0 {
		return r
	}

	r.Mean = stat.Mean(samples, nil)
	if len(samples) > 1 {
		r.Std = stat.StdDev(samples, nil)
	}

	r.Min = samples[0]
	r.Max = samples[0]
	for _, v := range samples[1:] {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}

	if len(samples) > 1 {
		z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
		se := r.Std / math.Sqrt(float64(r.N))
		r.MeanCI = CI{Lo: r.Mean - z*se, Hi: r.Mean + z*se}
	} else {
		r.MeanCI = CI{Lo: r.Mean, Hi: r.Mean}
	}
	return r
}

// StdOut 以表格輸出報告。
func (r *SampleReport) StdOut() {
	sk, sm := r.fmtBasic()
	fmt.Println(fmtTable(r.Name, sk, sm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (r *SampleReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Requested": p.Sprintf("%d", r.Requested),
		"Accepted":  p.Sprintf("%d", r.N),
		"Short":     p.Sprintf("%t", r.Short),
		"Mean":      p.Sprintf("%.5f", r.Mean),
		"Mean 95% CI": p.Sprintf("[%.5f,%.5f]",
			r.MeanCI.Lo, r.MeanCI.Hi),
		"STD": p.Sprintf("%.5f", r.Std),
		"Min": p.Sprintf("%.5f", r.Min),
		"Max": p.Sprintf("%.5f", r.Max),
	}
	keys := []string{"Requested", "Accepted", "Short", "Mean", "Mean 95% CI", "STD", "Min", "Max"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
