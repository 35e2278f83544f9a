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

// Package scenario 定義批次模擬的設定檔格式（yaml）。
//
// 設定檔來源一律以 fs.FS 注入（go:embed、os.DirFS 皆可），
// 本包不解析任何「路徑」概念。載入時即做完整驗證，
// 避免到了模擬階段才爆出參數錯誤。
//
// 範例：
//
//	scenarios:
//	  - name: hypermethylated
//	    size: 10000
//	    theta: 0.25
//	    alpha: 2.0
//	    rho: 0.45
//	    seed: 42
//	  - name: balanced-tdr
//	    size: 5000
//	    theta: 1.0
//	    strategy: tdr
package scenario

import (
	"io/fs"

	"github.com/zintix-labs/rcglab/errs"
	"gopkg.in/yaml.v3"
)

// 預設值：alpha/rho/scale 未指定時沿用模擬入口的預設參數。
const (
	DefaultAlpha = 2.0
	DefaultRho   = 0.45
	DefaultScale = 1.0
)

// Scenario 是一筆模擬情境。
//
// Rho 與 Seed 用指標是為了分辨「未指定」與「指定為 0」：
// rho = 0（完全不相關）是合法輸入，不能拿零值當 sentinel。
type Scenario struct {
	Name     string   `yaml:"name"      json:"name"`
	Size     int      `yaml:"size"      json:"size"`
	Theta    float64  `yaml:"theta"     json:"theta"`
	Alpha    float64  `yaml:"alpha"     json:"alpha"`
	Rho      *float64 `yaml:"rho"       json:"rho,omitempty"`
	Scale    float64  `yaml:"scale"     json:"scale"`
	Seed     *int64   `yaml:"seed"      json:"seed,omitempty"`
	Strategy string   `yaml:"strategy"  json:"strategy"`
}

// Set 是一批模擬情境。
type Set struct {
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// Load 從 fsys 讀取並解析情境設定檔，載入時即完成驗證。
func Load(fsys fs.FS, name string) (*Set, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "scenario: read "+name)
	}
	return Parse(data)
}

// Parse 解析 yaml 內容並驗證。
func Parse(data []byte) (*Set, error) {
	set := new(Set)
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, errs.Wrap(err, "scenario: invalid yaml")
	}
	if err := set.init(); err != nil {
		return nil, err
	}
	return set, nil
}

// init 補上預設值並驗證每一筆情境。
func (s *Set) init() error {
	if len(s.Scenarios) == 0 {
		return errs.NewFatal("scenario: empty scenarios")
	}
	for i := range s.Scenarios {
		sc := &s.Scenarios[i]
		if sc.Alpha == 0 {
			sc.Alpha = DefaultAlpha
		}
		if sc.Rho == nil {
			rho := DefaultRho
			sc.Rho = &rho
		}
		if sc.Scale == 0 {
			sc.Scale = DefaultScale
		}
		if err := sc.valid(); err != nil {
			return err
		}
	}
	return nil
}

// valid 執行單筆情境的參數檢查。
func (sc *Scenario) valid() error {
	if sc.Name == "" {
		return errs.Kindf(errs.Validation, "scenario: name is required")
	}
	if sc.Size < 1 {
		return errs.Kindf(errs.Validation, "scenario %s: size must be >= 1, got %d", sc.Name, sc.Size)
	}
	if sc.Theta <= 0 {
		return errs.Kindf(errs.Validation, "scenario %s: theta must be positive, got %v", sc.Name, sc.Theta)
	}
	if sc.Alpha <= 1 {
		return errs.Kindf(errs.Validation, "scenario %s: alpha must be greater than 1, got %v", sc.Name, sc.Alpha)
	}
	if *sc.Rho < 0 || *sc.Rho > 1 {
		return errs.Kindf(errs.Validation, "scenario %s: rho must be between 0 and 1, got %v", sc.Name, *sc.Rho)
	}
	if sc.Scale <= 0 {
		return errs.Kindf(errs.Validation, "scenario %s: scale must be positive, got %v", sc.Name, sc.Scale)
	}
	switch sc.Strategy {
	case "", "custom-rejection", "rej", "tdr", "sru":
	default:
		return errs.Kindf(errs.Validation, "scenario %s: unknown strategy %q", sc.Name, sc.Strategy)
	}
	return nil
}
