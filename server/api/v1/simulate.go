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

package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/rcglab"
	"github.com/zintix-labs/rcglab/errs"
	"github.com/zintix-labs/rcglab/server/httperr"
	"github.com/zintix-labs/rcglab/server/svrcfg"
	"github.com/zintix-labs/rcglab/stats"
)

// simulateRequest 是 /v1/simulate 的請求參數（GET query 與 POST body
// 共用語義）。alpha/rho/scale 用指標分辨「未指定」與「指定為 0」。
type simulateRequest struct {
	Size     int      `json:"size"`
	Theta    float64  `json:"theta"`
	Alpha    *float64 `json:"alpha,omitempty"`
	Rho      *float64 `json:"rho,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`
	Seed     *int64   `json:"seed,omitempty"`
	Strategy string   `json:"strategy,omitempty"`
}

type simulateResponse struct {
	Samples  []float64           `json:"samples"`
	Report   *stats.SampleReport `json:"report"`
	UsedTime int64               `json:"used_ms"`
}

type SimulateHandler struct {
	Cfg *svrcfg.SvrCfg
}

func NewSimulateHandler(cfg *svrcfg.SvrCfg) (*SimulateHandler, error) {
	if cfg == nil {
		return nil, errs.NewFatal("simulate handler: cfg is required")
	}
	return &SimulateHandler{Cfg: cfg}, nil
}

// Simulate 處理 GET/POST /v1/simulate：抽 size 個 beta value 並回傳
// 樣本與敘述統計。alpha/rho/scale 未給時沿用模擬入口預設值。
func (sh *SimulateHandler) Simulate(w http.ResponseWriter, q *http.Request) {
	req := new(simulateRequest)
	switch q.Method {
	case http.MethodGet:
		if err := parseSimulateQuery(q, req); err != nil {
			httperr.Errs(w, err)
			return
		}
	case http.MethodPost:
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json: "+err.Error()))
			return
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if req.Size < 1 {
		httperr.Errs(w, errs.Kindf(errs.Validation, "size must be >= 1"))
		return
	}
	if req.Size > sh.Cfg.MaxSampleSize {
		httperr.Errs(w, errs.Kindf(errs.Validation, "size exceeds limit %d", sh.Cfg.MaxSampleSize))
		return
	}

	st, err := rcglab.ParseStrategy(req.Strategy)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	opt := rcglab.DefaultOptions()
	opt.Theta = req.Theta
	if req.Alpha != nil {
		opt.Alpha = *req.Alpha
	}
	if req.Rho != nil {
		opt.Rho = *req.Rho
	}
	if req.Scale != nil {
		opt.Scale = *req.Scale
	}
	opt.Seed = req.Seed
	opt.Strategy = st
	opt.Log = sh.Cfg.Log

	start := time.Now()
	batch, err := rcglab.Simulate(req.Size, opt)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	resp := simulateResponse{
		Samples:  batch,
		Report:   stats.Describe("simulate", req.Size, batch),
		UsedTime: time.Since(start).Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		sh.Cfg.Log.Error("encode simulate response", "err", err)
	}
}

// parseSimulateQuery 解析 GET query string（欄位語義同 POST body）。
func parseSimulateQuery(q *http.Request, req *simulateRequest) error {
	query := q.URL.Query()

	// size
	s := query.Get("size")
	if s == "" {
		return errs.NewWarn("size is required")
	}
	size, err := strconv.Atoi(s)
	if err != nil {
		return errs.NewWarn("size must be an integer")
	}
	req.Size = size

	// theta
	t := query.Get("theta")
	if t == "" {
		return errs.NewWarn("theta is required")
	}
	theta, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return errs.NewWarn("theta must be a number")
	}
	req.Theta = theta

	// 選填的浮點欄位
	for name, dst := range map[string]**float64{
		"alpha": &req.Alpha,
		"rho":   &req.Rho,
		"scale": &req.Scale,
	} {
		if v := query.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errs.NewWarn(name + " must be a number")
			}
			*dst = &f
		}
	}

	// seed
	if v := query.Get("seed"); v != "" {
		u, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errs.NewWarn("seed must be int64")
		}
		req.Seed = &u
	}

	req.Strategy = query.Get("strategy")
	return nil
}
