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

// Package demo 提供開箱即用的示範組裝：內嵌情境設定與預設 server 設定。
package demo

import (
	"github.com/zintix-labs/rcglab/demo/demo_configs"
	"github.com/zintix-labs/rcglab/scenario"
	"github.com/zintix-labs/rcglab/server/logger"
	"github.com/zintix-labs/rcglab/server/svrcfg"
)

// NewSet 載入內嵌的示範情境。
func NewSet() (*scenario.Set, error) {
	return scenario.Load(demo_configs.FS, "scenarios.yaml")
}

// NewServerConfig 建立開發模式的預設 server 設定。
func NewServerConfig() *svrcfg.SvrCfg {
	return &svrcfg.SvrCfg{
		Log: logger.NewDefault(logger.ModeDev),
	}
}
