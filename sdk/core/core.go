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

// Package core 提供 rcglab 的亂數核心（PRNG）。
//
// 所有抽樣器（rejection / tdr / sru）都只透過 PRNG 介面取得亂數，
// 不依賴任何全域亂數狀態。這保證了：
//  1. 可重現（reproducible）：相同 seed 必定產生相同的樣本序列。
//  2. 可並行（parallelizable）：每個抽樣器實例持有獨立的 PRNG，
//     呼叫端可以在多個 goroutine 各自建立實例並行模擬。
//  3. 可審計（auditable）：PRNG 狀態可 Snapshot / Restore。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義抽樣器所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// Float64 的精度與生成方式由 PRNG 自行決定（本包的 PCG64 提供 53-bit
// 精度），bounded 生成（UintN/IntN）也交由 PRNG 用最合適的策略實作。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以指定 seed 建立新的 PRNG。
//
// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是
// 「決定性」的——相同的 seed 必須產生相同的初始內部狀態與輸出序列。
//
// seed 的生命週期由呼叫端統一管理：外部未提供 seed 時由
// CryptoSeed() 產生並保存，後續的重跑/回放都使用保存下來的值。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

// Default 回傳預設工廠。
func Default() PRNGFactory {
	return &DefaultPRNG{}
}

// CryptoSeed 以加密隨機來源產生一個 seed。
//
// 用於「呼叫端沒有指定 seed」的情境：先取得一個 seed 並保存，
// 再用它建立 PRNG，使未指定 seed 的執行仍然可以事後重現。
func CryptoSeed() int64 {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		// crypto/rand 失敗在支援的平台上不應發生
		panic(err)
	}
	return seed.Int64()
}
