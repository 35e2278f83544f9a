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

// Package netsvr 定義 HTTP server 的抽象介面與 chi 實作。
package netsvr

import (
	"context"
	"net/http"
)

// NetSvr 是完整的 server 能力：路由 + 啟停控制。
type NetSvr interface {
	NetRouter

	// Run 啟動並阻塞直到收到終止信號或 server 錯誤。
	Run() error
	// Shutdown 觸發優雅關閉。
	Shutdown(ctx context.Context) error
	// Address 回傳監聽位址。
	Address() string
	// Ready 回報 server 是否組裝完整。
	Ready() bool
}

// NetRouter 定義純路由行為，讓子模組只操作路由而不持有啟停控制權。
// Group 回呼只會拿到 NetRouter，看不到 Run/Shutdown，避免誤用。
type NetRouter interface {
	// middleware
	Use(middleware func(http.Handler) http.Handler)

	// 註冊路由
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	// 群組路由
	Group(path string, fn func(NetRouter))
}
