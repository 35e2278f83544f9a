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

// Package middleware 提供 netsvr 使用的 HTTP middleware。
//
// 本檔案 (compress.go) 實作回應壓縮（zstd 優先，退回 gzip）。
// 大批樣本的 JSON 回應壓縮率很好，頻寬敏感的批次呼叫值得開。
//
// 實作細節：
//   - encoder 走 sync.Pool 重用，避免每個請求重建壓縮器。
//   - encoder 延遲到第一次寫 body 才掛上：1xx/204/304 等無 body
//     狀態不可以寫出空壓縮流（gzip 的 Close 即使零寫入也會落 footer）。
//   - WebSocket upgrade 請求直接放行。
package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// --- Pools ---
var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

// Compression 依 Accept-Encoding 協商回應壓縮。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		enc := pickEncoding(r.Header.Get("Accept-Encoding"))
		if enc == "" {
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressResponseWriter{ResponseWriter: w, encoding: enc}
		defer cw.release()
		next.ServeHTTP(cw, r)
	})
}

// pickEncoding 選出回應編碼：zstd 優先於 gzip。
func pickEncoding(acceptEncoding string) string {
	ae := strings.ToLower(acceptEncoding)
	switch {
	case strings.Contains(ae, "zstd"):
		return "zstd"
	case strings.Contains(ae, "gzip"):
		return "gzip"
	}
	return ""
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

func isNoBodyStatus(code int) bool {
	// 204 No Content, 304 Not Modified, 1xx Informational
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// compressResponseWriter 包住下游 ResponseWriter，
// 第一次寫 body 時才掛上壓縮器。
type compressResponseWriter struct {
	http.ResponseWriter
	encoding    string
	encoder     io.WriteCloser
	wroteHeader bool
	passthrough bool
}

func (cw *compressResponseWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true

	if isNoBodyStatus(code) {
		cw.passthrough = true
		cw.ResponseWriter.WriteHeader(code)
		return
	}

	h := cw.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", cw.encoding)
	h.Add("Vary", "Accept-Encoding")
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressResponseWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	if cw.passthrough {
		return cw.ResponseWriter.Write(b)
	}
	if cw.encoder == nil {
		cw.encoder = acquireEncoder(cw.encoding, cw.ResponseWriter)
	}
	return cw.encoder.Write(b)
}

// release 收尾：flush 壓縮流並把 encoder 還回 pool。
func (cw *compressResponseWriter) release() {
	if cw.encoder == nil {
		return
	}
	switch enc := cw.encoder.(type) {
	case *zstd.Encoder:
		_ = enc.Close()
		zstdPool.Put(enc)
	case *gzip.Writer:
		_ = enc.Close()
		gzipPool.Put(enc)
	}
	cw.encoder = nil
}

func acquireEncoder(encoding string, w io.Writer) io.WriteCloser {
	if encoding == "zstd" {
		if v := zstdPool.Get(); v != nil {
			zw := v.(*zstd.Encoder)
			zw.Reset(w)
			return zw
		}
		zw, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(DefaultCompressConfig.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}

	if v := gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw
	}
	gw, _ := gzip.NewWriterLevel(w, DefaultCompressConfig.GzipLevel)
	return gw
}
