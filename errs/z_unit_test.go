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

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestNewKindLevels 驗證分類到嚴重度的指派規則
// 檢查項目: Validation/EfficiencyTooLow/SizeTooLarge -> Warn, Numerical/Unknown -> Fatal
func TestNewKindLevels(t *testing.T) {
	cases := []struct {
		kind Kind
		want ErrLevel
	}{
		{Validation, Warn},
		{EfficiencyTooLow, Warn},
		{SizeTooLarge, Warn},
		{Numerical, Fatal},
		{Unknown, Fatal},
	}
	for _, c := range cases {
		e := NewKind(c.kind, "msg")
		if e.ErrLv != c.want {
			t.Errorf("kind %s: expected level %s, got %s", KindName(c.kind), ErrLv(c.want), ErrLv(e.ErrLv))
		}
		if e.Kind != c.kind {
			t.Errorf("kind mismatch: want %v got %v", c.kind, e.Kind)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	e := Kindf(Validation, "alpha must be greater than 1, got %v", 0.5)
	s := e.Error()
	if !strings.Contains(s, "errlv=warn") || !strings.Contains(s, "kind=validation") {
		t.Fatalf("unexpected format: %s", s)
	}
	if !strings.Contains(s, "got 0.5") {
		t.Fatalf("formatted message lost: %s", s)
	}
}

// TestWrapPreservesKind 驗證 Wrap 沿用底層 *E 的嚴重度與分類
func TestWrapPreservesKind(t *testing.T) {
	inner := NewKind(EfficiencyTooLow, "efficiency 0.001")
	outer := Wrap(inner, "sampler construction")

	if outer.ErrLv != Warn {
		t.Fatalf("expected Warn, got %s", ErrLv(outer.ErrLv))
	}
	if !IsKind(outer, EfficiencyTooLow) {
		t.Fatalf("kind not preserved through wrap")
	}
	if !errors.Is(outer, inner) {
		t.Fatalf("wrapped cause not reachable via errors.Is")
	}
}

// TestWrapForeignError 驗證非 *E 的錯誤被包成 Fatal/Unknown
func TestWrapForeignError(t *testing.T) {
	outer := Wrap(fmt.Errorf("disk on fire"), "load config")
	if outer.ErrLv != Fatal {
		t.Fatalf("expected Fatal for foreign cause, got %s", ErrLv(outer.ErrLv))
	}
	if outer.Kind != Unknown {
		t.Fatalf("expected Unknown kind, got %s", KindName(outer.Kind))
	}
	if !strings.Contains(outer.Error(), "disk on fire") {
		t.Fatalf("cause missing from message: %s", outer.Error())
	}
}

func TestIsKindAndAsErr(t *testing.T) {
	e := NewKind(SizeTooLarge, "too big")
	if !IsKind(e, SizeTooLarge) || IsKind(e, Numerical) {
		t.Fatalf("IsKind mismatch")
	}
	if IsKind(errors.New("plain"), SizeTooLarge) {
		t.Fatalf("IsKind matched a plain error")
	}

	got, ok := AsErr(Wrap(e, "outer"))
	if !ok || got.Kind != SizeTooLarge {
		t.Fatalf("AsErr failed: ok=%v got=%+v", ok, got)
	}
	if _, ok := AsErr(errors.New("plain")); ok {
		t.Fatalf("AsErr matched a plain error")
	}
}
