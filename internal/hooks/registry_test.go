// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package hooks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/olegiv/ocms-navmenu/internal/rest"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryPriorityOrder(t *testing.T) {
	r := NewRegistry(newTestLogger())

	var order []string
	record := func(name string) Func {
		return func(_ context.Context, data any) (any, error) {
			order = append(order, name)
			return data, nil
		}
	}
	r.Register("h", Handler{Name: "late", Priority: 10, Fn: record("late")})
	r.Register("h", Handler{Name: "first", Priority: -1, Fn: record("first")})
	r.Register("h", Handler{Name: "mid-a", Fn: record("mid-a")})
	r.Register("h", Handler{Name: "mid-b", Fn: record("mid-b")})

	if _, err := r.Call(context.Background(), "h", nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	want := []string{"first", "mid-a", "mid-b", "late"}
	if len(order) != len(want) {
		t.Fatalf("call order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call order = %v, want %v", order, want)
			break
		}
	}
}

func TestRegistryCallChainsData(t *testing.T) {
	r := NewRegistry(newTestLogger())
	r.RegisterFunc("h", "double", "test", func(_ context.Context, data any) (any, error) {
		return data.(int) * 2, nil
	})
	r.RegisterFunc("h", "inc", "test", func(_ context.Context, data any) (any, error) {
		return data.(int) + 1, nil
	})

	got, err := r.Call(context.Background(), "h", 5)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != 11 {
		t.Errorf("Call() = %v, want 11", got)
	}

	got, _ = r.Call(context.Background(), "missing", 5)
	if got != 5 {
		t.Errorf("Call() without handlers = %v, want 5", got)
	}
}

func TestRegistryCallStopsOnError(t *testing.T) {
	r := NewRegistry(newTestLogger())
	boom := errors.New("boom")
	called := false

	r.RegisterFunc("h", "fail", "test", func(context.Context, any) (any, error) { return nil, boom })
	r.RegisterFunc("h", "after", "test", func(_ context.Context, d any) (any, error) {
		called = true
		return d, nil
	})

	_, err := r.Call(context.Background(), "h", nil)
	if !errors.Is(err, boom) {
		t.Errorf("Call() error = %v, want wrapped boom", err)
	}
	if called {
		t.Error("handler after the failing one should not run")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry(newTestLogger())
	noop := func(_ context.Context, d any) (any, error) { return d, nil }
	r.RegisterFunc("a", "x", "audit", noop)
	r.RegisterFunc("a", "y", "other", noop)
	r.RegisterFunc("b", "z", "audit", noop)

	r.Unregister("audit")

	if got := r.HandlerCount("a"); got != 1 {
		t.Errorf("HandlerCount(a) = %d, want 1", got)
	}
	if r.HasHandlers("b") {
		t.Error("HasHandlers(b) = true, want false")
	}
}

func TestSinkNotify(t *testing.T) {
	r := NewRegistry(newTestLogger())
	sink := NewSink(r, newTestLogger())

	var got ItemEvent
	r.RegisterFunc("insert", "capture", "test", func(_ context.Context, d any) (any, error) {
		got = d.(ItemEvent)
		return d, nil
	})
	r.RegisterFunc("insert", "fail", "test", func(context.Context, any) (any, error) {
		return nil, errors.New("observer failure")
	})

	req := rest.NewRequest(http.MethodPost, "/", nil)
	sink.Notify(context.Background(), "insert", "item", req, true)

	if got.Item != "item" || got.Request != req || !got.Creating {
		t.Errorf("handler received %+v", got)
	}
	// Notify without handlers is a no-op.
	sink.Notify(context.Background(), "nobody", nil, req, false)
}

func TestFilter(t *testing.T) {
	r := NewRegistry(newTestLogger())
	filter := NewFilter(r, newTestLogger())
	resp := rest.NewResponse(map[string]any{"id": 1})

	if got := filter.Filter(context.Background(), "prepare", resp, nil, nil); got != resp {
		t.Error("filter without handlers should return the response unchanged")
	}

	r.RegisterFunc("prepare", "tag", "test", func(_ context.Context, d any) (any, error) {
		ev := d.(PrepareEvent)
		ev.Response.Data.(map[string]any)["tagged"] = true
		return ev, nil
	})
	got := filter.Filter(context.Background(), "prepare", resp, nil, nil)
	if got.Data.(map[string]any)["tagged"] != true {
		t.Errorf("filter did not amend response: %v", got.Data)
	}

	r.RegisterFunc("prepare", "bad", "test", func(context.Context, any) (any, error) {
		return "not an event", nil
	})
	if got := filter.Filter(context.Background(), "prepare", resp, nil, nil); got != resp {
		t.Error("unexpected handler output should leave the response unchanged")
	}
}
