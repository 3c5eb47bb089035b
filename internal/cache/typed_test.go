// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
)

type typedValue struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestTyped_GetOrLoad(t *testing.T) {
	mem := NewMemoryCache(MemoryOptions{})
	defer func() { _ = mem.Close() }()
	typed := NewTyped[typedValue](mem, 0)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (typedValue, error) {
		calls++
		return typedValue{Name: "main", N: 3}, nil
	}

	for range 3 {
		got, err := typed.GetOrLoad(ctx, "term:1", load)
		if err != nil {
			t.Fatalf("GetOrLoad failed: %v", err)
		}
		if got.Name != "main" || got.N != 3 {
			t.Errorf("unexpected value: %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected loader to run once, ran %d times", calls)
	}
}

func TestTyped_LoadErrorNotCached(t *testing.T) {
	mem := NewMemoryCache(MemoryOptions{})
	defer func() { _ = mem.Close() }()
	typed := NewTyped[string](mem, 0)
	ctx := context.Background()

	boom := errors.New("boom")
	if _, err := typed.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := typed.Get(ctx, "k"); ok {
		t.Error("failed load should not be cached")
	}
}

func TestTyped_CorruptValueIsMiss(t *testing.T) {
	mem := NewMemoryCache(MemoryOptions{})
	defer func() { _ = mem.Close() }()
	ctx := context.Background()
	_ = mem.Set(ctx, "k", []byte("{not json"), 0)

	typed := NewTyped[typedValue](mem, 0)
	if _, ok := typed.Get(ctx, "k"); ok {
		t.Error("expected corrupt value to read as a miss")
	}
}

func TestNew_MemoryDefault(t *testing.T) {
	c, fellBack, err := New(Config{MaxSize: 10})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close() }()
	if fellBack {
		t.Error("memory config should not report a fallback")
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache, got %T", c)
	}
}

func TestNew_RedisFallback(t *testing.T) {
	c, fellBack, err := New(Config{RedisURL: "not-a-url", FallbackToMemory: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close() }()
	if !fellBack {
		t.Error("expected fallback to memory")
	}

	if _, _, err := New(Config{RedisURL: "not-a-url"}); err == nil {
		t.Error("expected error without fallback")
	}
}
