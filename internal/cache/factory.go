// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL        string
	Prefix          string
	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration
	// FallbackToMemory uses a memory cache when Redis cannot be reached.
	FallbackToMemory bool
}

// New creates the cache described by cfg. The returned bool is true when
// a Redis backend was requested but a memory cache was returned instead.
func New(cfg Config) (Cache, bool, error) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			return rc, false, nil
		}
		if !cfg.FallbackToMemory {
			return nil, false, err
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
		return newMemoryFromConfig(cfg), true, nil
	}
	return newMemoryFromConfig(cfg), false, nil
}

func newMemoryFromConfig(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}
