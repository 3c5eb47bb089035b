// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service resolves stored menu items into their presentation
// fields and provides the registries and audit logging around them.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-navmenu/internal/hooks"
	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

// EventWriter persists audit events.
type EventWriter interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (int64, error)
}

// EventService provides event logging functionality.
type EventService struct {
	events EventWriter
}

// NewEventService creates a new EventService.
func NewEventService(events EventWriter) *EventService {
	return &EventService{events: events}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.events.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "category", category)
		return err
	}
	return nil
}

// LogMenuEvent logs a menu-related event.
func (s *EventService) LogMenuEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryMenu, message, metadata)
}

// LogSystemEvent logs a system-related event.
func (s *EventService) LogSystemEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySystem, message, metadata)
}

// LogCacheEvent logs a cache-related event.
func (s *EventService) LogCacheEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryCache, message, metadata)
}

// AuditOwner is the hook owner name of the audit subscriber.
const AuditOwner = "audit"

// SubscribeAudit records an audit event whenever one of the given
// lifecycle hooks fires for a stored post.
func SubscribeAudit(registry *hooks.Registry, events *EventService, hookNames ...string) {
	for _, name := range hookNames {
		registry.RegisterFunc(name, "audit."+name, AuditOwner, func(ctx context.Context, data any) (any, error) {
			ev, ok := data.(hooks.ItemEvent)
			if !ok {
				return data, nil
			}
			post, ok := ev.Item.(store.Post)
			if !ok {
				return data, nil
			}

			action := "updated"
			if ev.Creating {
				action = "created"
			}
			meta := map[string]any{
				"hook":      name,
				"post_id":   post.ID,
				"post_type": post.PostType,
			}
			if err := events.LogMenuEvent(ctx, model.EventLevelInfo, fmt.Sprintf("Menu item %s", action), meta); err != nil {
				return nil, err
			}
			return data, nil
		})
	}
}
