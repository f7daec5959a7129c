package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aeturnis/aeturnis-online/internal/platform/id"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
)

// AppendEvent writes one journal record. Missing IDs and timestamps are
// filled in.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if evt.Type == "" {
		return event.Event{}, fmt.Errorf("event type is required")
	}
	if evt.ID == "" {
		newID, err := id.NewID()
		if err != nil {
			return event.Event{}, fmt.Errorf("generate event id: %w", err)
		}
		evt.ID = newID
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (
		   id, timestamp, event_type, actor_type, actor_id,
		   entity_type, entity_id, payload_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID,
		toMillis(evt.Timestamp),
		string(evt.Type),
		string(evt.ActorType),
		evt.ActorID,
		evt.EntityType,
		evt.EntityID,
		string(payload),
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}
	return evt, nil
}

// ListEventsByEntity returns the newest journal records for one entity.
func (s *Store) ListEventsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	entityType = strings.TrimSpace(entityType)
	entityID = strings.TrimSpace(entityID)
	if entityType == "" || entityID == "" {
		return nil, fmt.Errorf("entity type and id are required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, timestamp, event_type, actor_type, actor_id,
		        entity_type, entity_id, payload_json
		   FROM events
		  WHERE entity_type = ? AND entity_id = ?
		  ORDER BY timestamp DESC, id DESC
		  LIMIT ?`,
		entityType, entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]event.Event, 0, limit)
	for rows.Next() {
		var evt event.Event
		var millis int64
		var eventType, actorType, payload string
		if err := rows.Scan(
			&evt.ID,
			&millis,
			&eventType,
			&actorType,
			&evt.ActorID,
			&evt.EntityType,
			&evt.EntityID,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		evt.Timestamp = fromMillis(millis)
		evt.Type = event.Type(eventType)
		evt.ActorType = event.ActorType(actorType)
		evt.PayloadJSON = []byte(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
