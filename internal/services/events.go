package services

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Routing keys for domain events.
const (
	EventUserCreated     = "user.created"
	EventUserUpdated     = "user.updated"
	EventUserDeleted     = "user.deleted"
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventFavoriteCreated = "favorite.created"
	EventFavoriteDeleted = "favorite.deleted"
)

// EventPublisher delivers an encoded event to a broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// EventEmitter publishes domain events on a best-effort basis: a failed
// publish is logged and never fails the request that caused it.
// A nil *EventEmitter drops events.
type EventEmitter struct {
	publisher EventPublisher
	log       zerolog.Logger
}

// NewEventEmitter creates an EventEmitter. publisher may be nil.
func NewEventEmitter(publisher EventPublisher, log zerolog.Logger) *EventEmitter {
	return &EventEmitter{publisher: publisher, log: log}
}

// Emit encodes payload as JSON and publishes it under routingKey.
func (e *EventEmitter) Emit(routingKey string, payload interface{}) {
	if e == nil || e.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		e.log.Error().Err(err).Str("event", routingKey).Msg("failed to encode event")
		return
	}
	if err := e.publisher.Publish(routingKey, body); err != nil {
		e.log.Warn().Err(err).Str("event", routingKey).Msg("failed to publish event")
		return
	}
	e.log.Debug().Str("event", routingKey).Msg("event published")
}
