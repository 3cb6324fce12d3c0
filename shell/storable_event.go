package shell

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-domain-go/lending"
)

var (
	ErrInvalidPayloadJSON           = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON          = errors.New("metadata json is not valid")
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")
	ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")
)

var eventJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// StorableEvent is a domain event ready to be appended: its type, time and two JSON documents.
type StorableEvent struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent fails unless payloadJSON and metadataJSON are both valid JSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON, metadataJSON []byte) (StorableEvent, error) {
	switch {
	case !jsoniter.Valid(payloadJSON):
		return StorableEvent{}, ErrInvalidPayloadJSON
	case !jsoniter.Valid(metadataJSON):
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{EventType: eventType, OccurredAt: occurredAt, PayloadJSON: payloadJSON, MetadataJSON: metadataJSON}, nil
}

// EventMetadata ties an event to the command that caused it and to the conversation it belongs to.
type EventMetadata struct {
	MessageID     string `json:"messageId"`
	CausationID   string `json:"causationId"`
	CorrelationID string `json:"correlationId"`
}

// BuildEventMetadata stringifies the three ids.
func BuildEventMetadata(messageID, causationID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{MessageID: messageID.String(), CausationID: causationID.String(), CorrelationID: correlationID.String()}
}

// NewCommandMetadata is the metadata of an event caused directly by a command: one fresh id in all three fields.
func NewCommandMetadata() EventMetadata {
	id := uuid.New()
	return BuildEventMetadata(id, id, id)
}

// EventMetadataFrom decodes the metadata document of a stored event.
func EventMetadataFrom(event StorableEvent) (EventMetadata, error) {
	var metadata EventMetadata
	if err := eventJSON.Unmarshal(event.MetadataJSON, &metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return metadata, nil
}

// StorableEventFrom encodes event and metadata.
func StorableEventFrom(event lending.DomainEvent, metadata EventMetadata) (StorableEvent, error) {
	payload, payloadErr := eventJSON.Marshal(event)
	meta, metaErr := eventJSON.Marshal(metadata)
	if err := errors.Join(payloadErr, metaErr); err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	storable, err := BuildStorableEvent(event.IsEventType(), event.HasOccurredAt(), payload, meta)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	return storable, nil
}
