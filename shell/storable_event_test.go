package shell_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-domain-go/lending"
	"github.com/AntonStoeckl/lending-domain-go/shell"
)

func Test_BuildStorableEvent_Error_WhenJSONIsInvalid(t *testing.T) {
	now := time.Now()

	_, err := shell.BuildStorableEvent("BorrowRequested", now, []byte("{"), []byte("{}"))
	assert.ErrorIs(t, err, shell.ErrInvalidPayloadJSON)

	_, err = shell.BuildStorableEvent("BorrowRequested", now, []byte("{}"), []byte("not json"))
	assert.ErrorIs(t, err, shell.ErrInvalidMetadataJSON)
}

func Test_StorableEventFrom_Success(t *testing.T) {
	// arrange
	thingID, requesterID, ownerID := lending.NewID(), lending.NewID(), lending.NewID()
	occurredAt := time.Date(2025, 3, 12, 12, 0, 0, 123456789, time.UTC)
	event := lending.BuildBorrowRequested(thingID, requesterID, ownerID, occurredAt)
	messageID := uuid.New()
	metadata := shell.BuildEventMetadata(messageID, messageID, messageID)

	// act
	storable, err := shell.StorableEventFrom(event, metadata)

	// assert
	require.NoError(t, err)
	assert.Equal(t, lending.BorrowRequestedEventType, storable.EventType)
	assert.Equal(t, occurredAt.Truncate(time.Microsecond), storable.OccurredAt)

	var payload map[string]any
	require.NoError(t, jsoniter.Unmarshal(storable.PayloadJSON, &payload))
	assert.Equal(t, thingID.String(), payload["ThingID"])
	assert.Equal(t, requesterID.String(), payload["RequesterID"])

	gotMetadata, err := shell.EventMetadataFrom(storable)
	require.NoError(t, err)
	assert.Equal(t, messageID.String(), gotMetadata.CorrelationID)
}

func Test_EventMetadataFrom_Error_WhenMetadataIsNotAnObject(t *testing.T) {
	_, err := shell.EventMetadataFrom(shell.StorableEvent{MetadataJSON: []byte(`"text"`)})

	assert.ErrorIs(t, err, shell.ErrMappingToEventMetadataFailed)
}

func Test_NewCommandMetadata_StartsCausationChain(t *testing.T) {
	metadata := shell.NewCommandMetadata()

	assert.NotEmpty(t, metadata.MessageID)
	assert.Equal(t, metadata.MessageID, metadata.CausationID)
	assert.Equal(t, metadata.MessageID, metadata.CorrelationID)
}
