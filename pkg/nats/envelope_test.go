package nats

import (
	"encoding/json"
	"testing"
	"time"

	"tabnote-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	occurredAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	raw, err := json.Marshal(map[string]interface{}{
		"type":        events.TypeNotebookTouched,
		"occurred_at": occurredAt.Format(time.RFC3339Nano),
		"payload": map[string]interface{}{
			"notebook_id": "c2a7e1c8-0000-0000-0000-000000000001",
		},
	})
	require.NoError(t, err)

	event, err := decodeEnvelope(raw)
	require.NoError(t, err)

	assert.Equal(t, events.TypeNotebookTouched, event.EventType())
	assert.Equal(t, "c2a7e1c8-0000-0000-0000-000000000001", event.Payload()["notebook_id"])
	assert.True(t, event.Timestamp().Equal(occurredAt))
}

func TestDecodeEnvelopeBadTimestampFallsBack(t *testing.T) {
	raw := []byte(`{"type":"NOTE_SAVED","occurred_at":"not-a-time","payload":{}}`)

	event, err := decodeEnvelope(raw)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), event.Timestamp(), time.Minute)
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := decodeEnvelope([]byte(`{"type":`))
	assert.Error(t, err)
}
