package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tabnote-be/internal/pkg/logger"
	"tabnote-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touchRecorder records Touch calls and stands in for the rest of the
// notebook service.
type touchRecorder struct {
	INotebookService

	mu      sync.Mutex
	touched []uuid.UUID
	fail    bool
}

func (r *touchRecorder) Touch(_ context.Context, notebookId uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("db down")
	}
	r.touched = append(r.touched, notebookId)
	return nil
}

func (r *touchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.touched)
}

func runTouchConsumer(t *testing.T, notebooks INotebookService, pub EventPublisher) *TouchPublisher {
	t.Helper()

	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "touch.log"))
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	consumer := NewTouchConsumer(pubSub, notebooks, pub, log)
	require.NoError(t, consumer.Run(ctx))

	return NewTouchPublisher(pubSub, log)
}

func TestTouchConsumerAppliesBumpAndEmitsEvent(t *testing.T) {
	notebooks := &touchRecorder{}
	pub := &recordingPublisher{}
	toucher := runTouchConsumer(t, notebooks, pub)

	notebookId := uuid.New()
	toucher.Touch(notebookId)

	require.Eventually(t, func() bool { return notebooks.count() == 1 }, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(pub.ofType(events.TypeNotebookTouched)) == 1
	}, time.Second, 10*time.Millisecond)

	payload := pub.ofType(events.TypeNotebookTouched)[0].Payload()
	assert.Equal(t, notebookId.String(), payload["notebook_id"])
}

func TestTouchConsumerSkipsEventWhenBumpFails(t *testing.T) {
	notebooks := &touchRecorder{fail: true}
	pub := &recordingPublisher{}
	toucher := runTouchConsumer(t, notebooks, pub)

	toucher.Touch(uuid.New())

	// Give the consumer time to process and drop the message.
	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, pub.ofType(events.TypeNotebookTouched))
}

func TestTouchConsumerWithoutPublisher(t *testing.T) {
	notebooks := &touchRecorder{}
	toucher := runTouchConsumer(t, notebooks, nil)

	toucher.Touch(uuid.New())
	require.Eventually(t, func() bool { return notebooks.count() == 1 }, time.Second, 10*time.Millisecond)
}
