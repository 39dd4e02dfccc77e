package notifier

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestMulti_DeliversToAllChannels(t *testing.T) {
	first := &recordingNotifier{}
	second := &recordingNotifier{}
	multi := NewMulti(first, second)

	event := Event{Kind: KindSessionStarted, Title: "Session started"}
	require.NoError(t, multi.Notify(context.Background(), event))

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, KindSessionStarted, first.events[0].Kind)
}

func TestMulti_FailureDoesNotBlockOtherChannels(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("chat unreachable")}
	healthy := &recordingNotifier{}
	multi := NewMulti(failing, healthy)

	err := multi.Notify(context.Background(), Event{Kind: KindWindowEnding})

	require.Error(t, err)
	assert.Len(t, healthy.events, 1, "delivery must continue past a failed channel")
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier()
	assert.NoError(t, n.Notify(context.Background(), Event{
		Kind:    KindScheduleAdjusted,
		Title:   "Schedule adjusted",
		Message: "Monday trigger moved to 07:15",
	}))
}
