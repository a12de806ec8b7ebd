package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cuongbtq/jobster-api/shared/rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMessagePublisher struct {
	mock.Mock
}

func (m *mockMessagePublisher) PublishWithRetry(ctx context.Context, msg rabbitmq.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNewJobEvent(t *testing.T) {
	e := NewJobEvent(TypeJobCreated, "j1", "u1", "pending")

	require.NoError(t, e.Validate())
	assert.Equal(t, TypeJobCreated, e.EventType)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
}

func TestEncodeDecode(t *testing.T) {
	e := NewJobEvent(TypeJobUpdated, "j1", "u1", "interview")

	body, err := e.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"event_type":"job.updated"`)

	got, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, e.EventID, got.EventID)
	assert.True(t, e.OccurredAt.Equal(got.OccurredAt))
}

func TestDecode_Invalid(t *testing.T) {
	valid := NewJobEvent(TypeJobDeleted, "j1", "u1", "pending")

	tests := []struct {
		name   string
		mutate func(e *JobEvent)
	}{
		{"bad event id", func(e *JobEvent) { e.EventID = "nope" }},
		{"unknown type", func(e *JobEvent) { e.EventType = "job.archived" }},
		{"missing job id", func(e *JobEvent) { e.JobID = "" }},
		{"missing user id", func(e *JobEvent) { e.UserID = "" }},
		{"missing time", func(e *JobEvent) { e.OccurredAt = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			body, err := e.Encode()
			require.NoError(t, err)

			_, err = Decode(body)
			assert.ErrorIs(t, err, ErrInvalidEvent)
		})
	}

	t.Run("not json", func(t *testing.T) {
		_, err := Decode([]byte("{"))
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})
}

func TestRabbitPublisher_Publish(t *testing.T) {
	client := new(mockMessagePublisher)
	p := newRabbitPublisher(client, time.Second, discardLogger())
	e := NewJobEvent(TypeJobCreated, "j1", "u1", "pending")

	client.On("PublishWithRetry", mock.Anything, mock.MatchedBy(func(msg rabbitmq.Message) bool {
		return msg.RoutingKey == TypeJobCreated &&
			msg.Type == TypeJobCreated &&
			msg.MessageID == e.EventID &&
			msg.ContentType == ContentType
	})).Return(nil).Once()

	require.NoError(t, p.Publish(context.Background(), e))
	client.AssertExpectations(t)
}

func TestRabbitPublisher_SurvivesCanceledRequest(t *testing.T) {
	client := new(mockMessagePublisher)
	p := newRabbitPublisher(client, time.Second, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client.On("PublishWithRetry", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Once()

	require.NoError(t, p.Publish(ctx, NewJobEvent(TypeJobDeleted, "j1", "u1", "pending")))
	client.AssertExpectations(t)
}

func TestRabbitPublisher_Error(t *testing.T) {
	client := new(mockMessagePublisher)
	p := newRabbitPublisher(client, 0, discardLogger())

	client.On("PublishWithRetry", mock.Anything, mock.Anything).Return(rabbitmq.ErrNotConnected).Once()

	err := p.Publish(context.Background(), NewJobEvent(TypeJobUpdated, "j1", "u1", "pending"))
	assert.True(t, errors.Is(err, rabbitmq.ErrNotConnected))
	client.AssertExpectations(t)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), JobEvent{}))
}
