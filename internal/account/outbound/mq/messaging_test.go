package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shandysiswandi/gocharity/internal/account/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic string
	msg   messaging.Outgoing
	err   error
}

func (c *capturePublisher) Publish(_ context.Context, topic string, msg messaging.Outgoing) error {
	c.topic = topic
	c.msg = msg
	return c.err
}

func TestPublishVolunteerRegistration(t *testing.T) {
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop())

	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	err := m.PublishVolunteerRegistration(ctx, usecase.VolunteerRegistrationEvent{
		VolunteerID: 10,
		UserID:      7,
		FirstName:   "Zahra",
		Email:       "zahra@example.org",
		Phone:       "09123456789",
		NewAccount:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, event.VolunteerRegistrationDestination, pub.topic)
	assert.Equal(t, "cid-1", pub.msg.Headers[event.CorrelationIDHeader])
	assert.Equal(t, "09123456789", string(pub.msg.Key))

	var got event.VolunteerRegistrationMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, int64(10), got.VolunteerID)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.NewAccount)
}

func TestPublishVolunteerRegistration_Error(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	m := NewMessaging(pub, instrument.NewNoop())

	err := m.PublishVolunteerRegistration(context.Background(), usecase.VolunteerRegistrationEvent{UserID: 1})
	require.EqualError(t, err, "broker down")
}
