package sms

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	got *twilioApi.CreateMessageParams
	err error
}

func (f *fakeCreator) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestNewTwilio(t *testing.T) {
	_, err := NewTwilio(TwilioConfig{AccountSID: "AC1"})
	require.ErrorIs(t, err, ErrTwilioCredentials)

	tw, err := NewTwilio(TwilioConfig{AccountSID: "AC1", AuthToken: "tok", From: "+15550000000", CountryCode: "+98"})
	require.NoError(t, err)
	assert.Equal(t, "+989123456789", tw.E164("09123456789"))
	assert.Equal(t, "+15551112222", tw.E164("+15551112222"))
}

func TestTwilioSend(t *testing.T) {
	fc := &fakeCreator{}
	tw := &Twilio{api: fc, from: "+15550000000", countryCode: "+98"}

	require.NoError(t, tw.Send(context.Background(), "09123456789", "code 123456"))
	require.NotNil(t, fc.got)
	assert.Equal(t, "+989123456789", *fc.got.To)
	assert.Equal(t, "+15550000000", *fc.got.From)
	assert.Equal(t, "code 123456", *fc.got.Body)

	fc.err = errors.New("rate limited")
	assert.ErrorContains(t, tw.Send(context.Background(), "09123456789", "x"), "rate limited")

	assert.ErrorIs(t, tw.Send(context.Background(), " ", "x"), ErrNoRecipient)
}

func TestLogDriver(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	assert.NoError(t, NewLog().Send(context.Background(), "09123456789", "Your GoCharity code is 482913"))
	assert.Contains(t, buf.String(), "09123456789")
	assert.NotContains(t, buf.String(), "482913")

	assert.ErrorIs(t, NewLog().Send(context.Background(), "", "x"), ErrNoRecipient)
}
