package email

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gocharity/internal/notification/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMail struct {
	msgs []mail.Message
	err  error
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func (c *captureMail) Close() error { return nil }

func TestMail_SendContact(t *testing.T) {
	client := &captureMail{}
	m := New(client, "noreply@charity.example", instrument.NewNoop())

	err := m.SendContact(context.Background(), "info@charity.example", entity.Contact{
		Name:    "Sara",
		Email:   "sara@example.com",
		Subject: "Hello",
		Content: "I want to help",
	})
	require.NoError(t, err)
	require.Len(t, client.msgs, 1)

	msg := client.msgs[0]
	assert.Equal(t, "noreply@charity.example", msg.From)
	assert.Equal(t, []string{"info@charity.example"}, msg.To)
	assert.Equal(t, "sara@example.com", msg.ReplyTo)
	assert.Equal(t, "Hello", msg.Subject)
	assert.Equal(t, "name: Sara\nemail: sara@example.com\nmessage: I want to help", msg.TextBody)
}

func TestMail_SendVolunteerWelcome(t *testing.T) {
	client := &captureMail{err: errors.New("smtp down")}
	m := New(client, "noreply@charity.example", instrument.NewNoop())

	err := m.SendVolunteerWelcome(context.Background(), "Welcome", "text", "<p>html</p>", entity.VolunteerWelcome{
		VolunteerID: 1,
		Email:       "ali@example.com",
	})
	require.EqualError(t, err, "smtp down")
	require.Len(t, client.msgs, 1)
	assert.Equal(t, []string{"ali@example.com"}, client.msgs[0].To)
	assert.Equal(t, "<p>html</p>", client.msgs[0].HTMLBody)
}
