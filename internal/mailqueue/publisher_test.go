package mailqueue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

type fakeChannel struct {
	key  string
	msg  amqp.Publishing
	err  error
	hasD bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	_, f.hasD = ctx.Deadline()
	f.key = key
	f.msg = msg
	return f.err
}

func TestPublishEncodesMessage(t *testing.T) {
	cfg := &config.Config{}
	cfg.RabbitMQ.Queue = "email_queue"
	cfg.RabbitMQ.PublishTimeout = 5

	ch := &fakeChannel{}
	p := NewPublisher(cfg, ch)

	err := p.Publish(domain.MailMessage{
		Type: domain.MailWelcome,
		To:   "ada@example.com",
		Data: domain.WelcomeMailData{Name: "Ada", Email: "ada@example.com", Role: domain.RoleEmployee},
	})
	require.NoError(t, err)

	assert.Equal(t, "email_queue", ch.key)
	assert.True(t, ch.hasD)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var decoded struct {
		Type string                 `json:"type"`
		To   string                 `json:"to"`
		Data domain.WelcomeMailData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, domain.MailWelcome, decoded.Type)
	assert.Equal(t, "ada@example.com", decoded.To)
	assert.Equal(t, "Ada", decoded.Data.Name)
	assert.Equal(t, domain.RoleEmployee, decoded.Data.Role)
}

func TestPublishReturnsChannelError(t *testing.T) {
	cfg := &config.Config{}
	cfg.RabbitMQ.Queue = "email_queue"
	cfg.RabbitMQ.PublishTimeout = 5

	boom := errors.New("channel closed")
	p := NewPublisher(cfg, &fakeChannel{err: boom})

	err := p.Publish(domain.MailMessage{Type: domain.MailResetPassword, To: "x@example.com"})
	assert.ErrorIs(t, err, boom)
}
