package pairing

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

const EmailQueue = "email_queue"

// AMQPMailer 把邮件发送到 email_queue，由 mail worker 发送
type AMQPMailer struct {
	ch      *amqp.Channel
	timeout time.Duration
}

func NewAMQPMailer(ch *amqp.Channel, timeout time.Duration) *AMQPMailer {
	return &AMQPMailer{ch: ch, timeout: timeout}
}

func (m *AMQPMailer) PublishMail(msg *domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	return m.ch.PublishWithContext(
		ctx,
		"",
		EmailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
