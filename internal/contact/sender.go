package contact

import (
	"context"

	"go.uber.org/zap"
)

// Endpoint identifies where a message is delivered (EmailJS-style ids).
type Endpoint struct {
	ServiceID  string `json:"service_id"`
	TemplateID string `json:"template_id"`
	UserID     string `json:"user_id"`
}

// Payload is the template parameter set handed to the sender.
type Payload struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Message   string `json:"message"`
}

func payloadFrom(v Values) Payload {
	return Payload{FromName: v.Name, FromEmail: v.Email, Message: v.Message}
}

// Sender delivers one message. It either succeeds or returns an error; the
// form never retries.
type Sender interface {
	Send(ctx context.Context, ep Endpoint, p Payload) error
}

type SenderFunc func(ctx context.Context, ep Endpoint, p Payload) error

func (f SenderFunc) Send(ctx context.Context, ep Endpoint, p Payload) error { return f(ctx, ep, p) }

// LogSender accepts every message and only logs it. Useful for local runs
// without delivery credentials.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(ctx context.Context, ep Endpoint, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("contact message (not delivered)",
		zap.String("service_id", ep.ServiceID),
		zap.String("template_id", ep.TemplateID),
		zap.String("from_name", p.FromName),
		zap.String("from_email", p.FromEmail),
		zap.Int("message_len", len(p.Message)),
	)
	return nil
}
