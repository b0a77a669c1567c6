package store

import (
	"context"

	"go.uber.org/zap"

	"portfolio/internal/contact"
)

// Recorder is a contact.Sender that keeps a copy of every message in the
// inbox. Inbox errors are logged and never fail the delivery itself.
type Recorder struct {
	Inbox *Inbox
	Next  contact.Sender
	Log   *zap.Logger
}

var _ contact.Sender = (*Recorder)(nil)

func (r *Recorder) Send(ctx context.Context, ep contact.Endpoint, p contact.Payload) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	sub, recErr := r.Inbox.Record(ctx, p.FromName, p.FromEmail, p.Message)
	if recErr != nil {
		log.Warn("inbox record failed", zap.Error(recErr))
	}

	err := r.Next.Send(ctx, ep, p)

	if recErr == nil {
		status := StatusSent
		if err != nil {
			status = StatusFailed
		}
		// The send context may already be expired; the bookkeeping still has to land.
		if merr := r.Inbox.Mark(context.WithoutCancel(ctx), sub.ID, status, err); merr != nil {
			log.Warn("inbox update failed", zap.String("id", sub.ID), zap.Error(merr))
		}
	}
	return err
}
