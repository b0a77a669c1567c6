package cli

import (
	"context"

	"portfolio/internal/config"
	"portfolio/internal/contact"
	"portfolio/internal/store"

	"go.uber.org/zap"
)

func newSender(cfg *config.Config, log *zap.Logger) contact.Sender {
	switch cfg.Contact.Sender {
	case config.SenderLog:
		return contact.LogSender{Log: log}
	default:
		return &contact.EmailJS{
			URL:         cfg.Contact.Endpoint,
			AccessToken: cfg.Contact.AccessToken,
		}
	}
}

func contactOptions(cfg *config.Config, log *zap.Logger) contact.Options {
	return contact.Options{
		Endpoint: contact.Endpoint{
			ServiceID:  cfg.Contact.ServiceID,
			TemplateID: cfg.Contact.TemplateID,
			UserID:     cfg.Contact.UserID,
		},
		ResetDelay: cfg.Contact.ResetDelay,
		Timeout:    cfg.Contact.Timeout,
		Logger:     log,
	}
}

// recordingSender opens the inbox and wraps the configured sender so every
// message is kept. The caller closes the returned inbox.
func recordingSender(ctx context.Context, cfg *config.Config, log *zap.Logger) (contact.Sender, *store.Inbox, error) {
	inbox, err := store.OpenInbox(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return &store.Recorder{Inbox: inbox, Next: newSender(cfg, log), Log: log}, inbox, nil
}
