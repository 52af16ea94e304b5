package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/infrastructure/storage"
)

// OutboxSender writes each e-mail as an .eml file for a mail client to pick up
type OutboxSender struct {
	store  port.FileStore
	from   string
	now    func() time.Time
	logger *zap.Logger
}

// NewOutboxSender creates a sender that stores messages in store
func NewOutboxSender(store port.FileStore, from string, logger *zap.Logger) *OutboxSender {
	return &OutboxSender{
		store:  store,
		from:   from,
		now:    time.Now,
		logger: logger,
	}
}

// Send stores the message as <timestamp>-<subject>.eml
func (o *OutboxSender) Send(ctx context.Context, msg port.MailMessage) error {
	now := o.now()
	raw, err := buildMessage(o.from, msg, now)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s-%s.eml", now.Format("20060102T150405.000"), storage.SanitizeKey(msg.Subject))
	location, err := o.store.Put(ctx, key, raw)
	if err != nil {
		return fmt.Errorf("store message: %w", err)
	}

	o.logger.Info("Email written to outbox",
		zap.String("location", location),
		zap.Strings("to", msg.To))

	return nil
}

var _ port.MailSender = (*OutboxSender)(nil)
