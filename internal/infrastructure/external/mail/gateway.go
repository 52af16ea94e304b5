package mail

import (
	"context"
	"time"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

// Gateway submits visits by composing the e-mail on the device side.
// It implements port.SubmissionGateway.
type Gateway struct {
	composer *Composer
	sender   port.MailSender
	now      func() time.Time
}

// NewGateway creates a mail submission gateway
func NewGateway(composer *Composer, sender port.MailSender) *Gateway {
	return &Gateway{
		composer: composer,
		sender:   sender,
		now:      time.Now,
	}
}

// Submit composes and hands over the visit e-mail
func (g *Gateway) Submit(ctx context.Context, submission entity.Submission) error {
	const op = "mail.submit"

	msg, err := g.composer.Compose(submission, g.now())
	if err != nil {
		return failure.Wrap(err, failure.KindInternal, op, failure.TitleSendError, "")
	}

	if err := g.sender.Send(ctx, msg); err != nil {
		return failure.Network(err, op, failure.TitleSendError, err.Error())
	}

	return nil
}

var _ port.SubmissionGateway = (*Gateway)(nil)
