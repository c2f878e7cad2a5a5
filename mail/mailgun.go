package mail

import (
	"context"
	"strings"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
	"hackathon-backend/errs"
	"hackathon-backend/log"
)

type Mailgun struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgun(domain, apiKey, from string, eu bool) *Mailgun {
	mg := mailgun.NewMailgun(domain, apiKey)
	if eu {
		mg.SetAPIBase(mailgun.APIBaseEU)
	}

	return &Mailgun{mg: mg, from: from}
}

func (s *Mailgun) Send(ctx context.Context, m *Message) error {
	logger := log.Logger.With(zap.String("to", strings.Join(m.To, ", ")))

	text := m.Body
	if m.IsHTML {
		text = ""
	}
	msg := s.mg.NewMessage(s.from, m.Subject, text, m.To...)
	if m.IsHTML {
		msg.SetHtml(m.Body)
	}
	for _, a := range m.Attachments {
		msg.AddBufferAttachment(a.FileName, a.Content)
	}

	_, id, err := s.mg.Send(ctx, msg)
	if err != nil {
		logger.Error("mailgun send failed", zap.Error(err))
		return errs.ErrMail
	}
	logger.Debug("mail queued", zap.String("id", id))

	return nil
}
