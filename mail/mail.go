// Package mail sends outbound email for the hackathon.
package mail

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"hackathon-backend/log"
)

type Attachment struct {
	FileName string
	Content  []byte
}

type Message struct {
	To          []string
	Subject     string
	Body        string
	IsHTML      bool
	Attachments []Attachment
}

type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// LogSender only logs. It stands in when no relay is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m *Message) error {
	log.Logger.Info("mail not sent, no relay configured",
		zap.String("to", strings.Join(m.To, ", ")),
		zap.String("subject", m.Subject),
		zap.Int("attachments", len(m.Attachments)),
	)
	return nil
}
