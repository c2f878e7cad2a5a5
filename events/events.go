package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"hackathon-backend/log"
)

const HackathonExchange = "hackathon"

type Type string

const (
	TeamRegistered   Type = "team.registered"
	TeamWaitlisted   Type = "team.waitlisted"
	TeamPromoted     Type = "team.promoted"
	SubmissionSaved  Type = "submission.saved"
	SettingsChanged  Type = "settings.changed"
	CheckInChanged   Type = "checkin.changed"
	BulkEmailSent    Type = "email.bulk_sent"
	CertificateAdded Type = "certificate.added"
)

type Event struct {
	ID       string    `json:"id"`
	Type     Type      `json:"type"`
	TeamID   string    `json:"teamId,omitempty"`
	TeamName string    `json:"teamName,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

func New(t Type, teamID, teamName, detail string) *Event {
	return &Event{
		ID:       uuid.NewString(),
		Type:     t,
		TeamID:   teamID,
		TeamName: teamName,
		Detail:   detail,
		At:       time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(e *Event) error
}

// Discard drops every event. Used when no broker is configured.
type Discard struct{}

func (Discard) Publish(*Event) error { return nil }

type Bus struct {
	Conn *amqp.Connection
}

// Dial connects to RabbitMQ, retrying with backoff, and declares the exchange.
func Dial(connString string) (*Bus, error) {
	log.Logger.Info("Trying to connect to rabbitmq...")

	var conn *amqp.Connection
	t := time.Second
	for i := 0; i < 6; i++ {
		var err error
		conn, err = amqp.Dial(connString)
		if err != nil {
			if i == 5 {
				return nil, err
			}
			log.Logger.Warn("rabbitmq not ready", zap.Duration("retry_in", t), zap.Error(err))
			time.Sleep(t)
			t *= 2

			continue
		}

		break
	}
	log.Logger.Info("Connected to rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		HackathonExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Bus{Conn: conn}, nil
}

func (b *Bus) Close() error {
	return b.Conn.Close()
}
