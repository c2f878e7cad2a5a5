package events

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"hackathon-backend/log"
)

func (b *Bus) Publish(event *Event) error {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(event)
	if err != nil {
		return err
	}

	rch, err := b.Conn.Channel()
	if err != nil {
		return err
	}
	defer rch.Close()

	return rch.Publish(HackathonExchange, "", false, false, amqp.Publishing{
		ContentType: "application/x-gob",
		MessageId:   event.ID,
		Body:        buf.Bytes(),
	})
}

// Consume streams every event published after the call until ctx is done.
func (b *Bus) Consume(ctx context.Context) (<-chan *Event, error) {
	rch, err := b.Conn.Channel()
	if err != nil {
		return nil, err
	}

	q, err := rch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		rch.Close()
		return nil, err
	}

	err = rch.QueueBind(
		q.Name,
		"",
		HackathonExchange,
		false,
		nil,
	)
	if err != nil {
		rch.Close()
		return nil, err
	}

	msgs, err := rch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		rch.Close()
		return nil, err
	}

	ch := make(chan *Event)
	go func() {
		defer close(ch)
		defer func() {
			if err := rch.Close(); err != nil {
				log.Logger.Debug("unable to close channel", zap.Error(err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}

				var e Event
				if err := gob.NewDecoder(bytes.NewReader(d.Body)).Decode(&e); err != nil {
					log.Logger.Error("unable to decode event", zap.Error(err))
					continue
				}

				select {
				case ch <- &e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
