// Package chatgw publishes chat-room-created events to NATS JetStream so a
// separate chat relay service can provision the room's messaging channel.
// Adapted from the teacher's internal/pkg/nats client: same connection
// options and JetStream publish path, trimmed to the one subject this
// module's lifecycle/decision packages need (no stream/consumer
// management — that belongs to the chat relay, not the matcher).
package chatgw

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
)

const chatRoomCreatedSubject = "chat.room.created"

// Gateway publishes chat room lifecycle events. It implements
// lifecycle.Notifier and decision.Notifier.
type Gateway struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Logger
}

// Connect dials the NATS server with the teacher's reconnect posture
// (unlimited reconnects, 2s backoff) and opens a JetStream context.
func Connect(url string, logger *logrus.Logger) (*Gateway, error) {
	conn, err := nats.Connect(url,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	return &Gateway{conn: conn, js: js, logger: logger}, nil
}

type chatRoomCreatedEvent struct {
	RoomID       string   `json:"room_id"`
	MatchID      string   `json:"match_id"`
	Participants []string `json:"participants"`
	Type         string   `json:"type"`
	CreatedAt    string   `json:"created_at"`
}

// NotifyChatRoomCreated publishes a chat.room.created event. Failure here
// never fails the caller's write (the chat room document already persisted
// via Store.InsertChatRoom is the source of truth).
func (g *Gateway) NotifyChatRoomCreated(ctx context.Context, room entity.ChatRoom) error {
	payload, err := json.Marshal(chatRoomCreatedEvent{
		RoomID:       room.ID,
		MatchID:      room.MatchID,
		Participants: room.Participants,
		Type:         room.Type,
		CreatedAt:    room.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding chat room event: %w", err)
	}

	_, err = g.js.Publish(ctx, chatRoomCreatedSubject, payload)
	if err != nil {
		g.logger.WithError(err).WithField("room_id", room.ID).Warn("failed to publish chat room event")
		return err
	}
	return nil
}

func (g *Gateway) Close() {
	if g.conn != nil {
		g.conn.Close()
	}
}
