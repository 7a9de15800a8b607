package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel carries availability changes between API instances.
const Channel = "special-collections:updates"

const publishTimeout = 2 * time.Second

// DayNotifier is the local fan-out, usually the websocket hub.
type DayNotifier interface {
	NotifyDay(day time.Time)
}

// Event is the message published on Channel.
type Event struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

// Emitter publishes booking changes to Redis so every instance can refresh
// its own websocket clients.
type Emitter struct {
	conn  redis.UniversalClient
	local DayNotifier
	log   *zap.SugaredLogger
}

func NewEmitter(conn redis.UniversalClient, local DayNotifier, log *zap.SugaredLogger) *Emitter {
	return &Emitter{conn: conn, local: local, log: log}
}

// NotifyDay publishes an update for day. If Redis is unreachable the local
// subscribers are still told directly.
func (e *Emitter) NotifyDay(day time.Time) {
	data, err := json.Marshal(Event{Type: "update", Date: day.UTC().Format("2006-01-02")})
	if err != nil {
		e.log.Errorw("marshal availability event", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := e.conn.Publish(ctx, Channel, data).Err(); err != nil {
		e.log.Warnw("publish availability event failed; notifying locally", "err", err)
		e.local.NotifyDay(day)
	}
}

// dispatch decodes one published payload and hands it to the local notifier.
func (e *Emitter) dispatch(payload string) error {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if ev.Type != "update" {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	day, err := time.Parse("2006-01-02", ev.Date)
	if err != nil {
		return fmt.Errorf("decode event date: %w", err)
	}
	e.local.NotifyDay(day)
	return nil
}

// Run subscribes to Channel until ctx is cancelled.
func (e *Emitter) Run(ctx context.Context) {
	sub := e.conn.Subscribe(ctx, Channel)
	defer sub.Close()

	e.log.Infow("listening for availability events", "channel", Channel)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := e.dispatch(msg.Payload); err != nil {
				e.log.Warnw("dropping availability event", "err", err)
			}
		}
	}
}
