package mq

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	days []time.Time
}

func (r *recordingNotifier) NotifyDay(day time.Time) { r.days = append(r.days, day) }

func TestDispatch(t *testing.T) {
	local := &recordingNotifier{}
	e := NewEmitter(nil, local, zap.NewNop().Sugar())

	require.NoError(t, e.dispatch(`{"type":"update","date":"2025-10-30"}`))
	assert.Equal(t, []time.Time{time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC)}, local.days)

	assert.Error(t, e.dispatch(`not json`))
	assert.Error(t, e.dispatch(`{"type":"delete","date":"2025-10-30"}`))
	assert.Error(t, e.dispatch(`{"type":"update","date":"30/10/2025"}`))
	assert.Len(t, local.days, 1)
}

func TestNotifyDayFallsBackWhenRedisIsDown(t *testing.T) {
	conn := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer conn.Close()
	local := &recordingNotifier{}
	e := NewEmitter(conn, local, zap.NewNop().Sugar())

	day := time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC)
	e.NotifyDay(day)
	assert.Equal(t, []time.Time{day}, local.days)
}
