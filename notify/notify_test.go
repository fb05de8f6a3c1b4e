package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rustyeddy/funds/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type recorder struct{ alerts []Alert }

func (r *recorder) Notify(_ context.Context, a Alert) { r.alerts = append(r.alerts, a) }

func TestKafkaPublishesJSON(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	k := &Kafka{w: w, log: logger.NewNop()}

	k.Notify(context.Background(), Alert{
		Subject:   SubjectPolicyUpdated,
		Level:     LevelInfo,
		AccountID: "acc-1",
		Account:   "u1/live",
		Message:   "profit split 50/25/25",
	})

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "acc-1", string(w.msgs[0].Key))

	var got Alert
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, SubjectPolicyUpdated, got.Subject)
	assert.False(t, got.At.IsZero())

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestKafkaWriteErrorIsLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	w := &fakeWriter{err: errors.New("broker down")}
	k := &Kafka{w: w, log: logger.Wrap(zap.New(core))}

	k.Notify(context.Background(), Alert{Subject: SubjectAccountReset})
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestMulti(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	Multi{a, Discard{}, b}.Notify(context.Background(), Alert{Subject: SubjectWarning})
	assert.Len(t, a.alerts, 1)
	assert.Len(t, b.alerts, 1)
}

func TestLogLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	n := NewLog(logger.Wrap(zap.New(core)))
	n.Notify(context.Background(), Alert{Subject: SubjectWarning, Level: LevelWarning, Message: "shortfall"})
	n.Notify(context.Background(), Alert{Subject: SubjectPolicyUpdated, Level: LevelInfo})

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.InfoLevel).Len())
}
