package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-booking/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(EventBookingCreated, "b1", map[string]int{"party_size": 4})
	assert.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "b1", env.CorrelationID)

	var payload map[string]int
	assert.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 4, payload["party_size"])
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.NoError(t, r.Publish(context.Background(), EventShiftStarted, "u1", nil))
	assert.NoError(t, r.Publish(context.Background(), EventShiftEnded, "u1", nil))
	assert.Equal(t, []string{EventShiftStarted, EventShiftEnded}, r.Types())
}

func TestKafkaPublisherRejectsAfterClose(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "test", 1)
	p.Start()
	p.Close()
	p.Close()

	err := p.Publish(context.Background(), EventBookingCreated, "b1", nil)
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
