package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/climadash/climadash/internal/cache"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSensorService(pub *recordingPublisher, s store.Store) *SensorService {
	var svc *SensorService
	if pub != nil {
		svc = NewSensorService(logging.NewNop(), cache.NewLatest(base), pub, s, "", nil)
	} else {
		svc = NewSensorService(logging.NewNop(), cache.NewLatest(base), nil, s, "", nil)
	}
	svc.now = func() time.Time { return base.Add(time.Hour) }
	return svc
}

func TestSensorService_RecordPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newSensorService(pub, nil)

	reading, err := svc.Record(context.Background(), &models.SensorDataRequest{
		Temperature: "26.5",
		Humidity:    58.0,
		FanSpeed:    "mid",
	})
	require.NoError(t, err)
	assert.Equal(t, 26.5, reading.Temperature)
	assert.Equal(t, 58.0, reading.Humidity)
	assert.Equal(t, "MID", reading.FanSpeed)
	assert.Equal(t, base.Add(time.Hour), reading.Timestamp)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, utils.RealtimeSubject, pub.subjects[0])

	var published models.SensorReading
	require.NoError(t, json.Unmarshal(pub.messages[0], &published))
	assert.Equal(t, 26.5, published.Temperature)
	assert.Equal(t, "MID", published.FanSpeed)

	assert.Equal(t, *reading, svc.Latest())
}

func TestSensorService_RecordWritesStoreWithoutQueue(t *testing.T) {
	s := store.NewMemoryStore()
	svc := newSensorService(nil, s)

	_, err := svc.Record(context.Background(), &models.SensorDataRequest{Temperature: 22.0})
	require.NoError(t, err)

	readings, err := s.ListReadings(context.Background(), store.All())
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, models.FanSpeedOff, readings[0].FanSpeed)
	assert.Zero(t, readings[0].Humidity)
}

func TestSensorService_RecordDefaults(t *testing.T) {
	svc := newSensorService(&recordingPublisher{}, nil)

	reading, err := svc.Record(context.Background(), &models.SensorDataRequest{
		Temperature: 30.0,
		Humidity:    "n/a",
		FanSpeed:    "",
	})
	require.NoError(t, err)
	assert.Zero(t, reading.Humidity)
	assert.Equal(t, models.FanSpeedOff, reading.FanSpeed)
}

func TestSensorService_RecordInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  models.SensorDataRequest
		code string
	}{
		{"missing temperature", models.SensorDataRequest{Humidity: 50.0}, CodeInvalidTemperature},
		{"text temperature", models.SensorDataRequest{Temperature: "warm"}, CodeInvalidTemperature},
		{"bool temperature", models.SensorDataRequest{Temperature: true}, CodeInvalidTemperature},
		{"unknown fan speed", models.SensorDataRequest{Temperature: 20.0, FanSpeed: "TURBO"}, CodeInvalidFanSpeed},
		{"numeric fan speed", models.SensorDataRequest{Temperature: 20.0, FanSpeed: 2.0}, CodeInvalidFanSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc := newSensorService(pub, nil)

			_, err := svc.Record(context.Background(), &tt.req)
			se, ok := AsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, se.Code)
			assert.Empty(t, pub.messages)
			assert.Equal(t, models.FanSpeedOff, svc.Latest().FanSpeed)
		})
	}
}

func TestSensorService_PublishFailureDoesNotFail(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("queue down")}
	svc := newSensorService(pub, nil)

	reading, err := svc.Record(context.Background(), &models.SensorDataRequest{Temperature: 21.0})
	require.NoError(t, err)
	assert.Equal(t, 21.0, svc.Latest().Temperature)
	assert.Equal(t, 21.0, reading.Temperature)
}

func TestSensorService_StoreFailureDoesNotFail(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Close())
	svc := newSensorService(nil, s)

	_, err := svc.Record(context.Background(), &models.SensorDataRequest{Temperature: 21.0})
	require.NoError(t, err)
}

func TestSensorService_LatestInitial(t *testing.T) {
	svc := newSensorService(&recordingPublisher{}, nil)

	latest := svc.Latest()
	assert.Zero(t, latest.Temperature)
	assert.Equal(t, models.FanSpeedOff, latest.FanSpeed)
	assert.Equal(t, base, latest.Timestamp)
}
