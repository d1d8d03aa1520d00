package services

import (
	"context"
	"testing"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryFixture() *HistoryService {
	s := store.NewMemoryStore()
	seedReadings(s, 20, 21, 22)  // 08:00, 08:01, 08:02
	seedDataset(s, -2, -1, 1, 2) // 06:00, 07:00, 09:00, 10:00
	return NewHistoryService(logging.NewNop(), s, time.UTC, nil)
}

func sources(points []models.HistoryPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Source + "@" + p.Time
	}
	return out
}

func TestHistoryService_Realtime(t *testing.T) {
	svc := newHistoryFixture()

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("realtime", "2", 1000))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Data, 2)

	first := resp.Data[0]
	assert.Equal(t, "08:02", first.Time)
	assert.Equal(t, "2024-06-01T08:02:00Z", first.Timestamp)
	assert.Equal(t, 22.0, first.Temperature)
	assert.Equal(t, 33, first.FanSpeed)
	assert.Equal(t, "realtime", first.Source)
}

func TestHistoryService_DatasetWithoutLimitReturnsAll(t *testing.T) {
	svc := newHistoryFixture()

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("dataset", "", 1))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, []string{"dataset@10:00", "dataset@09:00", "dataset@07:00", "dataset@06:00"}, sources(resp.Data))
	assert.Equal(t, 2, resp.Data[0].FanSpeed)
}

func TestHistoryService_DatasetLimit(t *testing.T) {
	svc := newHistoryFixture()

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("dataset", "1", 1000))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"dataset@10:00"}, sources(resp.Data))
}

func TestHistoryService_AllMergesNewestFirst(t *testing.T) {
	svc := newHistoryFixture()

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("", "3", 1000))
	require.NoError(t, err)

	// three realtime plus three dataset before the cut
	assert.Equal(t, 6, resp.Count)
	assert.Equal(t, []string{"dataset@10:00", "dataset@09:00", "realtime@08:02"}, sources(resp.Data))
}

func TestHistoryService_AllNoLimit(t *testing.T) {
	svc := newHistoryFixture()

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("all", "0", 1000))
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Count)
	assert.Len(t, resp.Data, 7)
	assert.Equal(t, "dataset@06:00", sources(resp.Data)[6])
}

func TestHistoryService_Timezone(t *testing.T) {
	s := store.NewMemoryStore()
	seedReadings(s, 20)
	svc := NewHistoryService(logging.NewNop(), s, time.FixedZone("PKT", 5*3600), nil)

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("realtime", "", 1000))
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "13:00", resp.Data[0].Time)
	assert.Equal(t, "2024-06-01T13:00:00+05:00", resp.Data[0].Timestamp)
}

func TestHistoryService_Empty(t *testing.T) {
	svc := NewHistoryService(logging.NewNop(), store.NewMemoryStore(), nil, nil)

	resp, err := svc.Query(context.Background(), models.NewHistoryRequest("all", "", 1000))
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
	assert.Zero(t, resp.Count)
}

func TestHistoryService_StoreUnavailable(t *testing.T) {
	svc := NewHistoryService(logging.NewNop(), unavailableStore{store.NewMemoryStore()}, nil, nil)

	_, err := svc.Query(context.Background(), models.NewHistoryRequest("realtime", "", 1000))
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStoreUnavailable, se.Code)
}

func TestHistoryService_StoreFailure(t *testing.T) {
	svc := NewHistoryService(logging.NewNop(), brokenStore{store.NewMemoryStore()}, nil, nil)

	_, err := svc.Query(context.Background(), models.NewHistoryRequest("dataset", "", 1000))
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeQueryFailed, se.Code)
}
