package services

import (
	"context"
	"testing"
	"time"

	"github.com/climadash/climadash/internal/analytics"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService(s store.Store, includeRealtime bool) *AnalyticsService {
	return NewAnalyticsService(logging.NewNop(), s, AnalyticsConfig{
		Options:         analytics.DefaultOptions(),
		IncludeRealtime: includeRealtime,
	}, metrics.New())
}

func TestAnalyticsService_NoData(t *testing.T) {
	s := store.NewMemoryStore()
	seedReadings(s, 20, 21)
	svc := newAnalyticsService(s, false)

	resp, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, NoDatasetMessage, resp.Message)
	assert.Nil(t, resp.Analytics)
}

func TestAnalyticsService_Dataset(t *testing.T) {
	s := store.NewMemoryStore()
	seedDataset(s, 5, 3, 4, 0, 1, 2)
	seedReadings(s, 40)
	svc := newAnalyticsService(s, false)

	resp, err := svc.Compute(context.Background())
	require.NoError(t, err)
	require.IsType(t, &analytics.Report{}, resp.Analytics)
	report := resp.Analytics.(*analytics.Report)

	assert.Equal(t, analytics.DataPoints{Total: 6, Realtime: 0, Dataset: 6}, report.DataPoints)
	assert.Equal(t, 25.0, report.Descriptive.Temperature.Min)
	assert.Equal(t, 30.0, report.Descriptive.Temperature.Max)

	// temperatures rise by one per hour once sorted by datetime
	assert.Equal(t, 31.0, report.Predictive.Forecast.Temperature)
	assert.Equal(t, 28.0, report.Predictive.MovingAverages.Temperature)
	assert.Equal(t, 1000.0, report.Diagnostic.Trends.Temperature)
	assert.Equal(t, -1.0, report.Diagnostic.Correlations.TempHumidity)
}

func TestAnalyticsService_IncludeRealtime(t *testing.T) {
	s := store.NewMemoryStore()
	seedDataset(s, 0, 1, 2)
	seedReadings(s, 40, 41)
	svc := newAnalyticsService(s, true)

	resp, err := svc.Compute(context.Background())
	require.NoError(t, err)
	report := resp.Analytics.(*analytics.Report)

	assert.Equal(t, analytics.DataPoints{Total: 5, Realtime: 2, Dataset: 3}, report.DataPoints)
	assert.Equal(t, 41.0, report.Descriptive.Temperature.Max)
}

func TestAnalyticsService_StoreUnavailable(t *testing.T) {
	svc := newAnalyticsService(unavailableStore{store.NewMemoryStore()}, false)

	_, err := svc.Compute(context.Background())
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStoreUnavailable, se.Code)
}

func TestMergeByTime(t *testing.T) {
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }
	a := []observation{{at: at(0), temperature: 1}, {at: at(2), temperature: 3}, {at: at(4), temperature: 5}}
	b := []observation{{at: at(1), temperature: 2}, {at: at(2), temperature: 4}, {at: at(9), temperature: 9}}

	merged := mergeByTime(a, b)
	got := make([]float64, len(merged))
	for i, o := range merged {
		got[i] = o.temperature
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 9}, got)
}
