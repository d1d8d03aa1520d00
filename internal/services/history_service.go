package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
)

// HistoryService serves chart points from stored readings
type HistoryService struct {
	logger  *logging.Logger
	store   store.Store
	loc     *time.Location
	metrics *metrics.Metrics
}

// NewHistoryService creates a HistoryService labelling points in loc
func NewHistoryService(logger *logging.Logger, s store.Store, loc *time.Location, m *metrics.Metrics) *HistoryService {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryService{
		logger:  logger,
		store:   s,
		loc:     loc,
		metrics: m,
	}
}

type historyPoint struct {
	at    time.Time
	point models.HistoryPoint
}

// Query returns the newest points of the requested source.
//
// For "all" each source is limited separately, the two are merged newest
// first and the result is cut to the limit; Count is the merged length
// before the cut. A dataset query without an explicit limit returns every
// bucket. Limit 0 means no limit.
func (s *HistoryService) Query(ctx context.Context, req *models.HistoryRequest) (*models.HistoryResponse, error) {
	var points []historyPoint

	if req.Source == utils.SourceRealtime || req.Source == utils.SourceAll {
		readings, err := s.store.ListReadings(ctx, store.Newest(req.Limit))
		if err != nil {
			return nil, s.storeError("list_readings", err)
		}
		for _, r := range readings {
			points = append(points, s.realtimePoint(r))
		}
	}

	if req.Source == utils.SourceDataset || req.Source == utils.SourceAll {
		q := store.Newest(req.Limit)
		if req.Source == utils.SourceDataset && !req.LimitSet {
			q.Limit = 0
		}
		rows, err := s.store.ListDataset(ctx, q)
		if err != nil {
			return nil, s.storeError("list_dataset", err)
		}
		for _, r := range rows {
			points = append(points, s.datasetPoint(r))
		}
	}

	count := len(points)
	if req.Source == utils.SourceAll {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].at.After(points[j].at)
		})
		if req.Limit > 0 && len(points) > req.Limit {
			points = points[:req.Limit]
		}
	}

	data := make([]models.HistoryPoint, len(points))
	for i, p := range points {
		data[i] = p.point
	}

	return &models.HistoryResponse{
		Success: true,
		Data:    data,
		Count:   count,
	}, nil
}

func (s *HistoryService) realtimePoint(r *models.SensorReading) historyPoint {
	at := r.Time()
	return historyPoint{
		at: at,
		point: models.HistoryPoint{
			Time:        at.In(s.loc).Format("15:04"),
			Timestamp:   at.In(s.loc).Format(time.RFC3339),
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			FanSpeed:    r.FanSpeedPercent(),
			Source:      utils.SourceRealtime,
		},
	}
}

func (s *HistoryService) datasetPoint(r *models.DatasetReading) historyPoint {
	return historyPoint{
		at: r.Datetime,
		point: models.HistoryPoint{
			Time:        r.Datetime.In(s.loc).Format("15:04"),
			Timestamp:   r.Datetime.In(s.loc).Format(time.RFC3339),
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			FanSpeed:    r.Speed,
			Source:      utils.SourceDataset,
		},
	}
}

func (s *HistoryService) storeError(op string, err error) *ServiceError {
	s.metrics.StoreError(op)
	s.logger.Error("History query failed", "operation", op, "error", err)
	return storeServiceError(err)
}

// storeServiceError maps a store failure to a service error
func storeServiceError(err error) *ServiceError {
	if errors.Is(err, store.ErrUnavailable) {
		return NewServiceError(CodeStoreUnavailable, "Reading store is temporarily unavailable")
	}
	return NewServiceError(CodeQueryFailed, "Failed to read from the reading store")
}
